package models

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultDeepseekBaseURL = "https://api.deepseek.com/v1"

// DeepseekProvider handles Deepseek family of models through the
// OpenAI-compatible Deepseek API
type DeepseekProvider struct {
	apiKey  string
	baseURL string
	config  ModelConfig
	verbose bool
}

// NewDeepseekProvider creates a new Deepseek provider instance
func NewDeepseekProvider() *DeepseekProvider {
	return &DeepseekProvider{
		baseURL: defaultDeepseekBaseURL,
		config: ModelConfig{
			Temperature: 0.7,
			MaxTokens:   2000,
			TopP:        1.0,
		},
	}
}

func init() {
	RegisterProvider("deepseek", NewProviderFactory(
		func() Provider { return NewDeepseekProvider() },
		ProviderMetadata{
			Name:          "deepseek",
			Description:   "Deepseek chat models",
			ModelPrefixes: []string{"deepseek-"},
			Priority:      10,
		},
	))
}

// Name returns the provider name
func (d *DeepseekProvider) Name() string {
	return "deepseek"
}

// debugf prints debug information if verbose mode is enabled
func (d *DeepseekProvider) debugf(format string, args ...interface{}) {
	if d.verbose {
		fmt.Printf("[DEBUG][Deepseek] "+format+"\n", args...)
	}
}

// SupportsModel checks if the given model name is supported by Deepseek
func (d *DeepseekProvider) SupportsModel(modelName string) bool {
	d.debugf("Checking if model is supported: %s", modelName)
	return strings.HasPrefix(strings.ToLower(modelName), "deepseek-")
}

// Configure sets up the provider with necessary credentials
func (d *DeepseekProvider) Configure(apiKey string) error {
	d.debugf("Configuring Deepseek provider")
	if apiKey == "" {
		return fmt.Errorf("API key is required for Deepseek provider")
	}
	d.apiKey = apiKey
	d.debugf("API key configured successfully")
	return nil
}

// SetBaseURL overrides the API endpoint, for proxies and tests
func (d *DeepseekProvider) SetBaseURL(baseURL string) {
	d.baseURL = baseURL
}

// Generate sends a prompt to the specified model and returns the response text
func (d *DeepseekProvider) Generate(modelName string, prompt string) (string, error) {
	d.debugf("Preparing to send prompt to model: %s", modelName)
	d.debugf("Prompt length: %d characters", len(prompt))

	if d.apiKey == "" {
		return "", fmt.Errorf("Deepseek provider not configured: missing API key")
	}

	if !d.SupportsModel(modelName) {
		return "", fmt.Errorf("invalid Deepseek model: %s", modelName)
	}

	cfg := openai.DefaultConfig(d.apiKey)
	cfg.BaseURL = d.baseURL
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   d.config.MaxTokens,
		Temperature: float32(d.config.Temperature),
		TopP:        float32(d.config.TopP),
	}

	resp, err := client.CreateChatCompletion(context.Background(), req)
	if err != nil {
		return "", fmt.Errorf("Deepseek API error: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned from Deepseek")
	}

	response := resp.Choices[0].Message.Content
	d.debugf("API call completed, response length: %d characters", len(response))

	return response, nil
}

// SetConfig updates the provider configuration
func (d *DeepseekProvider) SetConfig(config ModelConfig) {
	d.config = config
}

// GetConfig returns the current provider configuration
func (d *DeepseekProvider) GetConfig() ModelConfig {
	return d.config
}

// SetVerbose enables or disables verbose mode
func (d *DeepseekProvider) SetVerbose(verbose bool) {
	d.verbose = verbose
}
