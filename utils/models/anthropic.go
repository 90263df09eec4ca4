package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"

// AnthropicProvider handles Anthropic family of models
type AnthropicProvider struct {
	apiKey   string
	endpoint string
	config   ModelConfig
	verbose  bool
}

// NewAnthropicProvider creates a new Anthropic provider instance
func NewAnthropicProvider() *AnthropicProvider {
	return &AnthropicProvider{
		endpoint: defaultAnthropicEndpoint,
		config: ModelConfig{
			Temperature: 0.7,
			MaxTokens:   2000,
			TopP:        1.0,
		},
	}
}

func init() {
	RegisterProvider("anthropic", NewProviderFactory(
		func() Provider { return NewAnthropicProvider() },
		ProviderMetadata{
			Name:          "anthropic",
			Description:   "Anthropic Claude models",
			ModelPrefixes: []string{"claude-"},
			Priority:      10,
		},
	))
}

// debugf prints debug information if verbose mode is enabled
func (a *AnthropicProvider) debugf(format string, args ...interface{}) {
	if a.verbose {
		fmt.Printf("[DEBUG][Anthropic] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// SupportsModel checks if the given model name is supported by Anthropic
func (a *AnthropicProvider) SupportsModel(modelName string) bool {
	a.debugf("Checking if model is supported: %s", modelName)
	modelName = strings.ToLower(modelName)
	isSupported := strings.HasPrefix(modelName, "claude-")
	a.debugf("Model %s support result: %v", modelName, isSupported)
	return isSupported
}

// Configure sets up the provider with necessary credentials
func (a *AnthropicProvider) Configure(apiKey string) error {
	a.debugf("Configuring Anthropic provider")
	if apiKey == "" {
		return fmt.Errorf("API key is required for Anthropic provider")
	}
	a.apiKey = apiKey
	a.debugf("API key configured successfully")
	return nil
}

// SetEndpoint overrides the messages endpoint, for proxies and tests
func (a *AnthropicProvider) SetEndpoint(endpoint string) {
	a.endpoint = endpoint
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	TopP        float64            `json:"top_p"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends a prompt to the specified model and returns the response text
func (a *AnthropicProvider) Generate(modelName string, prompt string) (string, error) {
	a.debugf("Preparing to send prompt to model: %s", modelName)
	a.debugf("Prompt length: %d characters", len(prompt))

	if a.apiKey == "" {
		return "", fmt.Errorf("Anthropic provider not configured: missing API key")
	}

	if !a.SupportsModel(modelName) {
		return "", fmt.Errorf("invalid Anthropic model: %s", modelName)
	}

	a.debugf("Model validation passed, preparing API call")
	a.debugf("Using configuration: Temperature=%.2f, MaxTokens=%d, TopP=%.2f",
		a.config.Temperature, a.config.MaxTokens, a.config.TopP)

	reqBody := anthropicRequest{
		Model: modelName,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{
						Type: "text",
						Text: prompt,
					},
				},
			},
		},
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
		TopP:        a.config.TopP,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", a.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no response content returned from Anthropic")
	}

	result := response.Content[0].Text
	a.debugf("API call completed, response length: %d characters", len(result))

	return result, nil
}

// SetConfig updates the provider configuration
func (a *AnthropicProvider) SetConfig(config ModelConfig) {
	a.config = config
}

// GetConfig returns the current provider configuration
func (a *AnthropicProvider) GetConfig() ModelConfig {
	return a.config
}

// SetVerbose enables or disables verbose mode
func (a *AnthropicProvider) SetVerbose(verbose bool) {
	a.verbose = verbose
}
