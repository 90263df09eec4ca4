package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaProvider handles locally served models through the Ollama API
type OllamaProvider struct {
	baseURL string
	verbose bool
}

// OllamaRequest represents the request structure for Ollama API
type OllamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaResponse represents the response structure from Ollama API
type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaProvider creates a new Ollama provider instance
func NewOllamaProvider() *OllamaProvider {
	return &OllamaProvider{baseURL: defaultOllamaBaseURL}
}

func init() {
	RegisterProvider("ollama", NewProviderFactory(
		func() Provider { return NewOllamaProvider() },
		ProviderMetadata{
			Name:        "ollama",
			Description: "Locally served models via Ollama",
			ModelPrefixes: []string{
				"llama",
				"codellama",
				"mistral",
				"mixtral",
				"phi",
				"qwen",
				"yi",
				"vicuna",
				"openchat",
				"solar",
			},
			Priority: 5,
		},
	))
}

// Name returns the provider name
func (o *OllamaProvider) Name() string {
	return "ollama"
}

// debugf prints debug information if verbose mode is enabled
func (o *OllamaProvider) debugf(format string, args ...interface{}) {
	if o.verbose {
		fmt.Printf("[DEBUG][Ollama] "+format+"\n", args...)
	}
}

// SupportsModel checks if the given model name is supported by Ollama
func (o *OllamaProvider) SupportsModel(modelName string) bool {
	o.debugf("Checking if model is supported: %s", modelName)
	modelName = strings.ToLower(modelName)

	ollamaPrefixes := []string{
		"llama",
		"codellama",
		"mistral",
		"mixtral",
		"phi",
		"qwen",
		"yi",
		"vicuna",
		"openchat",
		"solar",
	}

	for _, prefix := range ollamaPrefixes {
		if strings.HasPrefix(modelName, prefix) {
			o.debugf("Model %s is supported by Ollama (matches prefix: %s)", modelName, prefix)
			return true
		}
	}

	o.debugf("Model %s is not supported by Ollama (no matching prefix)", modelName)
	return false
}

// Configure sets up the provider (no API key needed for Ollama)
func (o *OllamaProvider) Configure(apiKey string) error {
	o.debugf("Configuring Ollama provider")
	return nil
}

// SetBaseURL overrides the Ollama server address
func (o *OllamaProvider) SetBaseURL(baseURL string) {
	o.baseURL = baseURL
}

// Generate sends a prompt to the specified model and returns the response text
func (o *OllamaProvider) Generate(modelName string, prompt string) (string, error) {
	o.debugf("Preparing to send prompt to model: %s", modelName)
	o.debugf("Prompt length: %d characters", len(prompt))

	reqBody := OllamaRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %v", err)
	}

	o.debugf("Sending request to Ollama API at %s", o.baseURL)
	resp, err := http.Post(o.baseURL+"/api/generate", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		o.debugf("Error calling Ollama API: %v", err)
		return "", fmt.Errorf("error calling Ollama API: %v (is Ollama running?)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		o.debugf("Ollama API returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	o.debugf("Ollama API request successful, reading response")

	// Read and accumulate all responses
	var fullResponse strings.Builder
	decoder := json.NewDecoder(resp.Body)
	for {
		var ollamaResp OllamaResponse
		if err := decoder.Decode(&ollamaResp); err != nil {
			if err == io.EOF {
				break
			}
			o.debugf("Error decoding response: %v", err)
			return "", fmt.Errorf("error decoding response: %v", err)
		}
		o.debugf("Received response chunk: done=%v length=%d", ollamaResp.Done, len(ollamaResp.Response))
		fullResponse.WriteString(ollamaResp.Response)
		if ollamaResp.Done {
			break
		}
	}

	result := fullResponse.String()
	o.debugf("API call completed, response length: %d characters", len(result))
	return result, nil
}

// SetVerbose enables or disables verbose mode
func (o *OllamaProvider) SetVerbose(verbose bool) {
	o.verbose = verbose
}
