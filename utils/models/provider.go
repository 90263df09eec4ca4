package models

// ModelConfig represents configuration options for model calls
type ModelConfig struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Provider represents a text-generation backend (e.g. Anthropic, OpenAI).
// Generate is synchronous and blocking; any failure is opaque to the caller
// and is not retried at this layer.
type Provider interface {
	Name() string
	SupportsModel(modelName string) bool
	Generate(modelName string, prompt string) (string, error)
	Configure(apiKey string) error
	SetVerbose(verbose bool)
}

// DetectProvider determines the appropriate provider based on the model name
func DetectProvider(modelName string) Provider {
	return registry.FindProvider(modelName)
}
