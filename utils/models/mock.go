package models

import (
	"fmt"
	"strings"
)

// MockProvider is a deterministic offline provider used for tests and as the
// documented fallback when no real provider is configured. It fabricates a
// plausible decomposition of the operation sequence found in the prompt.
type MockProvider struct {
	verbose bool
}

// NewMockProvider creates a new mock provider instance
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func init() {
	RegisterProvider("mock", NewProviderFactory(
		func() Provider { return NewMockProvider() },
		ProviderMetadata{
			Name:          "mock",
			Description:   "Deterministic offline provider for testing",
			ModelPrefixes: []string{"mock"},
			Priority:      1,
		},
	))
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return "mock"
}

// SupportsModel accepts any model name starting with "mock"
func (m *MockProvider) SupportsModel(modelName string) bool {
	return strings.HasPrefix(strings.ToLower(modelName), "mock")
}

// Configure is a no-op; the mock provider needs no credentials
func (m *MockProvider) Configure(apiKey string) error {
	return nil
}

// Generate fabricates a fixed four-phase decomposition of the operation
// sequence embedded in the prompt
func (m *MockProvider) Generate(modelName string, prompt string) (string, error) {
	sequence := extractSequence(prompt)
	if sequence == "" {
		return "", nil
	}

	return fmt.Sprintf(`Step 1: Check preconditions for %q
Step 2: Execute the operation: %s
Step 3: Verify the operation completed successfully
Step 4: Clean up any intermediate state`, sequence, sequence), nil
}

// extractSequence pulls the operation sequence out of a prompt built by the
// splitter; when the marker is absent the last non-empty line is used.
func extractSequence(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i, line := range lines {
		if strings.Contains(line, "Operation sequence to split") {
			for _, candidate := range lines[i+1:] {
				if s := strings.TrimSpace(candidate); s != "" {
					return s
				}
			}
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

// SetVerbose enables or disables verbose mode
func (m *MockProvider) SetVerbose(verbose bool) {
	m.verbose = verbose
}
