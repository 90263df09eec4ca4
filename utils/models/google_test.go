package models

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestGoogleSupportsModel(t *testing.T) {
	provider := NewGoogleProvider()

	tests := []struct {
		name      string
		model     string
		supported bool
	}{
		{"flash", "gemini-1.5-flash", true},
		{"pro", "gemini-1.5-pro", true},
		{"uppercase", "GEMINI-2.0-FLASH", true},
		{"gpt model", "gpt-4", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := provider.SupportsModel(tt.model); got != tt.supported {
				t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.supported)
			}
		})
	}
}

func TestGoogleConfigure(t *testing.T) {
	provider := NewGoogleProvider()

	if err := provider.Configure(""); err == nil {
		t.Error("Configure() should reject an empty API key")
	}
	if err := provider.Configure("test-key"); err != nil {
		t.Errorf("Configure() unexpected error: %v", err)
	}
}

func TestGoogleGenerateNotConfigured(t *testing.T) {
	provider := NewGoogleProvider()
	if _, err := provider.Generate("gemini-1.5-pro", "prompt"); err == nil {
		t.Error("Generate() expected error without API key")
	}
}

func TestTextFromResponse(t *testing.T) {
	t.Run("text parts concatenated", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Text("Step 1: open"),
					genai.Text(" the page"),
				}}},
			},
		}
		got, err := textFromResponse(resp)
		if err != nil {
			t.Fatalf("textFromResponse() error: %v", err)
		}
		if got != "Step 1: open the page" {
			t.Errorf("textFromResponse() = %q", got)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		if _, err := textFromResponse(&genai.GenerateContentResponse{}); err == nil {
			t.Error("textFromResponse() expected error for empty response")
		}
	})

	t.Run("safety-blocked candidate has no content", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonSafety},
			},
		}
		if _, err := textFromResponse(resp); err == nil {
			t.Error("textFromResponse() expected error for nil content")
		}
	})
}
