package models

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAISupportsModel(t *testing.T) {
	provider := NewOpenAIProvider()

	tests := []struct {
		name      string
		model     string
		supported bool
	}{
		{"gpt-4", "gpt-4", true},
		{"gpt-4o-mini", "gpt-4o-mini", true},
		{"o1 model", "o1-preview", true},
		{"uppercase", "GPT-4", true},
		{"claude model", "claude-3-opus", false},
		{"empty", "", false},
		{"unknown", "unknown-model", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := provider.SupportsModel(tt.model); got != tt.supported {
				t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.supported)
			}
		})
	}
}

func TestOpenAIConfigure(t *testing.T) {
	provider := NewOpenAIProvider()

	if err := provider.Configure(""); err == nil {
		t.Error("Configure() should reject an empty API key")
	}
	if err := provider.Configure("test-key"); err != nil {
		t.Errorf("Configure() unexpected error: %v", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Step 1: open the page"}},
			},
		})
	}))
	defer server.Close()

	provider := NewOpenAIProvider()
	if err := provider.Configure("test-key"); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	provider.SetBaseURL(server.URL)

	response, err := provider.Generate("gpt-4o", "split this sequence")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if response != "Step 1: open the page" {
		t.Errorf("Generate() = %q", response)
	}
	if gotModel != "gpt-4o" {
		t.Errorf("request carried model %q, want gpt-4o", gotModel)
	}
}

func TestOpenAIGenerateErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		provider := NewOpenAIProvider()
		_, err := provider.Generate("gpt-4o", "prompt")
		if err == nil || !strings.Contains(err.Error(), "not configured") {
			t.Errorf("Generate() error = %v, want missing API key error", err)
		}
	})

	t.Run("unsupported model", func(t *testing.T) {
		provider := NewOpenAIProvider()
		provider.Configure("test-key")
		_, err := provider.Generate("claude-3-opus", "prompt")
		if err == nil || !strings.Contains(err.Error(), "invalid OpenAI model") {
			t.Errorf("Generate() error = %v, want invalid model error", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		provider := NewOpenAIProvider()
		provider.Configure("test-key")
		provider.SetBaseURL(server.URL)
		if _, err := provider.Generate("gpt-4o", "prompt"); err == nil {
			t.Error("Generate() expected error on API failure")
		}
	})
}
