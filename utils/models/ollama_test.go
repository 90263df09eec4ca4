package models

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaSupportsModel(t *testing.T) {
	provider := NewOllamaProvider()

	tests := []struct {
		name      string
		model     string
		supported bool
	}{
		{"llama", "llama3.2", true},
		{"codellama", "codellama:13b", true},
		{"mistral", "mistral-nemo", true},
		{"qwen", "qwen2.5", true},
		{"gpt model", "gpt-4", false},
		{"claude model", "claude-3-opus", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := provider.SupportsModel(tt.model); got != tt.supported {
				t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.supported)
			}
		})
	}
}

func TestOllamaGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		// streamed chunks, one JSON object per line
		fmt.Fprintln(w, `{"model": "llama3.2", "response": "Step 1: open", "done": false}`)
		fmt.Fprintln(w, `{"model": "llama3.2", "response": " the page", "done": true}`)
	}))
	defer server.Close()

	provider := NewOllamaProvider()
	provider.SetBaseURL(server.URL)

	response, err := provider.Generate("llama3.2", "split this sequence")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if response != "Step 1: open the page" {
		t.Errorf("Generate() = %q, want accumulated chunks", response)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider()
	provider.SetBaseURL(server.URL)

	if _, err := provider.Generate("llama3.2", "prompt"); err == nil {
		t.Error("Generate() expected error on non-200 status")
	}
}
