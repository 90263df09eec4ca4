package titles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractMaxTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "h1 wins over title",
			html: `<html><head><title>Page Title</title></head><body><h1>Main Heading</h1></body></html>`,
			want: "Main Heading",
		},
		{
			name: "h1 wins over h2",
			html: `<html><body><h2>Second</h2><h1>First</h1></body></html>`,
			want: "First",
		},
		{
			name: "h3 when no h1 or h2",
			html: `<html><body><h3>Section</h3><h4>Subsection</h4></body></html>`,
			want: "Section",
		},
		{
			name: "title fallback",
			html: `<html><head><title>Only Title</title></head><body><p>text</p></body></html>`,
			want: "Only Title",
		},
		{
			name: "empty h1 skipped",
			html: `<html><body><h1>  </h1><h2>Real Heading</h2></body></html>`,
			want: "Real Heading",
		},
		{
			name: "whitespace trimmed",
			html: `<html><body><h1>
				Spaced Out
			</h1></body></html>`,
			want: "Spaced Out",
		},
		{
			name: "no title at all",
			html: `<html><body><p>nothing here</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMaxTitle([]byte(tt.html))
			if err != nil {
				t.Fatalf("ExtractMaxTitle() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractMaxTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeHTML := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
	writeHTML("a.html", `<html><body><h1>Page A</h1></body></html>`)
	writeHTML("b.htm", `<html><head><title>Page B</title></head></html>`)
	writeHTML("c.html", `<html><body><p>untitled</p></body></html>`)
	writeHTML("notes.txt", "not html")

	report, err := ProcessDirectory(dir, false)
	if err != nil {
		t.Fatalf("ProcessDirectory() error: %v", err)
	}
	if report.TotalFiles != 3 {
		t.Errorf("total_files = %d, want 3", report.TotalFiles)
	}
	if report.FilesWithTitle != 2 {
		t.Errorf("files_with_title = %d, want 2", report.FilesWithTitle)
	}

	titles := make(map[string]string, len(report.Files))
	for _, f := range report.Files {
		titles[f.Filename] = f.Title
	}
	if titles["a.html"] != "Page A" {
		t.Errorf("a.html title = %q", titles["a.html"])
	}
	if titles["b.htm"] != "Page B" {
		t.Errorf("b.htm title = %q", titles["b.htm"])
	}
	if titles["c.html"] != "" {
		t.Errorf("c.html title = %q, want empty", titles["c.html"])
	}
}

func TestProcessDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "top.html"), []byte(`<h1>Top</h1>`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "deep.html"), []byte(`<h1>Deep</h1>`), 0644); err != nil {
		t.Fatal(err)
	}

	flat, err := ProcessDirectory(dir, false)
	if err != nil {
		t.Fatalf("ProcessDirectory() error: %v", err)
	}
	if flat.TotalFiles != 1 {
		t.Errorf("flat scan found %d files, want 1", flat.TotalFiles)
	}

	recursive, err := ProcessDirectory(dir, true)
	if err != nil {
		t.Fatalf("ProcessDirectory() error: %v", err)
	}
	if recursive.TotalFiles != 2 {
		t.Errorf("recursive scan found %d files, want 2", recursive.TotalFiles)
	}
}

func TestProcessDirectoryErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := ProcessDirectory(filepath.Join(t.TempDir(), "missing"), false); err == nil {
			t.Error("ProcessDirectory() expected error for missing directory")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.html")
		if err := os.WriteFile(path, []byte("<h1>x</h1>"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ProcessDirectory(path, false); err == nil {
			t.Error("ProcessDirectory() expected error for non-directory path")
		}
	})
}

func TestFetchURLTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Fallback</title></head><body><h1>Remote Heading</h1></body></html>`))
	}))
	defer server.Close()

	title, err := FetchURLTitle(server.URL)
	if err != nil {
		t.Fatalf("FetchURLTitle() error: %v", err)
	}
	if title != "Remote Heading" {
		t.Errorf("FetchURLTitle() = %q, want %q", title, "Remote Heading")
	}
}

func TestSaveReport(t *testing.T) {
	report := &Report{
		TotalFiles:     1,
		FilesWithTitle: 1,
		Files:          []FileTitle{{Filename: "a.html", Title: "Page A", FullPath: "/tmp/a.html"}},
	}

	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := SaveReport(report, path); err != nil {
		t.Fatalf("SaveReport() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.TotalFiles != 1 || len(decoded.Files) != 1 || decoded.Files[0].Title != "Page A" {
		t.Errorf("round-tripped report = %+v", decoded)
	}
}
