package titles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/opsplit/opsplit/utils/config"
	"github.com/opsplit/opsplit/utils/fileutil"
)

// headingTags is the priority order for title extraction
var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// FileTitle is the extraction result for one HTML file
type FileTitle struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	FullPath string `json:"full_path"`
	Error    string `json:"error,omitempty"`
}

// Report is the JSON report written after a batch extraction
type Report struct {
	TotalFiles     int         `json:"total_files"`
	FilesWithTitle int         `json:"files_with_title"`
	Files          []FileTitle `json:"files"`
}

// ExtractMaxTitle extracts the most prominent title from HTML content: the
// first non-empty h1 through h6 in priority order, falling back to the
// document title. Returns an empty string when none is found.
func ExtractMaxTitle(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}
	return maxTitleFromSelection(doc.Selection), nil
}

// maxTitleFromSelection walks the heading priority order over a parsed document
func maxTitleFromSelection(sel *goquery.Selection) string {
	for _, tag := range headingTags {
		if text := strings.TrimSpace(sel.Find(tag).First().Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(sel.Find("title").First().Text())
}

// ProcessDirectory scans a directory for *.html and *.htm files and extracts
// a title from each. Per-file failures are recorded in the report and do not
// abort the scan.
func ProcessDirectory(dir string, recursive bool) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", dir)
	}

	files, err := collectHTMLFiles(dir, recursive)
	if err != nil {
		return nil, err
	}

	config.DebugLog("[Titles] Found %d HTML file(s) in %s", len(files), dir)

	report := &Report{Files: make([]FileTitle, 0, len(files))}
	for _, path := range files {
		relative, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			relative = filepath.Base(path)
		}

		entry := FileTitle{Filename: relative, FullPath: path}

		data, err := fileutil.SafeReadFile(path)
		if err != nil {
			entry.Error = err.Error()
			report.Files = append(report.Files, entry)
			continue
		}

		title, err := ExtractMaxTitle(data)
		if err != nil {
			entry.Error = err.Error()
			report.Files = append(report.Files, entry)
			continue
		}

		entry.Title = title
		if title != "" {
			report.FilesWithTitle++
		}
		report.Files = append(report.Files, entry)
	}

	report.TotalFiles = len(report.Files)
	return report, nil
}

// collectHTMLFiles lists the HTML files under dir, optionally recursing
func collectHTMLFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isHTMLFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && isHTMLFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func isHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// FetchURLTitle scrapes a page and extracts its most prominent title using
// the same heading priority as local extraction
func FetchURLTitle(url string) (string, error) {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent("Mozilla/5.0 (compatible; opsplit/1.0; +https://github.com/opsplit/opsplit)"),
	)

	var title string
	c.OnHTML("html", func(e *colly.HTMLElement) {
		title = maxTitleFromSelection(e.DOM)
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("error fetching %s: %w", url, err)
	}
	return title, nil
}

// SaveReport writes the extraction report as indented JSON, creating parent
// directories as needed
func SaveReport(report *Report, path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
