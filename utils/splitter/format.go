package splitter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SubStep is one line of the decomposed operation sequence
type SubStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// SplitResult is the simple JSON output shape
type SplitResult struct {
	OriginalSequence string    `json:"original_sequence"`
	SubSteps         []SubStep `json:"sub_steps"`
	TotalSteps       int       `json:"total_steps"`
}

// FormatText renders sub-steps as plain numbered text, one per line
func FormatText(steps []SubStep) string {
	var b strings.Builder
	for _, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", step.StepNumber, step.Description)
	}
	return b.String()
}

// FormatJSON renders sub-steps as the simple JSON result shape
func FormatJSON(sequence string, steps []SubStep) ([]byte, error) {
	if steps == nil {
		steps = []SubStep{}
	}
	result := SplitResult{
		OriginalSequence: sequence,
		SubSteps:         steps,
		TotalSteps:       len(steps),
	}
	return json.MarshalIndent(result, "", "  ")
}

// ChunkStep is one step entry inside a chunk record
type ChunkStep struct {
	Subtype     string `json:"subtype"`
	Description string `json:"description"`
	ID          string `json:"id"`
	Type        string `json:"type"`
}

// ChunkPath locates a chunk inside the external corpus
type ChunkPath struct {
	TextualPath string `json:"textual_path"`
	PathURI     string `json:"path_uri"`
}

// ChunkProductInfo identifies the product a chunk belongs to
type ChunkProductInfo struct {
	ProductLineName string `json:"product_line_name"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
}

// ChunkDef is the payload section of a chunk record
type ChunkDef struct {
	Path              ChunkPath        `json:"path"`
	Substep           []ChunkStep      `json:"substep"`
	Feature           string           `json:"feature"`
	ProductMorphology string           `json:"product_morphology"`
	Context           string           `json:"context"`
	ProductInfo       ChunkProductInfo `json:"product_info"`
	CurrentMainStep   ChunkStep        `json:"current_main_step"`
	Source            string           `json:"source"`
	ID                string           `json:"id"`
	CorpusSource      string           `json:"corpus_source"`
	Operation         string           `json:"operation"`
	Scene             string           `json:"scene"`
}

// ChunkMetaData carries corpus bookkeeping fields
type ChunkMetaData struct {
	OrgEmbedding  []float64 `json:"org_embedding"`
	DataFilterMap []string  `json:"data_filter_map"`
	Source        string    `json:"source"`
	MTime         string    `json:"mtime"`
}

// ChunkRecord is the structured JSON record consumed by the external
// corpus-tracking pipeline
type ChunkRecord struct {
	ChunkID    string        `json:"chunk_id"`
	Def        ChunkDef      `json:"def"`
	Filename   string        `json:"filename"`
	From       string        `json:"from"`
	ItemInfoID string        `json:"item_info_id"`
	KBAID      string        `json:"kba_id"`
	MetaData   ChunkMetaData `json:"meta_data"`
	Text       []string      `json:"text"`
	URI        string        `json:"uri"`
}

// NewChunkRecord builds a chunk record from a split result. The timestamp is
// a parameter so the record is deterministic under test. An empty filename
// gets a generated name; a missing .json suffix is appended. When no
// sub-steps were produced a single default step carrying the raw sequence is
// emitted, so the record never has an empty substep list.
func NewChunkRecord(sequence string, steps []SubStep, filename string, now time.Time) *ChunkRecord {
	if filename == "" {
		filename = fmt.Sprintf("output_%s.json", now.Format("20060102_150405"))
	} else if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	substeps := make([]ChunkStep, 0, len(steps))
	for _, step := range steps {
		substeps = append(substeps, ChunkStep{
			Subtype:     "action",
			Description: step.Description,
			ID:          fmt.Sprintf("step_%03d", step.StepNumber),
			Type:        "operation",
		})
	}
	if len(substeps) == 0 {
		substeps = append(substeps, ChunkStep{
			Subtype:     "action",
			Description: sequence,
			ID:          "step_001",
			Type:        "operation",
		})
	}

	stamp := now.Format("20060102150405")

	return &ChunkRecord{
		ChunkID: "chunk_" + stamp,
		Def: ChunkDef{
			Substep: substeps,
			Context: sequence,
			CurrentMainStep: ChunkStep{
				Subtype:     "main",
				Description: sequence,
				ID:          "main_step_001",
				Type:        "main_operation",
			},
			Source:    filename,
			ID:        "operation_" + stamp,
			Operation: sequence,
		},
		Filename: filename,
		From:     "splitter",
		MetaData: ChunkMetaData{
			OrgEmbedding:  []float64{},
			DataFilterMap: []string{},
			Source:        filename,
			MTime:         now.Format("2006-01-02T15:04:05"),
		},
		Text: []string{},
		URI:  "file:///" + filename,
	}
}

// FormatChunk renders sub-steps as the corpus-interop chunk record
func FormatChunk(sequence string, steps []SubStep, filename string, now time.Time) ([]byte, error) {
	return json.MarshalIndent(NewChunkRecord(sequence, steps, filename, now), "", "  ")
}
