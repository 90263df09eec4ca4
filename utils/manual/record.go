package manual

// Step represents one action within an operation
type Step struct {
	StepNumber  int                    `json:"step_number"`
	Action      string                 `json:"action"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Operation represents one documented procedure from the knowledge base.
// Records are built once during load and are read-only afterwards.
type Operation struct {
	ID             string   `json:"operation_id"`
	Name           string   `json:"operation_name"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Steps          []Step   `json:"steps"`
	Prerequisites  []string `json:"prerequisites,omitempty"`
	ExpectedResult string   `json:"expected_result,omitempty"`
}

// LoadError records a knowledge-base input that failed to parse. Load errors
// are collected per source and do not abort the load.
type LoadError struct {
	Source  string
	Message string
}

func (e LoadError) Error() string {
	return e.Source + ": " + e.Message
}

// LoadResult holds the operations recovered from a load pass plus the
// per-source errors encountered along the way.
type LoadResult struct {
	Operations []Operation
	Errors     []LoadError
}
