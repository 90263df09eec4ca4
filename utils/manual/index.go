package manual

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opsplit/opsplit/utils/config"
)

// Index holds the loaded operations and answers lookup and search queries.
// It is built once from a load pass and is read-only afterwards, so it is
// safe for concurrent readers without locking.
type Index struct {
	byID       map[string]*Operation
	byName     map[string]string   // lower-cased name -> id
	byCategory map[string][]string // category -> ids in insertion order
	order      []string            // ids in insertion order
}

// NewIndex builds an Index from the operations of a load pass. Duplicate
// ids or names overwrite earlier entries; last load wins, no error is raised.
func NewIndex(operations []Operation) *Index {
	idx := &Index{
		byID:       make(map[string]*Operation),
		byName:     make(map[string]string),
		byCategory: make(map[string][]string),
	}

	for i := range operations {
		op := operations[i]
		if _, exists := idx.byID[op.ID]; exists {
			config.DebugLog("[Manual] Duplicate operation id %q, later load overwrites earlier", op.ID)
			idx.remove(op.ID)
		}
		idx.byID[op.ID] = &op
		idx.byName[strings.ToLower(op.Name)] = op.ID
		idx.order = append(idx.order, op.ID)
		if op.Category != "" {
			idx.byCategory[op.Category] = append(idx.byCategory[op.Category], op.ID)
		}
	}

	return idx
}

// remove drops an id from the insertion order, name alias and category
// listings before its slot is overwritten
func (idx *Index) remove(id string) {
	op := idx.byID[id]
	for i, existing := range idx.order {
		if existing == id {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
	if op != nil {
		if name := strings.ToLower(op.Name); idx.byName[name] == id {
			delete(idx.byName, name)
		}
	}
	if op != nil && op.Category != "" {
		ids := idx.byCategory[op.Category]
		for i, existing := range ids {
			if existing == id {
				idx.byCategory[op.Category] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of indexed operations
func (idx *Index) Len() int {
	return len(idx.order)
}

// All returns every indexed operation in insertion order
func (idx *Index) All() []*Operation {
	ops := make([]*Operation, 0, len(idx.order))
	for _, id := range idx.order {
		ops = append(ops, idx.byID[id])
	}
	return ops
}

// GetByID returns the operation with the given id, or nil when absent
func (idx *Index) GetByID(id string) *Operation {
	return idx.byID[id]
}

// GetByName returns the operation with the given name using case-insensitive
// exact matching, or nil when absent
func (idx *Index) GetByName(name string) *Operation {
	id, ok := idx.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return idx.byID[id]
}

// ListByCategory returns the operations in a category in insertion order.
// An unknown category yields an empty result, not an error.
func (idx *Index) ListByCategory(category string) []*Operation {
	ids := idx.byCategory[category]
	ops := make([]*Operation, 0, len(ids))
	for _, id := range ids {
		ops = append(ops, idx.byID[id])
	}
	return ops
}

// Search returns the operations whose name, description or category contains
// the keyword, case-insensitively. Results are ordered by descending
// relevance, where relevance is the count of matched fields; ties keep
// insertion order.
func (idx *Index) Search(keyword string) []*Operation {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	type match struct {
		op        *Operation
		relevance int
		position  int
	}

	var matches []match
	for pos, id := range idx.order {
		op := idx.byID[id]
		relevance := 0
		if strings.Contains(strings.ToLower(op.Name), keyword) {
			relevance++
		}
		if strings.Contains(strings.ToLower(op.Description), keyword) {
			relevance++
		}
		if strings.Contains(strings.ToLower(op.Category), keyword) {
			relevance++
		}
		if relevance > 0 {
			matches = append(matches, match{op: op, relevance: relevance, position: pos})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].relevance != matches[j].relevance {
			return matches[i].relevance > matches[j].relevance
		}
		return matches[i].position < matches[j].position
	})

	ops := make([]*Operation, 0, len(matches))
	for _, m := range matches {
		ops = append(ops, m.op)
	}
	return ops
}

// SummarizeForPrompt renders a bounded human-readable digest of the given
// operations for inclusion in an LLM prompt. The output is deterministic for
// identical input and is truncated to maxLen characters.
func (idx *Index) SummarizeForPrompt(operations []*Operation, maxLen int) string {
	var parts []string

	for _, op := range operations {
		var b strings.Builder
		fmt.Fprintf(&b, "Operation: %s\n", op.Name)
		if op.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", op.Description)
		}
		if op.Category != "" {
			fmt.Fprintf(&b, "Category: %s\n", op.Category)
		}
		b.WriteString("Steps:\n")
		for _, step := range op.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", step.StepNumber, step.Action)
		}
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}

	summary := strings.Join(parts, "\n\n")
	if maxLen > 0 {
		if runes := []rune(summary); len(runes) > maxLen {
			summary = string(runes[:maxLen]) + "..."
		}
	}
	return summary
}
