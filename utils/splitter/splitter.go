package splitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opsplit/opsplit/utils/manual"
	"github.com/opsplit/opsplit/utils/models"
)

// DefaultMaxMatches bounds how many knowledge-base operations are summarized
// into one prompt
const DefaultMaxMatches = 5

// Splitter decomposes a coarse operation sequence into executable sub-steps
// by grounding an LLM call on matching knowledge-base operations.
type Splitter struct {
	index          *manual.Index
	provider       models.Provider
	model          string
	includeContext bool
	maxMatches     int
	verbose        bool
}

// NewSplitter creates a splitter over a built knowledge-base index and a
// configured provider
func NewSplitter(index *manual.Index, provider models.Provider, model string) *Splitter {
	return &Splitter{
		index:          index,
		provider:       provider,
		model:          model,
		includeContext: true,
		maxMatches:     DefaultMaxMatches,
	}
}

// debugf prints debug information if verbose mode is enabled
func (s *Splitter) debugf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Printf("[DEBUG][Splitter] "+format+"\n", args...)
	}
}

// SetVerbose enables or disables verbose mode
func (s *Splitter) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// SetIncludeContext controls whether knowledge-base context is added to prompts
func (s *Splitter) SetIncludeContext(include bool) {
	s.includeContext = include
}

// SetMaxMatches bounds the number of operations summarized into one prompt
func (s *Splitter) SetMaxMatches(n int) {
	if n > 0 {
		s.maxMatches = n
	}
}

// Index returns the underlying knowledge-base index
func (s *Splitter) Index() *manual.Index {
	return s.index
}

// Split decomposes one operation-sequence string into ordered sub-steps.
// Provider failures propagate unchanged; an empty or unparseable response
// degrades to an empty slice, not an error.
func (s *Splitter) Split(sequence string) ([]SubStep, error) {
	s.debugf("Splitting sequence: %s", sequence)

	var context string
	if s.includeContext {
		matched := s.matchOperations(sequence)
		s.debugf("Matched %d operation(s) for context", len(matched))
		context = s.index.SummarizeForPrompt(matched, maxContextLen)
	}

	prompt := BuildPrompt(sequence, context)
	s.debugf("Prompt length: %d characters", len(prompt))

	raw, err := s.provider.Generate(s.model, prompt)
	if err != nil {
		return nil, err
	}

	steps := ParseSubSteps(raw)
	s.debugf("Parsed %d sub-step(s) from response", len(steps))
	return steps, nil
}

// matchOperations finds the knowledge-base operations most relevant to the
// input sequence. An operation scores on its name appearing inside the input
// and on whitespace-separated input tokens matching its indexed fields;
// results are capped to maxMatches by descending score, ties in insertion
// order. No match is a normal condition, not an error.
func (s *Splitter) matchOperations(sequence string) []*manual.Operation {
	sequenceLower := strings.ToLower(sequence)

	type candidate struct {
		op       *manual.Operation
		score    int
		position int
	}

	scores := make(map[string]*candidate)
	for pos, op := range s.index.All() {
		if op.Name != "" && strings.Contains(sequenceLower, strings.ToLower(op.Name)) {
			scores[op.ID] = &candidate{op: op, score: 2, position: pos}
		} else {
			scores[op.ID] = &candidate{op: op, position: pos}
		}
	}

	for _, token := range strings.Fields(sequenceLower) {
		if len([]rune(token)) < 2 {
			continue
		}
		for _, op := range s.index.Search(token) {
			scores[op.ID].score++
		}
	}

	var candidates []*candidate
	for _, c := range scores {
		if c.score > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].position < candidates[j].position
	})

	if len(candidates) > s.maxMatches {
		candidates = candidates[:s.maxMatches]
	}

	ops := make([]*manual.Operation, 0, len(candidates))
	for _, c := range candidates {
		ops = append(ops, c.op)
	}
	return ops
}
