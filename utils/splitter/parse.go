package splitter

import (
	"regexp"
	"strings"
)

// stepPrefix matches the numbering prefixes models put in front of sub-steps:
// "Step 3:", "step 3.", "步骤3：", or a bare "3." / "3)" / "3:".
var stepPrefix = regexp.MustCompile(`^(?:[Ss]tep\s*\d+\s*[:.、)]\s*|步骤\s*\d+\s*[:：.、]\s*|\d+\s*[:：.、)]\s*)`)

// ParseSubSteps parses a model response into ordered sub-steps: one per
// non-empty line, numbering prefixes stripped, original line order kept.
// An empty or unparseable response yields an empty slice.
func ParseSubSteps(text string) []SubStep {
	var steps []SubStep

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		description := strings.TrimSpace(stepPrefix.ReplaceAllString(line, ""))
		if description == "" {
			continue
		}

		steps = append(steps, SubStep{
			StepNumber:  len(steps) + 1,
			Description: description,
		})
	}

	return steps
}
