package splitter

import "strings"

// maxContextLen bounds the knowledge-base digest included in a prompt
const maxContextLen = 1500

const promptHeader = `You are an expert at decomposing operation sequences. Your task is to
split a coarse-grained operation sequence into detailed sub-steps that an
automated agent can execute directly.

Requirements:
1. Each sub-step must be atomic and independently executable
2. Sub-steps must follow a clear logical order
3. Each sub-step must contain a concrete instruction, not an abstract description
4. Use the terminology and step conventions from the operation manual excerpts when given`

const promptFooter = `Output format:

Step 1: [concrete instruction]
Step 2: [concrete instruction]
Step 3: [concrete instruction]
...

Each step should use an explicit action verb (click, enter, select, verify),
name the object being acted on, and state the expected result where relevant.
If the sequence contains several independent tasks, list the sub-steps of
each task in turn.`

// BuildPrompt assembles the grounding prompt from the raw operation sequence
// and the summarized knowledge-base context. An empty context is valid and
// simply omits the manual excerpt section.
func BuildPrompt(sequence string, context string) string {
	var b strings.Builder

	b.WriteString(promptHeader)

	if context != "" {
		b.WriteString("\n\nOperation manual excerpts:\n")
		b.WriteString(context)
	}

	b.WriteString("\n\nOperation sequence to split:\n")
	b.WriteString(sequence)

	b.WriteString("\n\n")
	b.WriteString(promptFooter)

	return b.String()
}
