package ingest

import (
	"regexp"
	"strings"
)

// Step is one candidate test step pulled from a document.
type Step struct {
	Action         string
	ExpectedResult string
}

var (
	// Bulleted or numbered lines: "- click", "* click", "1. click", "2) click".
	bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)

	// "Expected:" / "Expected result:" lines attach to the preceding step.
	expectedRe = regexp.MustCompile(`(?i)^\s*expected(?:\s+result)?\s*:\s*(.*)$`)
)

// ExtractSteps pulls bulleted and numbered lines out of document text as
// actions, attaching a following "Expected:" line as the expected result.
// This is deliberately line-based; the source document is assumed to list
// its steps explicitly.
func ExtractSteps(text string) []Step {
	var steps []Step

	for _, line := range strings.Split(text, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			content := strings.TrimSpace(m[1])
			if content == "" {
				continue
			}
			if em := expectedRe.FindStringSubmatch(content); em != nil {
				if len(steps) > 0 {
					steps[len(steps)-1].ExpectedResult = strings.TrimSpace(em[1])
				}
				continue
			}
			steps = append(steps, Step{Action: content})
			continue
		}

		if em := expectedRe.FindStringSubmatch(line); em != nil && len(steps) > 0 {
			steps[len(steps)-1].ExpectedResult = strings.TrimSpace(em[1])
		}
	}

	return steps
}
