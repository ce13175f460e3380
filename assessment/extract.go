// Package assessment converts free-form LLM output into a validated
// AssessmentResult. Extraction locates a JSON object embedded in arbitrary
// text; a bounded repair chain fixes the malformations LLMs commonly
// produce before parsing is retried.
package assessment

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// fenceMarkers matches markdown code-fence delimiters. Only the markers are
// removed so that a JSON object wrapped in a ```json block survives.
var fenceMarkers = regexp.MustCompile("```[a-zA-Z]*")

// ExtractJSON locates a parsable JSON object inside raw text. Candidates are
// the maximal brace-balanced spans found in a single scan, tried in
// descending length order (the real payload is usually the largest complete
// object). Each candidate is accepted as-is if it parses, otherwise after
// the repair chain. Returns false when no candidate parses.
func ExtractJSON(text string) (string, bool) {
	text = fenceMarkers.ReplaceAllString(text, "")

	candidates := scanCandidates(text)
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	for _, candidate := range candidates {
		c := strings.TrimSpace(candidate)
		if json.Valid([]byte(c)) {
			return c, true
		}
		if fixed := repair(c); json.Valid([]byte(fixed)) {
			return fixed, true
		}
	}

	return "", false
}

// scanCandidates tracks brace depth across the text and collects every
// maximal span between a depth 0->1 transition and the matching return to
// depth 0.
func scanCandidates(text string) []string {
	var candidates []string
	depth := 0
	start := -1

	for i, ch := range text {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
			if depth == 0 && start >= 0 {
				candidates = append(candidates, text[start:i+1])
				start = -1
			}
		}
	}

	return candidates
}
