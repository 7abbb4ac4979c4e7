// Package patch applies span replacements to a text body. Spans are
// half-open byte ranges computed against the original text, so replacements
// are applied from the highest start offset down; earlier offsets stay valid
// while later ones are rewritten.
package patch

import (
	"fmt"
	"sort"
)

// Span is one replacement: the half-open byte range [Start, End) in the
// original text is replaced wholesale by Text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Apply rewrites text with every span replaced. Spans must lie inside the
// text and must not overlap; order of the input slice does not matter.
func Apply(text string, spans []Span) (string, error) {
	if len(spans) == 0 {
		return text, nil
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	for i, s := range ordered {
		if s.Start < 0 || s.End < s.Start || s.End > len(text) {
			return "", fmt.Errorf("span [%d,%d) out of range for %d-byte text", s.Start, s.End, len(text))
		}
		// ordered is descending by start, so the previous entry is the next
		// span to the right.
		if i > 0 && s.End > ordered[i-1].Start {
			return "", fmt.Errorf("span [%d,%d) overlaps span [%d,%d)", s.Start, s.End, ordered[i-1].Start, ordered[i-1].End)
		}
	}

	updated := text
	for _, s := range ordered {
		updated = updated[:s.Start] + s.Text + updated[s.End:]
	}
	return updated, nil
}
