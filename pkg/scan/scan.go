// Package scan locates embedded JSON payloads in raw HTML text. Two shapes
// are recognized: <script type="application/json"> elements and JS
// assignment statements whose right-hand side is a JSON object or array
// literal. Detection works on byte offsets into the original text so spans
// can later be replaced in place; no DOM round-trip is involved.
package scan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/karospace/viewerkit/pkg/jsonspan"
)

// Detector identifies which shape produced a candidate.
type Detector string

const (
	DetectorScriptJSON   Detector = "script_json"
	DetectorJSAssignment Detector = "js_assignment"
)

// AssignmentStyle distinguishes `const NAME = ...` from `window.NAME = ...`.
type AssignmentStyle string

const (
	StyleDeclaration AssignmentStyle = "declaration"
	StyleWindow      AssignmentStyle = "window"
)

// Candidate is one detected embeddable payload. Start/End bound the full
// syntactic unit (whole <script> element, or assignment statement including
// a trailing semicolon) so replacing [Start,End) verbatim keeps the
// document valid. Raw holds the JSON text exactly as found.
type Candidate struct {
	Detector     Detector
	Start        int
	End          int
	PayloadBytes int
	Raw          json.RawMessage

	// script_json only
	ScriptAttrs string
	ScriptID    string
	ScriptHadID bool

	// js_assignment only
	Style        AssignmentStyle
	DeclKind     string
	VariableName string
}

var (
	scriptTagRe = regexp.MustCompile("(?is)<script\\b([^>]*)>(.*?)</script>")

	// Groups: 1 decl keyword, 2 decl name, 3 window property name.
	assignmentStartRe = regexp.MustCompile(`(?:(const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*)|(?:window\.([A-Za-z_$][\w$]*)\s*=\s*)`)
)

// attrPattern matches one HTML attribute value: double-quoted, single-quoted
// or unquoted.
func attrPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)
}

var (
	typeAttrRe = attrPattern("type")
	idAttrRe   = attrPattern("id")
)

func extractAttr(re *regexp.Regexp, attrs string) (string, bool) {
	m := re.FindStringSubmatch(attrs)
	if m == nil {
		return "", false
	}
	for _, group := range m[1:] {
		if group != "" {
			return group, true
		}
	}
	// Matched with an empty value, e.g. id="".
	return "", true
}

func skipWhitespace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// Detect scans the document and returns all candidates ordered by ascending
// start offset. Malformed JSON at a detected anchor is not an error; the
// anchor is simply not a recognized payload. The synthesized script-id
// counter advances only for elements that actually receive an id, and is
// scoped to this single pass.
func Detect(html string) []Candidate {
	var candidates []Candidate
	generatedIDCounter := 0

	for _, m := range scriptTagRe.FindAllStringSubmatchIndex(html, -1) {
		attrs := html[m[2]:m[3]]
		body := html[m[4]:m[5]]
		bodyStart := m[4]

		scriptType, _ := extractAttr(typeAttrRe, attrs)
		if strings.ToLower(strings.TrimSpace(scriptType)) == "application/json" {
			rawBody := strings.TrimSpace(body)
			if rawBody == "" || !json.Valid([]byte(rawBody)) {
				continue
			}

			existingID, hadID := extractAttr(idAttrRe, attrs)
			if existingID == "" {
				// An empty id attribute cannot anchor the loader rewrite;
				// treat it like a missing one.
				hadID = false
			}
			scriptID := existingID
			if !hadID {
				scriptID = fmt.Sprintf("karospace_data_%03d", generatedIDCounter)
				generatedIDCounter++
			}

			candidates = append(candidates, Candidate{
				Detector:     DetectorScriptJSON,
				Start:        m[0],
				End:          m[1],
				PayloadBytes: len(rawBody),
				Raw:          json.RawMessage(rawBody),
				ScriptAttrs:  attrs,
				ScriptID:     scriptID,
				ScriptHadID:  hadID,
			})
			continue
		}

		candidates = append(candidates, detectAssignments(body, bodyStart)...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})
	return candidates
}

// detectAssignments finds JS assignment candidates inside one script body.
// baseOffset translates body-relative offsets back into document offsets.
func detectAssignments(body string, baseOffset int) []Candidate {
	var candidates []Candidate
	scanPos := 0
	consumedUntil := 0

	for scanPos <= len(body) {
		loc := assignmentStartRe.FindStringSubmatchIndex(body[scanPos:])
		if loc == nil {
			break
		}
		matchStart := scanPos + loc[0]
		matchEnd := scanPos + loc[1]

		// A match inside an already-consumed statement is noise from a
		// nested or overlapping pattern; jump past the consumed region.
		if matchStart < consumedUntil {
			scanPos = consumedUntil
			continue
		}

		valueStart := skipWhitespace(body, matchEnd)
		if valueStart >= len(body) || (body[valueStart] != '{' && body[valueStart] != '[') {
			scanPos = matchEnd
			continue
		}

		raw, valueEnd, err := jsonspan.DecodeValueAt(body, valueStart)
		if err != nil {
			// Not valid JSON after the anchor. Resume just past the match
			// start so a later overlapping anchor is still considered.
			scanPos = matchStart + 1
			continue
		}

		stmtEnd := valueEnd
		if p := skipWhitespace(body, valueEnd); p < len(body) && body[p] == ';' {
			stmtEnd = p + 1
		}

		style := StyleDeclaration
		declKind := ""
		variableName := ""
		if loc[6] >= 0 {
			style = StyleWindow
			variableName = body[scanPos+loc[6] : scanPos+loc[7]]
		} else {
			declKind = body[scanPos+loc[2] : scanPos+loc[3]]
			variableName = body[scanPos+loc[4] : scanPos+loc[5]]
		}

		candidates = append(candidates, Candidate{
			Detector:     DetectorJSAssignment,
			Start:        baseOffset + matchStart,
			End:          baseOffset + stmtEnd,
			PayloadBytes: len(raw),
			Raw:          raw,
			Style:        style,
			DeclKind:     declKind,
			VariableName: variableName,
		})

		consumedUntil = stmtEnd
		scanPos = stmtEnd
	}

	return candidates
}

// TotalPayloadBytes sums the raw payload sizes of all candidates.
func TotalPayloadBytes(candidates []Candidate) int64 {
	var total int64
	for _, c := range candidates {
		total += int64(c.PayloadBytes)
	}
	return total
}
