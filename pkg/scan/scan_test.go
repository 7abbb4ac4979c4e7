package scan

import (
	"strings"
	"testing"
)

func TestDetect_ScriptJSON(t *testing.T) {
	html := `<html><head></head><body>
<script type="application/json">{"a": 1}</script>
</body></html>`

	candidates := Detect(html)
	if len(candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Detector != DetectorScriptJSON {
		t.Errorf("detector = %q, want %q", c.Detector, DetectorScriptJSON)
	}
	if string(c.Raw) != `{"a": 1}` {
		t.Errorf("raw = %q, want %q", string(c.Raw), `{"a": 1}`)
	}
	if c.PayloadBytes != 8 {
		t.Errorf("payload bytes = %d, want 8", c.PayloadBytes)
	}
	if c.ScriptID != "karospace_data_000" {
		t.Errorf("script id = %q, want karospace_data_000", c.ScriptID)
	}
	if c.ScriptHadID {
		t.Errorf("ScriptHadID = true, want false")
	}

	// The span must bound the entire element.
	if got := html[c.Start:c.End]; got != `<script type="application/json">{"a": 1}</script>` {
		t.Errorf("span text = %q", got)
	}
}

func TestDetect_ScriptJSONIDHandling(t *testing.T) {
	html := `
<script type="application/json" id="existing">{"x": 1}</script>
<script type="application/json">{"y": 2}</script>
<script type="APPLICATION/JSON">{"z": 3}</script>`

	candidates := Detect(html)
	if len(candidates) != 3 {
		t.Fatalf("candidate count = %d, want 3", len(candidates))
	}

	if !candidates[0].ScriptHadID || candidates[0].ScriptID != "existing" {
		t.Errorf("first candidate id = %q (hadID=%v), want existing explicit id",
			candidates[0].ScriptID, candidates[0].ScriptHadID)
	}

	// The synthesized counter advances only for elements that receive an id.
	if candidates[1].ScriptID != "karospace_data_000" {
		t.Errorf("second candidate id = %q, want karospace_data_000", candidates[1].ScriptID)
	}
	if candidates[2].ScriptID != "karospace_data_001" {
		t.Errorf("third candidate id = %q, want karospace_data_001", candidates[2].ScriptID)
	}
}

func TestDetect_ScriptJSONSkipsInvalid(t *testing.T) {
	html := `
<script type="application/json">not json at all</script>
<script type="application/json">   </script>
<script type="application/json">{"ok": true}</script>`

	candidates := Detect(html)
	if len(candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(candidates))
	}
	if string(candidates[0].Raw) != `{"ok": true}` {
		t.Errorf("raw = %q", string(candidates[0].Raw))
	}
}

func TestDetect_Assignments(t *testing.T) {
	tests := []struct {
		name         string
		script       string
		wantStyle    AssignmentStyle
		wantDeclKind string
		wantName     string
		wantRaw      string
		wantSpan     string
	}{
		{
			name:         "const declaration",
			script:       `const DATA = [1, 2, 3];`,
			wantStyle:    StyleDeclaration,
			wantDeclKind: "const",
			wantName:     "DATA",
			wantRaw:      `[1, 2, 3]`,
			wantSpan:     `const DATA = [1, 2, 3];`,
		},
		{
			name:         "let declaration without semicolon",
			script:       "let config = {\"debug\": true}\nrender();",
			wantStyle:    StyleDeclaration,
			wantDeclKind: "let",
			wantName:     "config",
			wantRaw:      `{"debug": true}`,
			wantSpan:     "let config = {\"debug\": true}",
		},
		{
			name:         "var declaration",
			script:       `var points = [{"x":1}];`,
			wantStyle:    StyleDeclaration,
			wantDeclKind: "var",
			wantName:     "points",
			wantRaw:      `[{"x":1}]`,
			wantSpan:     `var points = [{"x":1}];`,
		},
		{
			name:      "window property",
			script:    `window.__DATA__ = {"a": 1};`,
			wantStyle: StyleWindow,
			wantName:  "__DATA__",
			wantRaw:   `{"a": 1}`,
			wantSpan:  `window.__DATA__ = {"a": 1};`,
		},
		{
			name:         "braces inside string literals",
			script:       `const S = {"t": "a}b;{"};`,
			wantStyle:    StyleDeclaration,
			wantDeclKind: "const",
			wantName:     "S",
			wantRaw:      `{"t": "a}b;{"}`,
			wantSpan:     `const S = {"t": "a}b;{"};`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := "<script>\n" + tt.script + "\n</script>"
			candidates := Detect(html)
			if len(candidates) != 1 {
				t.Fatalf("candidate count = %d, want 1", len(candidates))
			}

			c := candidates[0]
			if c.Detector != DetectorJSAssignment {
				t.Errorf("detector = %q, want %q", c.Detector, DetectorJSAssignment)
			}
			if c.Style != tt.wantStyle {
				t.Errorf("style = %q, want %q", c.Style, tt.wantStyle)
			}
			if c.DeclKind != tt.wantDeclKind {
				t.Errorf("decl kind = %q, want %q", c.DeclKind, tt.wantDeclKind)
			}
			if c.VariableName != tt.wantName {
				t.Errorf("variable = %q, want %q", c.VariableName, tt.wantName)
			}
			if string(c.Raw) != tt.wantRaw {
				t.Errorf("raw = %q, want %q", string(c.Raw), tt.wantRaw)
			}
			if got := html[c.Start:c.End]; got != tt.wantSpan {
				t.Errorf("span text = %q, want %q", got, tt.wantSpan)
			}
		})
	}
}

func TestDetect_AssignmentSkipsNonJSON(t *testing.T) {
	html := `<script>
const n = 5;
const f = function () { return 1; };
var DATA = [1, 2];
let broken = {unquoted: true};
</script>`

	candidates := Detect(html)
	if len(candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(candidates))
	}
	if candidates[0].VariableName != "DATA" {
		t.Errorf("variable = %q, want DATA", candidates[0].VariableName)
	}
}

func TestDetect_OrderingAndMixedShapes(t *testing.T) {
	html := `<html>
<script>var first = [1];</script>
<script type="application/json">{"second": true}</script>
<script>window.third = {"n": 3}; const fourth = [4];</script>
</html>`

	candidates := Detect(html)
	if len(candidates) != 4 {
		t.Fatalf("candidate count = %d, want 4", len(candidates))
	}

	for i := 1; i < len(candidates); i++ {
		if candidates[i-1].Start >= candidates[i].Start {
			t.Errorf("candidates not ordered by start: %d then %d",
				candidates[i-1].Start, candidates[i].Start)
		}
	}

	names := []string{candidates[0].VariableName, candidates[2].VariableName, candidates[3].VariableName}
	want := []string{"first", "third", "fourth"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("candidate name[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if candidates[1].Detector != DetectorScriptJSON {
		t.Errorf("second candidate detector = %q, want script_json", candidates[1].Detector)
	}
}

func TestDetect_NoCandidates(t *testing.T) {
	html := `<html><body><p>plain page</p><script>render();</script></body></html>`
	if candidates := Detect(html); len(candidates) != 0 {
		t.Errorf("candidate count = %d, want 0", len(candidates))
	}
}

func TestTotalPayloadBytes(t *testing.T) {
	html := `<script>const a = [1,2]; const b = {"k":"v"};</script>`
	candidates := Detect(html)
	if len(candidates) != 2 {
		t.Fatalf("candidate count = %d, want 2", len(candidates))
	}

	want := int64(len(`[1,2]`) + len(`{"k":"v"}`))
	if got := TotalPayloadBytes(candidates); got != want {
		t.Errorf("TotalPayloadBytes() = %d, want %d", got, want)
	}
}

func TestCollidingIDs(t *testing.T) {
	html := `<html><body>
<div id="karospace_data_000"></div>
<script type="application/json">{"a": 1}</script>
<script type="application/json">{"b": 2}</script>
</body></html>`

	candidates := Detect(html)
	if len(candidates) != 2 {
		t.Fatalf("candidate count = %d, want 2", len(candidates))
	}

	collisions, err := CollidingIDs(html, candidates)
	if err != nil {
		t.Fatalf("CollidingIDs() failed: %v", err)
	}
	if len(collisions) != 1 || collisions[0] != "karospace_data_000" {
		t.Errorf("collisions = %v, want [karospace_data_000]", collisions)
	}
}

func TestCollidingIDs_NoCollision(t *testing.T) {
	html := `<html><body>
<div id="unrelated"></div>
<script type="application/json">{"a": 1}</script>
</body></html>`

	candidates := Detect(html)
	collisions, err := CollidingIDs(html, candidates)
	if err != nil {
		t.Fatalf("CollidingIDs() failed: %v", err)
	}
	if len(collisions) != 0 {
		t.Errorf("collisions = %v, want none", collisions)
	}
}

func TestDetect_LargePayloadSpan(t *testing.T) {
	// A payload spanning multiple lines with nested structures keeps its
	// exact source span.
	payload := `{
  "rows": [
    {"name": "Ringhals", "lat": 57.26, "lon": 12.11},
    {"name": "Forsmark", "lat": 60.40, "lon": 18.17}
  ]
}`
	html := "<script>\nwindow.__MAP__ = " + payload + ";\n</script>"

	candidates := Detect(html)
	if len(candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(candidates))
	}
	if string(candidates[0].Raw) != payload {
		t.Errorf("raw does not match source payload")
	}
	if !strings.HasSuffix(html[candidates[0].Start:candidates[0].End], ";") {
		t.Errorf("span should include the trailing semicolon")
	}
}
