package scan

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CollidingIDs returns synthesized script ids that already exist as explicit
// element ids elsewhere in the document. The scanner does not rename on
// collision; callers surface the list as a warning so the author can fix
// the source document.
func CollidingIDs(html string, candidates []Candidate) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{})
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			existing[id] = struct{}{}
		}
	})

	var collisions []string
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if c.Detector != DetectorScriptJSON || c.ScriptHadID {
			continue
		}
		if _, clash := existing[c.ScriptID]; clash {
			if _, dup := seen[c.ScriptID]; !dup {
				collisions = append(collisions, c.ScriptID)
				seen[c.ScriptID] = struct{}{}
			}
		}
	}
	sort.Strings(collisions)
	return collisions, nil
}
