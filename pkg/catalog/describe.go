package catalog

import (
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// Description is the display metadata extracted from a source document.
type Description struct {
	Title    string
	Excerpt  string
	Language string
}

// languageDetector is built once; the model load is too expensive per call.
var languageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Swedish,
			lingua.German,
			lingua.French,
			lingua.Finnish,
			lingua.Norwegian,
			lingua.Danish,
		).
		Build()
})

// Describe extracts a title, an excerpt, and a language guess from document
// HTML. Every step degrades gracefully: a document readability cannot
// digest still gets its <title>, and a document with too little text simply
// has no language recorded.
func Describe(html string) Description {
	var d Description

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		d.Title = normalizeText(doc.Find("title").First().Text())
	}

	var sample string
	pageURL, _ := url.Parse("https://localhost/")
	parser := readability.NewParser()
	if article, err := parser.Parse(strings.NewReader(html), pageURL); err == nil {
		if d.Title == "" {
			d.Title = normalizeText(article.Title)
		}
		d.Excerpt = normalizeText(article.Excerpt)
		sample = article.TextContent
	}

	if sample == "" {
		sample = d.Title
	}
	if len(sample) > 4000 {
		cut := 4000
		for cut > 0 && !utf8.RuneStart(sample[cut]) {
			cut--
		}
		sample = sample[:cut]
	}
	if strings.TrimSpace(sample) != "" {
		if lang, ok := languageDetector().DetectLanguageOf(sample); ok {
			d.Language = strings.ToLower(lang.IsoCode639_1().String())
		}
	}

	return d
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
