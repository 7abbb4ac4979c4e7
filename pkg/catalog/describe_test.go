package catalog

import "testing"

func TestDescribe(t *testing.T) {
	html := `<html><head><title>  Kärnkraft i
Sverige  </title></head><body>
<article>
<h1>Kärnkraft i Sverige</h1>
<p>Sverige har sex kärnreaktorer i drift vid tre kärnkraftverk: Forsmark,
Oskarshamn och Ringhals. Kärnkraften står för ungefär trettio procent av
den svenska elproduktionen och har gjort det i flera decennier.</p>
<p>Kartan visar reaktorernas placering längs kusten, där tillgången till
kylvatten styrde valet av plats när verken byggdes under sjuttiotalet.</p>
</article>
</body></html>`

	d := Describe(html)

	if d.Title != "Kärnkraft i Sverige" {
		t.Errorf("title = %q, want whitespace-normalized title", d.Title)
	}
	if d.Language != "sv" {
		t.Errorf("language = %q, want sv", d.Language)
	}
}

func TestDescribe_EnglishContent(t *testing.T) {
	html := `<html><head><title>Reactor Map</title></head><body>
<article><p>This interactive map shows the location of every operating
nuclear reactor along the coastline, together with its output capacity
and the year it was connected to the grid.</p></article>
</body></html>`

	d := Describe(html)
	if d.Language != "en" {
		t.Errorf("language = %q, want en", d.Language)
	}
}

func TestDescribe_EmptyDocument(t *testing.T) {
	d := Describe("<html><head></head><body></body></html>")
	if d.Title != "" || d.Language != "" {
		t.Errorf("description = %+v, want empty fields", d)
	}
}

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  a\t b\n\nc  "); got != "a b c" {
		t.Errorf("normalizeText() = %q", got)
	}
	if got := normalizeText("\n \t"); got != "" {
		t.Errorf("normalizeText(whitespace) = %q", got)
	}
}
