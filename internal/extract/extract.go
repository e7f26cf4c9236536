// Package extract reduces HTML pages to the short plain-text excerpt fed to
// the summarizer.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// skipped holds the elements whose text never reaches the reader. Title and
// noscript text are kept.
const skipped = "script, style, template"

// Extractor implements showcase.Extractor with goquery.
type Extractor struct {
	limit int
}

var _ showcase.Extractor = (*Extractor)(nil)

// New returns an Extractor capped at showcase.MaxExcerptRunes.
func New() *Extractor {
	return &Extractor{limit: showcase.MaxExcerptRunes}
}

// Excerpt joins the page's text nodes, head included, with single spaces and
// truncates the result. Markup the parser cannot make sense of yields
// whatever text it could recover, possibly none.
func (e *Extractor) Excerpt(markup string) showcase.ExcerptText {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	doc.Find(skipped).Remove()

	var parts []string
	collectText(doc.Selection, &parts)
	return showcase.ExcerptText(truncateRunes(strings.Join(parts, " "), e.limit))
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			if text := strings.Join(strings.Fields(child.Text()), " "); text != "" {
				*parts = append(*parts, text)
			}
		case "#comment":
		default:
			collectText(child, parts)
		}
	})
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
