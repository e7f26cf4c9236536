package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

func TestExcerptVisibleText(t *testing.T) {
	t.Parallel()

	markup := `<!DOCTYPE html>
<html>
  <head><title>Exemple</title><style>body { color: red; }</style></head>
  <body>
    <!-- hidden comment -->
    <h1>  Bienvenue chez   Exemple. </h1>
    <script>var tracking = "nope";</script>
    <p>Nous faisons
       du web.</p>
    <noscript>Enable JS</noscript>
  </body>
</html>`

	got := New().Excerpt(markup)
	assert.Equal(t, showcase.ExcerptText("Exemple Bienvenue chez Exemple. Nous faisons du web. Enable JS"), got)
}

func TestExcerptKeepsTitleAndNoscript(t *testing.T) {
	t.Parallel()

	markup := `<head><title>Acme Studio - Agence web</title></head>` +
		`<body><p>Bonjour</p><noscript>Activez JS</noscript><template><p>cache</p></template></body>`

	got := New().Excerpt(markup)
	assert.Equal(t, showcase.ExcerptText("Acme Studio - Agence web Bonjour Activez JS"), got)
}

func TestExcerptTruncatesToLimit(t *testing.T) {
	t.Parallel()

	body := "<p>" + strings.Repeat("é", 1500) + "</p>"
	got := New().Excerpt(body)

	assert.Equal(t, showcase.MaxExcerptRunes, utf8.RuneCountInString(string(got)))
	assert.True(t, utf8.ValidString(string(got)))
}

func TestExcerptNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text without tags",
		"<div><p>unclosed <b>bold",
		"<<<>>> &amp; &lt;",
		strings.Repeat("<span>mot </span>", 600),
		strings.Repeat("x", 5000),
	}
	for _, in := range inputs {
		got := New().Excerpt(in)
		assert.LessOrEqual(t, utf8.RuneCountInString(string(got)), showcase.MaxExcerptRunes)
	}
}

func TestExcerptMalformedMarkup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, showcase.ExcerptText("unclosed bold"), New().Excerpt("<div><p>unclosed <b>bold"))
	assert.Equal(t, showcase.ExcerptText(""), New().Excerpt("<script>only()</script>"))
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "ab", truncateRunes("ab", 3))
	assert.Equal(t, "", truncateRunes("abc", 0))
}
