package showcase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DeriveTitle turns a site URL into a display title: the first label of the
// host, minus any leading "www.", with its first letter upper-cased and the
// rest lower-cased. https://www.exemple.fr/path yields "Exemple".
func DeriveTitle(rawURL string) string {
	host := rawURL
	for _, scheme := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, scheme)
	}
	host = strings.ReplaceAll(host, "www.", "")
	host, _, _ = strings.Cut(host, "/")
	label, _, _ := strings.Cut(host, ".")
	return capitalize(label)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ImagePrompt is the illustration request sent for a site title.
func ImagePrompt(title string) string {
	return fmt.Sprintf("Illustration conceptuelle du site %s", title)
}

// FormatFields wraps the summary segments in the HTML the project template
// renders.
func FormatFields(title, siteURL string, summary SummaryTriple) Fields {
	return Fields{
		Short: fmt.Sprintf(
			"<p>Bienvenue sur « %s » – %s</p>\n<p><strong><a href='%s' target='_blank'>Site : %s</a></strong></p>",
			title, summary.Short(), siteURL, title,
		),
		Presentation: fmt.Sprintf(
			"<h2><strong>Présentation de l’application « %s » :</strong></h2>\n\n<p>%s</p>",
			title, summary.Presentation(),
		),
		Techno: fmt.Sprintf(
			"<h2><strong>Les technologies derrière « %s » :</strong></h2>\n\n<p>%s</p>",
			title, summary.Technologies(),
		),
	}
}
