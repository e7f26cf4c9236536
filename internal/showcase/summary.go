package showcase

// Placeholder texts used when the summarizer cannot deliver.
const (
	PlaceholderShort        = "Résumé indisponible."
	PlaceholderPresentation = "Aucune description disponible."
	PlaceholderTechno       = "Technologies indisponibles."
)

// SummaryTriple is the short summary, presentation, and technology list
// generated for one page.
type SummaryTriple [3]string

// Short returns the one-sentence summary.
func (s SummaryTriple) Short() string { return s[0] }

// Presentation returns the presentation paragraph.
func (s SummaryTriple) Presentation() string { return s[1] }

// Technologies returns the technology list.
func (s SummaryTriple) Technologies() string { return s[2] }

// PlaceholderSummary is substituted when summarization fails outright.
func PlaceholderSummary() SummaryTriple {
	return SummaryTriple{PlaceholderShort, PlaceholderPresentation, PlaceholderTechno}
}

// PadSummary pads generated lines to exactly three segments using the
// presentation placeholder. Lines beyond the third are ignored.
func PadSummary(lines []string) SummaryTriple {
	var out SummaryTriple
	for i := range out {
		if i < len(lines) {
			out[i] = lines[i]
			continue
		}
		out[i] = PlaceholderPresentation
	}
	return out
}
