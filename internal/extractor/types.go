package extractor

// Record represents one DOI occurrence discovered in a document's text.
// Records are created by the extraction pass and enriched in place by
// later pipeline stages (reference line lookup, title extraction,
// registry lookup, match scoring).
type Record struct {
	DOI           string `json:"doi"`
	Raw           string `json:"raw"`
	Pattern       string `json:"pattern"`
	Position      int    `json:"position"`
	Context       string `json:"context,omitempty"`
	ReferenceLine string `json:"reference_line,omitempty"`
	BibTitle      string `json:"bib_title,omitempty"`
}

// Options configures a DOI extraction pass.
type Options struct {
	// ContextRadius is the number of characters captured on each side of
	// a match for provenance.
	ContextRadius int

	// Robust selects the single-pattern tolerant mode used for pasted
	// text instead of the ordered multi-pattern scan.
	Robust bool
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		ContextRadius: 60,
		Robust:        false,
	}
}
