package extractor

import (
	"regexp"
)

// Pattern defines one DOI extraction rule. The first capture group must
// be the DOI candidate. Order in the pattern list is significant: when a
// region of text satisfies several rules, the earliest-listed rule's name
// is recorded as the match provenance.
type Pattern struct {
	Regex       *regexp.Regexp
	Name        string
	Description string
	Examples    []string
}

// doiBody matches the canonical DOI grammar with a suffix free of
// whitespace, quotes, ampersands and angle brackets.
const doiBody = `10\.\d{4,9}(?:\.\d+)*/[^\s"&'<>]+`

// extractionPatterns returns the ordered multi-pattern rule set used for
// document scans.
func extractionPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "doi-prefix",
			Regex:       regexp.MustCompile(`(?i)doi:\s*(` + doiBody + `)`),
			Description: "Explicit doi: prefix",
			Examples:    []string{"doi:10.1234/example.2024"},
		},
		{
			Name:        "doi-url",
			Regex:       regexp.MustCompile(`(?i)https?://(?:dx\.)?doi\.org/(` + doiBody + `)`),
			Description: "doi.org and dx.doi.org resolver URLs",
			Examples:    []string{"https://doi.org/10.1234/example", "http://dx.doi.org/10.1234/example"},
		},
		{
			Name:        "doi-bare",
			Regex:       regexp.MustCompile(`(?i)(?:^|[\s(\[{,;:])(` + doiBody + `)`),
			Description: "Bare DOI bounded by whitespace or punctuation",
			Examples:    []string{"see 10.1234/example for data"},
		},
		{
			Name:        "doi-bracketed",
			Regex:       regexp.MustCompile(`(?i)[\[({](` + doiBody + `)[\])}]`),
			Description: "DOI delimited by brackets or parentheses",
			Examples:    []string{"[10.1234/example]"},
		},
		{
			Name:        "doi-labeled",
			Regex:       regexp.MustCompile(`(?i)DOI[\s:]+(` + doiBody + `)`),
			Description: "DOI label followed by the identifier",
			Examples:    []string{"DOI 10.1234/example"},
		},
	}
}

// robustPattern is the single tolerant rule used for pasted text. It
// permits whitespace around the slash so that wrap-mangled identifiers
// still match after the harvest repair pass.
var robustPattern = Pattern{
	Name:        "doi-robust",
	Regex:       regexp.MustCompile(`(?i)(10\.\d{4,9}(?:\.\d+)*\s*/\s*[-._;()/:A-Z0-9]+)`),
	Description: "Tolerant single-pattern mode for pasted text",
	Examples:    []string{"10.1109/MIC.2022.3141559"},
}
