// Package refs isolates the bibliography of a document and reassembles
// reference entries around DOI occurrences.
package refs

import (
	"regexp"
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

// Section is a located reference list. When Found is false, Text carries
// the full original document and the line bounds are meaningless: no
// reliable reference section could be isolated and callers should fall
// back to whole-document processing.
type Section struct {
	Text      string
	StartLine int
	EndLine   int
	Found     bool
}

const (
	// minSectionChars rejects sections too short to be a real
	// bibliography.
	minSectionChars = 250

	// DefaultMinLinesAfter is how many lines past the start heading a
	// terminator must be before it is trusted, to avoid truncating on a
	// spurious early match.
	DefaultMinLinesAfter = 12
)

// headingRegex matches a whole trimmed line naming the reference section,
// optionally prefixed by a list-numbering token and suffixed by a colon
// or dash. English and Spanish headings are recognized.
var headingRegex = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?` +
	`(?:references|bibliography|works\s+cited|literature\s+cited` +
	`|referencias|bibliograf[ií]a|referencias\s+bibliogr[aá]ficas` +
	`|obras\s+citadas|literatura\s+citada)` +
	`\s*[:\-]?\s*$`)

// terminatorRegex matches headings that commonly follow a reference list.
var terminatorRegex = regexp.MustCompile(`(?i)^\s*(?:\d+[.)]\s*)?` +
	`(?:appendix|ap[eé]ndice|annex|anexo` +
	`|acknowledge?ments|agradecimientos` +
	`|supplementary|material\s+suplementario` +
	`|funding|financiamiento` +
	`|author\s+contributions|contribuci[oó]n\s+de\s+autores` +
	`|conflict\s+of\s+interest|conflicto\s+de\s+inter[eé]s)` +
	`\s*[:\-]?\s*$`)

// Locate finds the reference section of a document by scanning for a
// heading line and then for a terminating heading at least minLinesAfter
// lines later. A missing heading or a section under the minimum length is
// not an error: Locate returns the whole document with Found=false.
func Locate(documentText string, minLinesAfter int) Section {
	if minLinesAfter <= 0 {
		minLinesAfter = DefaultMinLinesAfter
	}

	lines := strings.Split(documentText, "\n")

	start := -1

	for i, line := range lines {
		if headingRegex.MatchString(strings.TrimSpace(line)) {
			start = i
			break
		}
	}

	if start == -1 {
		return Section{Text: documentText}
	}

	end := len(lines)

	for j := start + 1; j < len(lines); j++ {
		if terminatorRegex.MatchString(strings.TrimSpace(lines[j])) && j-start >= minLinesAfter {
			end = j
			break
		}
	}

	sectionText := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	if len(sectionText) < minSectionChars {
		return Section{Text: documentText}
	}

	return Section{
		Text:      sectionText,
		StartLine: start,
		EndLine:   end,
		Found:     true,
	}
}

// minLineChars is the plausibility floor for a bibliography entry line.
const minLineChars = 35

// ExtractLines filters a section's lines down to plausible reference
// entries: at least 35 characters, and not a repeated section heading.
func ExtractLines(sectionText string) []string {
	var lines []string

	for _, raw := range strings.Split(textnorm.Normalize(sectionText), "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < minLineChars || headingRegex.MatchString(line) {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}
