package refs

import (
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

// Candidate is a reference line in which a DOI occurs textually.
type Candidate struct {
	Index int
	Line  string
}

// Default block-window constants. A DOI typically terminates a reference
// entry, so the window leans toward preceding context where the authors
// and title live. The specific integers are heuristic defaults.
const (
	DefaultBefore = 5
	DefaultAfter  = 1
)

// FindCandidates returns every line index where the DOI occurs, matched
// on whitespace-collapsed, case-insensitive containment. A DOI can
// legitimately appear in more than one line (in-text citation plus the
// reference entry), so all occurrences are returned.
func FindCandidates(doi string, lines []string) []Candidate {
	target := textnorm.CompactFold(doi)
	if target == "" {
		return nil
	}

	var out []Candidate

	for i, line := range lines {
		repaired := textnorm.Normalize(textnorm.Repair(line, textnorm.RepairLine))
		if strings.Contains(textnorm.CompactFold(repaired), target) {
			out = append(out, Candidate{Index: i, Line: repaired})
		}
	}

	return out
}

// FindLine returns the first reference line containing the DOI, or ""
// when the DOI appears in no line.
func FindLine(doi string, lines []string) string {
	candidates := FindCandidates(doi, lines)
	if len(candidates) == 0 {
		return ""
	}

	return candidates[0].Line
}

// BuildBlock concatenates a window of lines around index — before lines
// of preceding context and after lines following — then repairs wrap
// artifacts and collapses whitespace. The result is a single-line block
// suitable for title extraction.
func BuildBlock(lines []string, index, before, after int) string {
	if index < 0 || index >= len(lines) {
		return ""
	}

	lo := index - before
	if lo < 0 {
		lo = 0
	}

	hi := index + after + 1
	if hi > len(lines) {
		hi = len(lines)
	}

	block := strings.Join(lines[lo:hi], " ")
	block = textnorm.Repair(block, textnorm.RepairDocument)
	block = textnorm.Normalize(block)

	return textnorm.CollapseSpaces(block)
}
