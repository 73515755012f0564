package bib

import (
	"regexp"
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

// Title length bounds for the year-anchor heuristic. Anything shorter
// is a fragment; anything longer swallowed the journal or abstract.
const (
	minTitleLen = 8
	maxTitleLen = 300
)

var (
	bareURL    = regexp.MustCompile(`(?i)https?://\S+`)
	doiLabel   = regexp.MustCompile(`(?i)\bdoi:\s*\S+`)
	bareDOI    = regexp.MustCompile(`(?i)\b10\.\d{4,9}(?:\.\d+)*/\S+`)
	wsRun      = regexp.MustCompile(`\s+`)
	noDateMark = regexp.MustCompile(`(?i)\(\s*n\.d\.\s*\)`)

	// Closing paren of the publication date: (2018), (2018a), (n.d.).
	yearAnchor = regexp.MustCompile(`(?i)\(\s*((?:19|20)\d{2}[a-z]?|n\.d\.)\s*\)\s*`)

	leadingPunct  = regexp.MustCompile(`^[.:;\-–—\s]+`)
	retrievedFrom = regexp.MustCompile(`(?i)\bRetrieved\s+from\b`)
	quotedSpan    = regexp.MustCompile(`["“”](.+?)["“”]`)
)

// ExtractTitle recovers the work's title from a reference line using the
// year-anchor heuristic: the title usually follows the ')' that closes
// the publication date. Web references shaped like
// "Title [Organization]. (n.d.). Retrieved from ..." put the title
// before the bracket instead. Returns "" when nothing plausible is found.
func ExtractTitle(referenceLine string) string {
	if referenceLine == "" {
		return ""
	}

	// The line may arrive fragmented; repair breaks before normalizing.
	ln := textnorm.Normalize(textnorm.Repair(referenceLine, textnorm.RepairLine))

	// Strip URLs and DOIs so they cannot contaminate the title.
	ln = bareURL.ReplaceAllString(ln, "")
	ln = doiLabel.ReplaceAllString(ln, "")
	ln = bareDOI.ReplaceAllString(ln, "")
	ln = strings.TrimSpace(wsRun.ReplaceAllString(ln, " "))

	if noDateMark.MatchString(ln) && strings.Contains(ln, "[") && strings.Contains(ln, "]") {
		beforeBracket := strings.TrimSpace(strings.SplitN(ln, "[", 2)[0])
		if withinTitleBounds(beforeBracket) {
			return beforeBracket
		}
	}

	if loc := yearAnchor.FindStringIndex(ln); loc != nil {
		rest := strings.TrimSpace(ln[loc[1]:])
		rest = strings.TrimSpace(leadingPunct.ReplaceAllString(rest, ""))

		if split := retrievedFrom.Split(rest, 2); len(split) > 1 {
			rest = strings.TrimSpace(split[0])
		}

		// Up to the first strong period, the usual title/source separator.
		for _, part := range strings.Split(rest, ".") {
			cand := strings.TrimSpace(part)
			if cand == "" {
				continue
			}

			if withinTitleBounds(cand) {
				return cand
			}

			break
		}

		if withinTitleBounds(rest) {
			return rest
		}
	}

	// No parenthesized year: try a quoted title.
	if m := quotedSpan.FindStringSubmatch(ln); m != nil {
		cand := strings.TrimSpace(m[1])
		if len(cand) >= minTitleLen {
			return cand
		}
	}

	// Last resort: the segment between the first and second period.
	parts := nonEmptySegments(ln)
	if len(parts) >= 3 && withinTitleBounds(parts[1]) {
		return parts[1]
	}

	return ""
}

func withinTitleBounds(s string) bool {
	return len(s) >= minTitleLen && len(s) <= maxTitleLen
}

func nonEmptySegments(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
