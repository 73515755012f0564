// Package extractor recovers DOI identifiers from noisy document text.
// It repairs PDF line-wrap artifacts, scans with an ordered set of
// labeled patterns, cleans and validates each candidate, and returns
// position-ordered, deduplicated records with surrounding context.
package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

// Extractor scans text for DOI-shaped substrings. It is stateless per
// call and safe for concurrent use.
type Extractor struct {
	patterns []Pattern
	options  Options
}

// New creates an Extractor with the given options.
func New(options Options) *Extractor {
	if options.ContextRadius <= 0 {
		options.ContextRadius = 60
	}

	patterns := extractionPatterns()
	if options.Robust {
		patterns = []Pattern{robustPattern}
	}

	return &Extractor{
		patterns: patterns,
		options:  options,
	}
}

// Extract scans text and returns unique DOI records ordered by position.
// Candidates that fail cleanup or format validation are dropped silently:
// malformed matches are expected noise in PDF-extracted text.
func (e *Extractor) Extract(text string) []Record {
	repaired := textnorm.Repair(text, textnorm.RepairDocument)
	t := textnorm.Normalize(repaired)

	var records []Record

	for _, pattern := range e.patterns {
		matches := pattern.Regex.FindAllStringSubmatchIndex(t, -1)
		for _, match := range matches {
			if len(match) < 4 || match[2] < 0 {
				continue
			}

			raw := t[match[2]:match[3]]

			doi := CleanDOI(raw)
			if doi == "" || !IsValidFormat(doi) {
				continue
			}

			// Position is the offset of the identifier itself, not of
			// any prefix or boundary character the rule consumed.
			records = append(records, Record{
				DOI:      doi,
				Raw:      raw,
				Pattern:  pattern.Name,
				Position: match[2],
				Context:  contextWindow(t, match[0], match[1], e.options.ContextRadius),
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})

	return Deduplicate(records)
}

// Deduplicate keeps the first record (by ascending position) for each
// case-insensitive DOI. Input must already be position-sorted.
func Deduplicate(records []Record) []Record {
	seen := make(map[string]bool, len(records))

	unique := make([]Record, 0, len(records))

	for _, r := range records {
		key := strings.ToLower(r.DOI)
		if key == "" || seen[key] {
			continue
		}

		seen[key] = true

		unique = append(unique, r)
	}

	return unique
}

// contextWindow slices a fixed-radius window around a match and collapses
// newlines so the context renders on one line.
func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}

	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}

	window := strings.ReplaceAll(text[lo:hi], "\n", " ")

	return strings.TrimSpace(window)
}

var (
	wsRegex          = regexp.MustCompile(`\s+`)
	trailingPunct    = regexp.MustCompile(`[.,;:)\]}'"]+$`)
	trailingEllipsis = regexp.MustCompile(`\.{2,}$`)

	entityReplacer = strings.NewReplacer(
		"&quot;", "",
		"&#34;", "",
		"&nbsp;", "",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
)

// CleanDOI normalizes a captured DOI candidate: decodes common HTML
// entities, strips all whitespace, and removes trailing punctuation
// (closing brackets, quotes, and runs of periods). Line-wrap repair is
// assumed to have already happened upstream.
func CleanDOI(doi string) string {
	doi = textnorm.Normalize(doi)
	doi = wsRegex.ReplaceAllString(doi, "")
	doi = entityReplacer.Replace(doi)
	doi = trailingPunct.ReplaceAllString(doi, "")
	doi = trailingEllipsis.ReplaceAllString(doi, "")

	return strings.TrimSpace(doi)
}

var doiFormat = regexp.MustCompile(`^10\.\d{4,9}(?:\.\d+)*/.+$`)

// invalidDOIChars may not appear anywhere in a valid DOI.
const invalidDOIChars = `<>"{}|\^` + "` "

// IsValidFormat reports whether doi matches the canonical DOI grammar
// 10.<registrant>/<suffix> with a suffix of at least two characters and
// no forbidden characters.
func IsValidFormat(doi string) bool {
	if !doiFormat.MatchString(doi) {
		return false
	}

	parts := strings.SplitN(doi, "/", 2)
	if len(parts) < 2 || len(strings.TrimSpace(parts[1])) < 2 {
		return false
	}

	return !strings.ContainsAny(doi, invalidDOIChars)
}
