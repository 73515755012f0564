// Package textnorm canonicalizes text extracted from PDFs before DOI
// harvesting: Unicode compatibility normalization, soft-hyphen removal,
// line-ending unification, and repair of line-wrap artifacts that split
// DOIs across lines.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RepairMode selects how aggressively line-wrap artifacts are rejoined.
type RepairMode int

const (
	// RepairDocument is the general-purpose variant applied to whole
	// document text before DOI scanning. It rejoins word-wrapped lines
	// and collapses whitespace around DOI-internal slashes.
	RepairDocument RepairMode = iota

	// RepairLine is the narrower variant used when re-checking a single
	// candidate reference line. It only fixes hyphen and slash breaks.
	RepairLine
)

var (
	hyphenBreak  = regexp.MustCompile(`(\w)-\s*\n\s*(\w)`)
	breakAfterSl = regexp.MustCompile(`/\s*\n\s*`)
	breakBeforSl = regexp.MustCompile(`\s*\n\s*/`)
	breakBefDot  = regexp.MustCompile(`\s*\n\s*(\.\d)`)
	lineWrap     = regexp.MustCompile(`(\S)\s*\n\s*(\S)`)
	slashSpace   = regexp.MustCompile(`\s*/\s*`)
)

// Normalize canonicalizes raw extracted text: NFKC compatibility
// normalization, soft hyphen (U+00AD) removal, and CRLF/CR to LF.
// Idempotent; empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	t := norm.NFKC.String(text)
	t = strings.ReplaceAll(t, "­", "")
	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")

	return t
}

// Repair reverses PDF line-wrapping artifacts that break DOIs:
//
//	word-\nword   -> wordword   (hyphenation at a line boundary)
//	10.x/\ny      -> 10.x/y     (break after the DOI slash)
//	10.x\n/y      -> 10.x/y     (break before the DOI slash)
//	2022\n.31415  -> 2022.31415 (break before a numeric suffix segment)
//
// RepairDocument additionally joins ordinary word-wrapped lines with a
// space and strips whitespace around every slash, which is safe for a
// DOI-harvest pass but too lossy for general prose. Both modes are
// equivalent on text that contains no line breaks.
func Repair(text string, mode RepairMode) string {
	if text == "" {
		return ""
	}

	t := strings.ReplaceAll(text, "\f", "\n")
	t = strings.ReplaceAll(t, "­", "")

	t = hyphenBreak.ReplaceAllString(t, "${1}${2}")
	t = breakAfterSl.ReplaceAllString(t, "/")
	t = breakBeforSl.ReplaceAllString(t, "/")
	t = breakBefDot.ReplaceAllString(t, "${1}")

	if mode == RepairDocument {
		t = lineWrap.ReplaceAllString(t, "${1} ${2}")
		t = slashSpace.ReplaceAllString(t, "/")
	}

	return t
}

var multiSpace = regexp.MustCompile(`\s+`)

// CollapseSpaces replaces runs of whitespace with single spaces and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// CompactFold removes all whitespace and lowercases, for containment
// checks that must tolerate arbitrary wrapping.
func CompactFold(s string) string {
	return strings.ToLower(multiSpace.ReplaceAllString(s, ""))
}
