// Package match scores how closely a locally-extracted bibliographic
// title agrees with the canonical title from a metadata registry.
package match

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label classifies a title comparison.
type Label string

const (
	LabelMatch    Label = "match"
	LabelMismatch Label = "mismatch"
	LabelUnknown  Label = "unknown"
)

// DefaultThreshold is the provisional match cutoff. It has no empirical
// calibration behind it and is exposed as a flag so callers can retune.
const DefaultThreshold = 0.78

var (
	unicodeDashes = regexp.MustCompile("[‐‑‒–—−]")
	nonTitleChars = regexp.MustCompile(`[^a-z0-9\s\-]`)
	titleSpaces   = regexp.MustCompile(`\s+`)

	// stripAccents decomposes and drops combining marks.
	stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeTitle folds a title for comparison: accents stripped,
// lowercased, Unicode dash variants folded to "-", everything outside
// [a-z0-9 space -] removed, whitespace collapsed.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return ""
	}

	if folded, _, err := transform.String(stripAccents, t); err == nil {
		t = folded
	}

	t = strings.ToLower(t)
	t = unicodeDashes.ReplaceAllString(t, "-")
	t = nonTitleChars.ReplaceAllString(t, " ")
	t = titleSpaces.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}

// Score computes a blended similarity in [0, 1] between two titles. The
// second return value is false when either title is empty after
// normalization, meaning no comparison is possible.
//
// The blend is max(sequence ratio, token Jaccard, their mean): a
// deliberately lenient formula that favors whichever signal is more
// forgiving. It is preserved as-is for compatibility and remains a
// tuning candidate.
func Score(titleA, titleB string) (float64, bool) {
	a := NormalizeTitle(titleA)
	b := NormalizeTitle(titleB)

	if a == "" || b == "" {
		return 0, false
	}

	seq := sequenceRatio(a, b)
	jacc := jaccard(strings.Fields(a), strings.Fields(b))

	score := math.Max(seq, math.Max(jacc, (seq+jacc)/2))

	return math.Round(score*10000) / 10000, true
}

// Classify maps a score against a threshold. ok=false (no score) always
// yields LabelUnknown.
func Classify(score float64, ok bool, threshold float64) Label {
	if !ok {
		return LabelUnknown
	}

	if score >= threshold {
		return LabelMatch
	}

	return LabelMismatch
}

// sequenceRatio is an edit-distance alignment ratio over the normalized
// strings: 1 - distance/maxlen.
func sequenceRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}

	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)

	return 1.0 - float64(dist)/float64(longest)
}

// jaccard is the token-set overlap of two word lists.
func jaccard(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = true
	}

	union := make(map[string]bool, len(tokensA)+len(tokensB))
	for tok := range setA {
		union[tok] = true
	}

	intersection := 0

	for _, tok := range tokensB {
		if union[tok] && setA[tok] {
			setA[tok] = false // count each shared token once
			intersection++
		}

		union[tok] = true
	}

	if len(union) == 0 {
		return 0
	}

	return float64(intersection) / float64(len(union))
}
