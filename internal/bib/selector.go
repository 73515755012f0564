package bib

import (
	"regexp"
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/match"
	"github.com/KrisSo03/DOI-Validator/internal/refs"
)

// Selection is the reference block chosen for a DOI, with the title
// recovered from it and the score that drove the choice.
type Selection struct {
	Block string
	Title string
	Score float64
}

var (
	fragmentMarkers = regexp.MustCompile(`\b(?:pp|vol|no|issue|pages?)\b`)
	noiseOnly       = regexp.MustCompile(`^(?:19|20)\d{2}(?:[,;]\s*)?(?:pp\.?)?$`)
)

// plausibleTitle filters out page ranges, volume markers and bare years
// that the year-anchor heuristic sometimes mistakes for titles.
func plausibleTitle(title string) bool {
	s := strings.TrimSpace(wsRun.ReplaceAllString(title, " "))
	if s == "" {
		return false
	}

	low := strings.ToLower(s)
	words := len(strings.Fields(s))

	if words < 5 {
		return false
	}

	if fragmentMarkers.MatchString(low) && words < 8 {
		return false
	}

	if noiseOnly.MatchString(low) {
		return false
	}

	return true
}

// SelectBest picks the reference block that best explains a DOI when it
// appears on more than one line of the references section. When
// anchorTitle (typically the registry title) is non-empty, each
// candidate's extracted title is scored against it; otherwise longer
// titles win as a minimal stability heuristic. Returns a zero Selection
// when the DOI matches no line.
func SelectBest(doi string, lines []string, anchorTitle string, before, after int) Selection {
	cands := refs.FindCandidates(doi, lines)
	if len(cands) == 0 {
		return Selection{}
	}

	var best Selection

	anchor := strings.TrimSpace(anchorTitle)

	for _, cand := range cands {
		block := refs.BuildBlock(lines, cand.Index, before, after)

		title := ExtractTitle(block)
		if !plausibleTitle(title) {
			continue
		}

		var score float64
		if anchor != "" {
			if s, ok := match.Score(title, anchor); ok {
				score = s
			}
		} else {
			score = float64(len(title)) / 200.0
			if score > 1.0 {
				score = 1.0
			}
		}

		if score > best.Score {
			best = Selection{Block: block, Title: title, Score: score}
		}
	}

	// All candidates were noise: fall back to the first block so the
	// caller still gets context around the DOI.
	if best.Block == "" {
		block := refs.BuildBlock(lines, cands[0].Index, before, after)
		best = Selection{Block: block, Title: ExtractTitle(block)}
	}

	return best
}
