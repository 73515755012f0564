// Package bib extracts bibliographic titles from reference strings and
// selects the best reference block for a DOI among multiple candidates.
package bib

import (
	"fmt"
	"regexp"
	"strings"
)

// Style identifies a citation format used to parse reference strings.
type Style string

const (
	StyleAuto      Style = "auto"
	StyleAPA7      Style = "apa7"
	StyleIEEE      Style = "ieee"
	StyleMLA       Style = "mla"
	StyleChicago   Style = "chicago"
	StyleVancouver Style = "vancouver"
)

// autoOrder is the cascade tried by StyleAuto, in rough order of how
// common each format is in the corpora we see.
var autoOrder = []Style{StyleAPA7, StyleIEEE, StyleMLA, StyleVancouver, StyleChicago}

// ParseStyle maps a user-supplied style name to a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return StyleAuto, nil
	case "apa", "apa7", "apa-7", "apa 7":
		return StyleAPA7, nil
	case "ieee":
		return StyleIEEE, nil
	case "mla":
		return StyleMLA, nil
	case "chicago":
		return StyleChicago, nil
	case "vancouver":
		return StyleVancouver, nil
	default:
		return "", fmt.Errorf("unknown citation style: %q", name)
	}
}

var (
	urlInTitle = regexp.MustCompile(`https?://\S+`)
	doiInTitle = regexp.MustCompile(`(?i)doi:\s*\S+`)

	// APA 7: Author(s). (Year). Title. Journal/Publisher.
	apaPrimary  = regexp.MustCompile(`\((\d{4}[a-z]?)\)\.\s*(.+?)\.(?:\s+[A-Z]|\s+https?|$)`)
	apaFallback = regexp.MustCompile(`(?i)\((\d{4}[a-z]?)\)\.\s*(.+?)(?:\s+Vol\.|\s+pp\.|\s+\d+\(|\.|http)`)

	// IEEE: [#] Author(s), "Title," Journal, vol., no., pp., year.
	quotedTitle  = regexp.MustCompile(`"([^"]+)"`)
	ieeeFallback = regexp.MustCompile(`(?i),\s+([^,]+?),\s+(?:vol\.|in\s+)`)

	// MLA without quotes: italicized title after the author segment.
	mlaFallback = regexp.MustCompile(`(?:^|\.\s+)([A-Z][^.]+?)\.\s+[A-Z]`)

	// Chicago: Author(s). Year. Title. Publisher.
	chicagoPattern = regexp.MustCompile(`(\d{4})\.\s*(.+?)\.(?:\s+[A-Z]|$)`)

	yearSegment = regexp.MustCompile(`^\d{4}`)
)

// stripLinks removes URLs and DOI labels that leak into captured titles.
func stripLinks(title string) string {
	title = urlInTitle.ReplaceAllString(title, "")
	title = doiInTitle.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}

// ExtractTitleByStyle parses the title out of a reference string using
// the grammar of the given citation style. StyleAuto tries each style
// in turn and accepts the first title longer than 10 characters.
// Returns "" when no title can be recovered.
func ExtractTitleByStyle(reference string, style Style) string {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return ""
	}

	switch style {
	case StyleAPA7:
		if m := apaPrimary.FindStringSubmatch(ref); m != nil {
			return stripLinks(m[2])
		}

		if m := apaFallback.FindStringSubmatch(ref); m != nil {
			return stripLinks(m[2])
		}

	case StyleIEEE:
		if m := quotedTitle.FindStringSubmatch(ref); m != nil {
			return strings.TrimSpace(m[1])
		}

		if m := ieeeFallback.FindStringSubmatch(ref); m != nil {
			return strings.TrimSpace(m[1])
		}

	case StyleMLA:
		if m := quotedTitle.FindStringSubmatch(ref); m != nil {
			return strings.TrimSpace(m[1])
		}

		if m := mlaFallback.FindStringSubmatch(ref); m != nil {
			return strings.TrimSpace(m[1])
		}

	case StyleChicago:
		if m := chicagoPattern.FindStringSubmatch(ref); m != nil {
			return stripLinks(m[2])
		}

	case StyleVancouver:
		// Author(s). Title. Journal. Year;vol(no):pp.
		parts := strings.Split(ref, ".")
		if len(parts) >= 3 {
			title := strings.TrimSpace(parts[1])
			if title != "" && !yearSegment.MatchString(title) {
				return stripLinks(title)
			}
		}

	case StyleAuto:
		for _, attempt := range autoOrder {
			if title := ExtractTitleByStyle(ref, attempt); len(title) > 10 {
				return title
			}
		}
	}

	return ""
}
