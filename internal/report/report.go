// Package report renders validation results as CSV, JSON, a plain-text
// summary, or a human-readable table.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/KrisSo03/DOI-Validator/internal/match"
	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/internal/verify"
)

// DisplayCategory refines the verdict for presentation: unknown verdicts
// that carry a concrete 4xx/5xx status are surfaced as suspect rather
// than lumped with unreachable ones.
type DisplayCategory string

const (
	DisplayValid   DisplayCategory = "valid"
	DisplayInvalid DisplayCategory = "invalid"
	DisplaySuspect DisplayCategory = "suspect"
	DisplayUnknown DisplayCategory = "unknown"
)

// Refine maps a verdict to its display category.
func Refine(category verify.Category, httpStatus int) DisplayCategory {
	switch category {
	case verify.CategoryValid:
		return DisplayValid
	case verify.CategoryInvalid:
		return DisplayInvalid
	case verify.CategoryUnknown:
		if httpStatus >= 400 && httpStatus < 600 {
			return DisplaySuspect
		}

		return DisplayUnknown
	default:
		return DisplayUnknown
	}
}

// Row is one reported DOI: the finding, its resolution verdict, and the
// optional registry reconciliation.
type Row struct {
	DOI        string          `json:"doi"`
	URL        string          `json:"url"`
	Category   DisplayCategory `json:"category"`
	HTTPStatus int             `json:"http_status,omitempty"`
	Message    string          `json:"message"`
	Elapsed    time.Duration   `json:"elapsed"`

	SourceFile    string `json:"source_file"`
	Page          int    `json:"page,omitempty"`
	Pattern       string `json:"pattern"`
	Context       string `json:"context,omitempty"`
	ReferenceLine string `json:"reference_line,omitempty"`
	BibTitle      string `json:"bib_title,omitempty"`

	RegistryTitle  string      `json:"registry_title,omitempty"`
	RegistrySource string      `json:"registry_source,omitempty"`
	MatchScore     float64     `json:"match_score,omitempty"`
	MatchScored    bool        `json:"match_scored"`
	MatchLabel     match.Label `json:"match_label"`
}

// NewRow combines a finding with its verdict. Registry fields are filled
// in later by the caller when reconciliation is enabled.
func NewRow(finding pipeline.Finding, verdict verify.Verdict) Row {
	return Row{
		DOI:           finding.DOI,
		URL:           "https://doi.org/" + finding.DOI,
		Category:      Refine(verdict.Category, verdict.HTTPStatus),
		HTTPStatus:    verdict.HTTPStatus,
		Message:       verdict.Message,
		Elapsed:       verdict.Elapsed,
		SourceFile:    finding.SourceFile,
		Page:          finding.Page,
		Pattern:       finding.Pattern,
		Context:       finding.Context,
		ReferenceLine: finding.ReferenceLine,
		BibTitle:      finding.BibTitle,
		MatchLabel:    match.LabelUnknown,
	}
}

// SetMatch records the reconciliation outcome against the registry title.
func (r *Row) SetMatch(score float64, scored bool, threshold float64) {
	r.MatchScore = score
	r.MatchScored = scored
	r.MatchLabel = match.Classify(score, scored, threshold)
}

// pageOrNA renders a page number, with "N/A" for unassigned pages.
func pageOrNA(page int) string {
	if page <= 0 {
		return "N/A"
	}

	return strconv.Itoa(page)
}

// statusOrNA renders an HTTP status, with "N/A" when no response arrived.
func statusOrNA(status int) string {
	if status == 0 {
		return "N/A"
	}

	return strconv.Itoa(status)
}

// scoreOrEmpty renders a match score, empty when no comparison happened.
func scoreOrEmpty(r Row) string {
	if !r.MatchScored {
		return ""
	}

	return strconv.FormatFloat(r.MatchScore, 'f', 4, 64)
}

func elapsedSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// Summary aggregates row counts per display category and match label.
type Summary struct {
	Total    int
	Valid    int
	Invalid  int
	Suspect  int
	Unknown  int
	Match    int
	Mismatch int
	Unscored int
}

// Summarize tallies a result set.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}

	for _, r := range rows {
		switch r.Category {
		case DisplayValid:
			s.Valid++
		case DisplayInvalid:
			s.Invalid++
		case DisplaySuspect:
			s.Suspect++
		default:
			s.Unknown++
		}

		switch r.MatchLabel {
		case match.LabelMatch:
			s.Match++
		case match.LabelMismatch:
			s.Mismatch++
		default:
			s.Unscored++
		}
	}

	return s
}

// Sort orders rows for stable output: category, match label, HTTP
// status, then DOI.
func Sort(rows []Row) {
	sortRows(rows)
}

func rowLess(a, b Row) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}

	if a.MatchLabel != b.MatchLabel {
		return a.MatchLabel < b.MatchLabel
	}

	if a.HTTPStatus != b.HTTPStatus {
		return a.HTTPStatus < b.HTTPStatus
	}

	return strings.ToLower(a.DOI) < strings.ToLower(b.DOI)
}
