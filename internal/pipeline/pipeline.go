// Package pipeline wires text acquisition, DOI extraction, reference
// lookup and title recovery into per-document results, and merges
// findings across documents for validation.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KrisSo03/DOI-Validator/internal/bib"
	"github.com/KrisSo03/DOI-Validator/internal/extractor"
	"github.com/KrisSo03/DOI-Validator/internal/pdftext"
	"github.com/KrisSo03/DOI-Validator/internal/refs"
	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

// Finding is one DOI occurrence enriched with document provenance.
type Finding struct {
	extractor.Record

	SourceFile string `json:"source_file"`
	// Page is the 1-based page the DOI was found on, 0 when unknown.
	Page int `json:"page,omitempty"`

	FigshareID  int64  `json:"figshare_id,omitempty"`
	FigshareURL string `json:"figshare_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
}

// Result is the extraction outcome for one document.
type Result struct {
	File         string
	Findings     []Finding
	RefLines     []string
	SectionFound bool
	TotalPages   int
}

// Options configures document processing.
type Options struct {
	Scope     pdftext.Scope
	TailPages int
	// PreferRefsSection scopes extraction to the references section when
	// one is detected, falling back to the whole text otherwise.
	PreferRefsSection bool
	Style             bib.Style
	MinLinesAfter     int
	// Before and After size the reference block window around a
	// candidate line.
	Before int
	After  int
}

// DefaultOptions returns the processing defaults.
func DefaultOptions() Options {
	return Options{
		Scope:             pdftext.ScopeTail,
		TailPages:         pdftext.DefaultTailPages,
		PreferRefsSection: true,
		Style:             bib.StyleAuto,
		MinLinesAfter:     refs.DefaultMinLinesAfter,
		Before:            refs.DefaultBefore,
		After:             refs.DefaultAfter,
	}
}

// Processor runs the extraction pipeline over documents.
type Processor struct {
	options Options
}

// New creates a Processor, filling in zero options with defaults.
func New(options Options) *Processor {
	defaults := DefaultOptions()

	if options.Scope == "" {
		options.Scope = defaults.Scope
	}

	if options.TailPages <= 0 {
		options.TailPages = defaults.TailPages
	}

	if options.Style == "" {
		options.Style = defaults.Style
	}

	if options.MinLinesAfter <= 0 {
		options.MinLinesAfter = defaults.MinLinesAfter
	}

	if options.Before <= 0 {
		options.Before = defaults.Before
	}

	if options.After < 0 {
		options.After = defaults.After
	}

	return &Processor{options: options}
}

// ProcessText extracts DOIs from already-acquired document text. The
// robust single-pattern scan is used: document sources are noisy and
// the tolerant pattern recovers identifiers the strict ones fragment.
func (p *Processor) ProcessText(name, text string) Result {
	base := textnorm.Normalize(text)

	textForDOIs := base
	sectionFound := false

	if p.options.PreferRefsSection {
		section := refs.Locate(base, p.options.MinLinesAfter)
		if section.Found {
			textForDOIs = section.Text
			sectionFound = true
		}
	}

	ex := extractor.New(extractor.Options{
		ContextRadius: extractor.DefaultOptions().ContextRadius,
		Robust:        true,
	})

	records := ex.Extract(textForDOIs)
	refLines := refs.ExtractLines(textForDOIs)

	findings := make([]Finding, 0, len(records))

	for _, record := range records {
		record.ReferenceLine = refs.FindLine(record.DOI, refLines)
		record.BibTitle = bib.ExtractTitleByStyle(record.ReferenceLine, p.options.Style)

		findings = append(findings, Finding{Record: record, SourceFile: name})
	}

	return Result{
		File:         name,
		Findings:     findings,
		RefLines:     refLines,
		SectionFound: sectionFound,
	}
}

// ProcessPDFBytes extracts text from an in-memory PDF and runs the
// pipeline, assigning page numbers to each finding.
func (p *Processor) ProcessPDFBytes(name string, data []byte) (Result, error) {
	doc, err := pdftext.ExtractBytes(data, p.options.Scope, p.options.TailPages)
	if err != nil {
		return Result{File: name}, fmt.Errorf("process %s: %w", name, err)
	}

	result := p.ProcessText(name, doc.Text())
	result.TotalPages = doc.TotalPages

	AssignPages(result.Findings, doc.Pages)

	return result, nil
}

// ProcessPDFFile reads a PDF from disk and runs the pipeline.
func (p *Processor) ProcessPDFFile(path string) (Result, error) {
	doc, err := pdftext.ExtractFile(path, p.options.Scope, p.options.TailPages)
	if err != nil {
		return Result{File: path}, fmt.Errorf("process %s: %w", path, err)
	}

	result := p.ProcessText(path, doc.Text())
	result.TotalPages = doc.TotalPages

	AssignPages(result.Findings, doc.Pages)

	return result, nil
}

// ProcessPasted extracts DOIs from pasted text: lines, doi.org URLs, or
// prose with embedded identifiers. No reference context is available.
func ProcessPasted(text string) []Finding {
	ex := extractor.New(extractor.Options{
		ContextRadius: extractor.DefaultOptions().ContextRadius,
		Robust:        true,
	})

	records := ex.Extract(text)

	findings := make([]Finding, 0, len(records))
	for _, record := range records {
		findings = append(findings, Finding{Record: record, SourceFile: "pasted"})
	}

	return findings
}

// RefineWithAnchor re-selects the reference block for a finding using
// the registry title as an anchor, replacing the first-match line when
// the DOI appears on several lines of the section.
func (p *Processor) RefineWithAnchor(finding *Finding, refLines []string, anchorTitle string) {
	sel := bib.SelectBest(finding.DOI, refLines, anchorTitle, p.options.Before, p.options.After)
	if sel.Block == "" {
		return
	}

	finding.ReferenceLine = sel.Block

	if sel.Title != "" {
		if styled := bib.ExtractTitleByStyle(sel.Block, p.options.Style); styled != "" {
			finding.BibTitle = styled
		} else {
			finding.BibTitle = sel.Title
		}
	}
}

// Merge deduplicates findings across documents, keeping the earliest
// occurrence of each DOI (case-insensitive) by text position.
func Merge(findings []Finding) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	seen := make(map[string]bool, len(sorted))
	out := make([]Finding, 0, len(sorted))

	for _, f := range sorted {
		key := strings.ToLower(f.DOI)
		if key == "" || seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, f)
	}

	return out
}

// AssignPages attributes each finding to the first page whose repaired,
// compacted text contains the DOI. Compact comparison survives DOIs
// split across line breaks inside a page.
func AssignPages(findings []Finding, pages []pdftext.Page) {
	if len(findings) == 0 || len(pages) == 0 {
		return
	}

	compacted := make([]string, len(pages))
	for i, page := range pages {
		repaired := textnorm.Repair(page.Text, textnorm.RepairDocument)
		compacted[i] = textnorm.CompactFold(textnorm.Normalize(repaired))
	}

	for i := range findings {
		target := textnorm.CompactFold(findings[i].DOI)
		if target == "" {
			continue
		}

		for j, pageText := range compacted {
			if strings.Contains(pageText, target) {
				findings[i].Page = pages[j].Number
				break
			}
		}
	}
}
