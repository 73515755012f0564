package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/KrisSo03/DOI-Validator/internal/crossref"
	"github.com/KrisSo03/DOI-Validator/internal/match"
	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/internal/report"
	"github.com/KrisSo03/DOI-Validator/internal/verify"
)

// validationConfig carries the knobs shared by every DOI-producing
// command.
type validationConfig struct {
	timeoutSeconds int
	retries        int
	workers        int
	useCrossref    bool
	titleThreshold float64
	reportFile     string
}

// runValidation takes the merged findings of any source, resolves them
// against doi.org, optionally reconciles titles with Crossref, and
// renders the report in the selected output format.
//
// resultsByFile gives access to each document's reference lines so the
// Crossref title can re-anchor the block selection.
func runValidation(
	ctx context.Context,
	findings []pipeline.Finding,
	resultsByFile map[string]pipeline.Result,
	proc *pipeline.Processor,
	cfg validationConfig,
) error {
	merged := pipeline.Merge(findings)
	if len(merged) == 0 {
		return fmt.Errorf("no DOIs found in any source")
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "Unique DOIs found: %d\n", len(merged))
	}

	validator := verify.New(verify.Config{
		Timeout:    time.Duration(cfg.timeoutSeconds) * time.Second,
		MaxRetries: cfg.retries,
	})

	dois := make([]string, len(merged))
	for i, f := range merged {
		dois[i] = f.DOI
	}

	verdicts := validator.ValidateBatch(ctx, dois, cfg.workers)

	rows := make([]report.Row, len(merged))
	for i, f := range merged {
		rows[i] = report.NewRow(f, verdicts[i])
	}

	if cfg.useCrossref {
		client := crossref.NewClient()

		for i := range merged {
			work, ok := client.TitleByDOI(ctx, merged[i].DOI)
			if !ok {
				continue
			}

			rows[i].RegistryTitle = work.Title
			rows[i].RegistrySource = work.Source

			// With a registry anchor available, re-pick the reference
			// block in case the DOI matched several lines.
			if result, found := resultsByFile[merged[i].SourceFile]; found && len(result.RefLines) > 0 {
				proc.RefineWithAnchor(&merged[i], result.RefLines, work.Title)
				rows[i].ReferenceLine = merged[i].ReferenceLine
				rows[i].BibTitle = merged[i].BibTitle
			}

			score, scored := match.Score(rows[i].BibTitle, work.Title)
			rows[i].SetMatch(score, scored, cfg.titleThreshold)

			if !quiet {
				fmt.Fprintf(os.Stderr, "Crossref %d/%d\r", i+1, len(merged))
			}
		}

		if !quiet {
			fmt.Fprintln(os.Stderr)
		}
	}

	report.Sort(rows)

	return renderRows(rows, cfg.reportFile)
}

// renderRows writes rows to stdout or a file in the format selected by
// the persistent --output flag.
func renderRows(rows []report.Row, reportFile string) error {
	out := os.Stdout

	if reportFile != "" {
		f, err := os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()

		out = f
	}

	switch output {
	case "json":
		return report.WriteJSON(out, rows)
	case "csv":
		return report.WriteCSV(out, rows)
	case "txt":
		return report.WriteText(out, rows, time.Now())
	case "human", "":
		report.WriteTable(out, rows)

		s := report.Summarize(rows)
		fmt.Fprintf(out, "\nTotal: %d  valid: %d  invalid: %d  suspect: %d  unknown: %d\n",
			s.Total, s.Valid, s.Invalid, s.Suspect, s.Unknown)

		return nil
	default:
		return fmt.Errorf("unknown output format: %q", output)
	}
}

// printOutcomes reports per-document processing status on stderr.
func printOutcomes(outcomes []pipeline.Outcome) {
	if quiet {
		return
	}

	for _, o := range outcomes {
		if o.Status == pipeline.OutcomeSkipped {
			fmt.Fprintf(os.Stderr, "skipped %s: %s\n", o.File, o.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "processed %s: %d DOI occurrence(s)\n", o.File, o.DOIs)
		}
	}
}
