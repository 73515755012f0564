package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KrisSo03/DOI-Validator/internal/bib"
	"github.com/KrisSo03/DOI-Validator/internal/match"
	"github.com/KrisSo03/DOI-Validator/internal/pdftext"
	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/internal/refs"
)

var (
	scanStyle      string
	scanThreshold  float64
	scanWorkers    int
	scanTimeout    int
	scanRetries    int
	scanTailPages  int
	scanFullPDF    bool
	scanPreferRefs bool
	scanCrossref   bool
	scanReportFile string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [pdf-file...]",
	Short: "Extract and validate DOIs from PDF documents",
	Long: `Scan one or more PDF files for DOIs, validate each against doi.org,
and optionally reconcile bibliography titles with Crossref.

By default only the last pages of each PDF are read, where the reference
list lives. Use --full to scan whole documents.

Examples:
  doivalidator scan thesis.pdf
  doivalidator scan --full --style apa7 paper1.pdf paper2.pdf
  doivalidator scan -o csv --report-file results.csv *.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanStyle, "style", "auto", "citation style for title extraction (auto, apa7, ieee, mla, chicago, vancouver)")
	scanCmd.Flags().Float64Var(&scanThreshold, "title-threshold", match.DefaultThreshold, "similarity threshold for a title match")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 10, "parallel validation workers")
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 15, "HTTP timeout in seconds")
	scanCmd.Flags().IntVar(&scanRetries, "retries", 2, "resolution attempts per DOI")
	scanCmd.Flags().IntVar(&scanTailPages, "tail-pages", pdftext.DefaultTailPages, "pages from the end to scan (ignored with --full)")
	scanCmd.Flags().BoolVar(&scanFullPDF, "full", false, "scan the whole PDF instead of the tail pages")
	scanCmd.Flags().BoolVar(&scanPreferRefs, "prefer-refs", true, "scope extraction to the references section when detected")
	scanCmd.Flags().BoolVar(&scanCrossref, "crossref", true, "look up registry titles on Crossref")
	scanCmd.Flags().StringVar(&scanReportFile, "report-file", "", "write the report to a file instead of stdout")
}

func newProcessor() (*pipeline.Processor, error) {
	style, err := bib.ParseStyle(scanStyle)
	if err != nil {
		return nil, err
	}

	scope := pdftext.ScopeTail
	if scanFullPDF {
		scope = pdftext.ScopeFull
	}

	return pipeline.New(pipeline.Options{
		Scope:             scope,
		TailPages:         scanTailPages,
		PreferRefsSection: scanPreferRefs,
		Style:             style,
		MinLinesAfter:     refs.DefaultMinLinesAfter,
		Before:            refs.DefaultBefore,
		After:             refs.DefaultAfter,
	}), nil
}

func runScan(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}

	var (
		findings      []pipeline.Finding
		outcomes      []pipeline.Outcome
		resultsByFile = make(map[string]pipeline.Result)
	)

	for _, path := range args {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Extracting DOIs from %s...\n", path)
		}

		result, err := proc.ProcessPDFFile(path)
		if err != nil {
			outcomes = append(outcomes, pipeline.Skipped(path, err.Error()))
			continue
		}

		outcomes = append(outcomes, pipeline.Processed(path, len(result.Findings)))
		resultsByFile[result.File] = result
		findings = append(findings, result.Findings...)
	}

	printOutcomes(outcomes)

	return runValidation(cmd.Context(), findings, resultsByFile, proc, validationConfig{
		timeoutSeconds: scanTimeout,
		retries:        scanRetries,
		workers:        scanWorkers,
		useCrossref:    scanCrossref,
		titleThreshold: scanThreshold,
		reportFile:     scanReportFile,
	})
}
