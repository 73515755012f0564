package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
)

var (
	pasteWorkers    int
	pasteTimeout    int
	pasteRetries    int
	pasteThreshold  float64
	pasteCrossref   bool
	pasteReportFile string
)

// pasteCmd represents the paste command
var pasteCmd = &cobra.Command{
	Use:   "paste [file]",
	Short: "Validate DOIs from pasted text or a text file",
	Long: `Extract DOIs from arbitrary text and validate them against doi.org.

The input may be one DOI per line, doi.org URLs, or prose with embedded
identifiers. Reads from stdin when no file is given.

Examples:
  echo "10.1109/MIC.2022.3141559" | doivalidator paste
  doivalidator paste dois.txt
  pbpaste | doivalidator paste -o csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaste,
}

func init() {
	rootCmd.AddCommand(pasteCmd)

	pasteCmd.Flags().IntVar(&pasteWorkers, "workers", 10, "parallel validation workers")
	pasteCmd.Flags().IntVar(&pasteTimeout, "timeout", 15, "HTTP timeout in seconds")
	pasteCmd.Flags().IntVar(&pasteRetries, "retries", 2, "resolution attempts per DOI")
	pasteCmd.Flags().Float64Var(&pasteThreshold, "title-threshold", 0.78, "similarity threshold for a title match")
	pasteCmd.Flags().BoolVar(&pasteCrossref, "crossref", false, "look up registry titles on Crossref")
	pasteCmd.Flags().StringVar(&pasteReportFile, "report-file", "", "write the report to a file instead of stdout")
}

func runPaste(cmd *cobra.Command, args []string) error {
	var (
		text []byte
		err  error
	)

	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
	}

	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	findings := pipeline.ProcessPasted(string(text))

	// Pasted text carries no document context, so no reference-line
	// re-selection is possible.
	proc := pipeline.New(pipeline.DefaultOptions())

	return runValidation(cmd.Context(), findings, nil, proc, validationConfig{
		timeoutSeconds: pasteTimeout,
		retries:        pasteRetries,
		workers:        pasteWorkers,
		useCrossref:    pasteCrossref,
		titleThreshold: pasteThreshold,
		reportFile:     pasteReportFile,
	})
}
