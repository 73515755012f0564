package cmd

import (
	"fmt"
	"os"

	"code.sajari.com/docconv/v2"
	"github.com/spf13/cobra"

	"github.com/KrisSo03/DOI-Validator/internal/textnorm"
)

var (
	textOutputFile string
	textRepair     bool
)

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text [pdf-file]",
	Short: "Convert a PDF to normalized plain text",
	Long: `Convert a PDF document to plain text, normalized the same way the
scan command sees it: Unicode NFKC, soft hyphens removed, and optionally
line-wrap artifacts repaired.

Useful for inspecting what the extractor actually works with when a scan
misses a DOI.

Examples:
  doivalidator text paper.pdf
  doivalidator text --repair --output-file paper.txt paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVarP(&textOutputFile, "output-file", "f", "", "output file (default: stdout)")
	textCmd.Flags().BoolVar(&textRepair, "repair", false, "repair hyphen and line-wrap breaks")
}

func runText(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Converting %s to text...\n", filename)
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	response, err := docconv.ConvertPath(filename)
	if err != nil {
		return fmt.Errorf("failed to convert PDF: %w", err)
	}

	text := response.Body
	if textRepair {
		text = textnorm.Repair(text, textnorm.RepairDocument)
	}

	text = textnorm.Normalize(text)

	if textOutputFile != "" {
		if err := os.WriteFile(textOutputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Converted text written to %s\n", textOutputFile)
		}

		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)

	return nil
}
