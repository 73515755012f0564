package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/pkg/figshare"
)

var (
	figshareList       int
	figshareTake       int
	figshareWorkers    int
	figshareTimeout    int
	figshareRetries    int
	figshareThreshold  float64
	figshareStyle      string
	figshareCrossref   bool
	figshareReportFile string
)

// figshareCmd represents the figshare command
var figshareCmd = &cobra.Command{
	Use:   "figshare [article-id...]",
	Short: "Validate DOIs cited in Figshare theses",
	Long: `Fetch thesis PDFs from the Figshare API and validate the DOIs they
cite. Pass article IDs directly, or use --list to pull the most recent
theses and process the first --take of them.

Examples:
  doivalidator figshare 1234567 2345678
  doivalidator figshare --list 25 --take 5
  doivalidator figshare --list 50 -o csv --report-file theses.csv`,
	RunE: runFigshare,
}

func init() {
	rootCmd.AddCommand(figshareCmd)

	figshareCmd.Flags().IntVar(&figshareList, "list", 0, "list the N most recent theses instead of taking IDs")
	figshareCmd.Flags().IntVar(&figshareTake, "take", 5, "number of listed theses to process")
	figshareCmd.Flags().IntVar(&figshareWorkers, "workers", 10, "parallel validation workers")
	figshareCmd.Flags().IntVar(&figshareTimeout, "timeout", 30, "HTTP timeout in seconds")
	figshareCmd.Flags().IntVar(&figshareRetries, "retries", 2, "resolution attempts per DOI")
	figshareCmd.Flags().Float64Var(&figshareThreshold, "title-threshold", 0.78, "similarity threshold for a title match")
	figshareCmd.Flags().StringVar(&figshareStyle, "style", "auto", "citation style for title extraction")
	figshareCmd.Flags().BoolVar(&figshareCrossref, "crossref", true, "look up registry titles on Crossref")
	figshareCmd.Flags().StringVar(&figshareReportFile, "report-file", "", "write the report to a file instead of stdout")
}

func runFigshare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client := figshare.NewClient(figshare.WithTimeout(time.Duration(figshareTimeout) * time.Second))

	ids, err := figshareArticleIDs(cmd, client, args)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		return fmt.Errorf("no Figshare article IDs to process")
	}

	// Reuse the scan pipeline settings for style and section handling.
	scanStyle = figshareStyle

	proc, err := newProcessor()
	if err != nil {
		return err
	}

	var (
		findings      []pipeline.Finding
		outcomes      []pipeline.Outcome
		resultsByFile = make(map[string]pipeline.Result)
	)

	for i, id := range ids {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Figshare %d/%d: article %d\n", i+1, len(ids), id)
		}

		name := fmt.Sprintf("figshare:%d", id)

		detail, err := client.ArticleDetail(ctx, id)
		if err != nil {
			outcomes = append(outcomes, pipeline.Skipped(name, err.Error()))
			continue
		}

		if detail.Title != "" {
			name = detail.Title
		}

		pdfURLs := detail.PDFURLs()
		if len(pdfURLs) == 0 {
			outcomes = append(outcomes, pipeline.Skipped(name, "no PDF attachment"))
			continue
		}

		// First PDF only: Figshare theses ship the manuscript first.
		data, err := client.DownloadPDF(ctx, pdfURLs[0])
		if err != nil {
			outcomes = append(outcomes, pipeline.Skipped(name, err.Error()))
			continue
		}

		result, err := proc.ProcessPDFBytes(name, data)
		if err != nil {
			outcomes = append(outcomes, pipeline.Skipped(name, err.Error()))
			continue
		}

		for j := range result.Findings {
			result.Findings[j].FigshareID = id
			result.Findings[j].PDFURL = pdfURLs[0]
		}

		outcomes = append(outcomes, pipeline.Processed(name, len(result.Findings)))
		resultsByFile[result.File] = result
		findings = append(findings, result.Findings...)
	}

	printOutcomes(outcomes)

	return runValidation(ctx, findings, resultsByFile, proc, validationConfig{
		timeoutSeconds: figshareTimeout,
		retries:        figshareRetries,
		workers:        figshareWorkers,
		useCrossref:    figshareCrossref,
		titleThreshold: figshareThreshold,
		reportFile:     figshareReportFile,
	})
}

// figshareArticleIDs resolves the set of articles to process, either
// from positional arguments or from a listing call.
func figshareArticleIDs(cmd *cobra.Command, client *figshare.Client, args []string) ([]int64, error) {
	if figshareList > 0 {
		articles, err := client.ListTheses(cmd.Context(), figshareList)
		if err != nil {
			return nil, err
		}

		take := figshareTake
		if take <= 0 || take > len(articles) {
			take = len(articles)
		}

		ids := make([]int64, 0, take)
		for _, a := range articles[:take] {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "- %s (id %d)\n", a.Title, a.ID)
			}

			ids = append(ids, a.ID)
		}

		return ids, nil
	}

	ids := make([]int64, 0, len(args))

	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid Figshare article ID: %q", arg)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
