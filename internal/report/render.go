package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[i], rows[j])
	})
}

// csvHeader is the column layout of the CSV export.
var csvHeader = []string{
	"doi", "url", "category", "http_status", "message", "elapsed_s",
	"source_file", "page", "pattern", "context", "reference_line",
	"bib_title", "registry_title", "registry_source", "match_score",
	"match_label",
}

// WriteCSV renders rows as CSV, header included.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.DOI,
			r.URL,
			string(r.Category),
			statusOrNA(r.HTTPStatus),
			r.Message,
			elapsedSeconds(r.Elapsed),
			r.SourceFile,
			pageOrNA(r.Page),
			r.Pattern,
			r.Context,
			r.ReferenceLine,
			r.BibTitle,
			r.RegistryTitle,
			r.RegistrySource,
			scoreOrEmpty(r),
			string(r.MatchLabel),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// WriteJSON renders rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

// WriteText renders the plain-text summary report: aggregate counts
// followed by one line per DOI.
func WriteText(w io.Writer, rows []Row, generated time.Time) error {
	s := Summarize(rows)

	header := fmt.Sprintf(`DOI VALIDATION REPORT
Generated: %s

Total: %d
Valid: %d
Invalid: %d
Suspect: %d
Unverifiable: %d

Title match (registry vs bibliography) - match: %d | mismatch: %d | unknown: %d

%s
`,
		generated.Format("2006-01-02 15:04:05"),
		s.Total, s.Valid, s.Invalid, s.Suspect, s.Unknown,
		s.Match, s.Mismatch, s.Unscored,
		strings.Repeat("-", 72))

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, r := range rows {
		line := fmt.Sprintf("%s | %s | HTTP=%s | %s", r.Category, r.DOI, statusOrNA(r.HTTPStatus), r.Message)

		if r.RegistryTitle != "" {
			line += " | RegistryTitle: " + r.RegistryTitle
		}

		if r.BibTitle != "" {
			line += " | BibTitle: " + r.BibTitle
		}

		line += " | TitleMatch=" + string(r.MatchLabel)

		if r.MatchScored {
			line += " | Score=" + scoreOrEmpty(r)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// WriteTable renders a compact human-readable table of the key columns.
func WriteTable(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"DOI", "Category", "HTTP", "File", "Page", "Title Match", "Score"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, r := range rows {
		table.Append([]string{
			r.DOI,
			string(r.Category),
			statusOrNA(r.HTTPStatus),
			r.SourceFile,
			pageOrNA(r.Page),
			string(r.MatchLabel),
			scoreOrEmpty(r),
		})
	}

	table.Render()
}
