package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/KrisSo03/DOI-Validator/internal/extractor"
	"github.com/KrisSo03/DOI-Validator/internal/match"
	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/internal/verify"
)

func TestRefine(t *testing.T) {
	tests := []struct {
		name     string
		category verify.Category
		status   int
		expected DisplayCategory
	}{
		{"valid passes through", verify.CategoryValid, 200, DisplayValid},
		{"invalid passes through", verify.CategoryInvalid, 404, DisplayInvalid},
		{"unknown with 429 is suspect", verify.CategoryUnknown, 429, DisplaySuspect},
		{"unknown with 503 is suspect", verify.CategoryUnknown, 503, DisplaySuspect},
		{"unknown without status stays unknown", verify.CategoryUnknown, 0, DisplayUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Refine(tt.category, tt.status); got != tt.expected {
				t.Errorf("Refine(%v, %d) = %v, want %v", tt.category, tt.status, got, tt.expected)
			}
		})
	}
}

func sampleRows() []Row {
	finding := pipeline.Finding{
		Record: extractor.Record{
			DOI:           "10.1234/abcd",
			Pattern:       "doi-robust",
			Context:       "see https://doi.org/10.1234/abcd for details",
			ReferenceLine: "Smith, J. (2020). A title. Journal.",
			BibTitle:      "A title",
		},
		SourceFile: "paper.pdf",
		Page:       42,
	}

	verdict := verify.Verdict{
		DOI:        "10.1234/abcd",
		OK:         true,
		Category:   verify.CategoryValid,
		HTTPStatus: 302,
		Message:    "resolves (HTTP 302)",
		Elapsed:    120 * time.Millisecond,
	}

	row := NewRow(finding, verdict)
	row.RegistryTitle = "A Title"
	row.RegistrySource = "Journal of Examples"
	row.SetMatch(0.9512, true, 0.78)

	unknown := NewRow(
		pipeline.Finding{Record: extractor.Record{DOI: "10.5678/efgh", Pattern: "doi-robust"}, SourceFile: "pasted"},
		verify.Verdict{DOI: "10.5678/efgh", Category: verify.CategoryUnknown, Message: "timeout"},
	)

	return []Row{row, unknown}
}

func TestNewRow(t *testing.T) {
	rows := sampleRows()

	if rows[0].URL != "https://doi.org/10.1234/abcd" {
		t.Errorf("URL: %q", rows[0].URL)
	}

	if rows[0].Category != DisplayValid {
		t.Errorf("category: %v", rows[0].Category)
	}

	if rows[0].MatchLabel != match.LabelMatch {
		t.Errorf("match label: %v", rows[0].MatchLabel)
	}

	if rows[1].MatchLabel != match.LabelUnknown {
		t.Errorf("unscored row should be unknown, got %v", rows[1].MatchLabel)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}

	if records[0][0] != "doi" || records[0][len(records[0])-1] != "match_label" {
		t.Errorf("unexpected header: %v", records[0])
	}

	if records[1][0] != "10.1234/abcd" || records[1][2] != "valid" {
		t.Errorf("unexpected first row: %v", records[1])
	}

	if records[1][14] != "0.9512" {
		t.Errorf("score column: %q", records[1][14])
	}

	// No response: status and score render as placeholders.
	if records[2][3] != "N/A" || records[2][14] != "" {
		t.Errorf("unexpected second row: %v", records[2])
	}

	if records[2][7] != "N/A" {
		t.Errorf("unassigned page should be N/A, got %q", records[2][7])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded []Row
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("round-trip: %v", err)
	}

	if len(decoded) != 2 || decoded[0].DOI != "10.1234/abcd" {
		t.Errorf("unexpected decode: %+v", decoded)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	generated := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	if err := WriteText(&buf, sampleRows(), generated); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"Generated: 2025-03-14 09:26:53",
		"Total: 2",
		"Valid: 1",
		"Unverifiable: 1",
		"match: 1 | mismatch: 0 | unknown: 1",
		"valid | 10.1234/abcd | HTTP=302 | resolves (HTTP 302)",
		"RegistryTitle: A Title",
		"Score=0.9512",
		"unknown | 10.5678/efgh | HTTP=N/A | timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer

	WriteTable(&buf, sampleRows())

	out := buf.String()
	if !strings.Contains(out, "10.1234/abcd") || !strings.Contains(out, "CATEGORY") {
		t.Errorf("table output:\n%s", out)
	}
}

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Category: DisplayValid, MatchLabel: match.LabelMatch},
		{Category: DisplayValid, MatchLabel: match.LabelMismatch},
		{Category: DisplayInvalid, MatchLabel: match.LabelUnknown},
		{Category: DisplaySuspect, MatchLabel: match.LabelUnknown},
		{Category: DisplayUnknown, MatchLabel: match.LabelUnknown},
	}

	s := Summarize(rows)
	if s.Total != 5 || s.Valid != 2 || s.Invalid != 1 || s.Suspect != 1 || s.Unknown != 1 {
		t.Errorf("category counts: %+v", s)
	}

	if s.Match != 1 || s.Mismatch != 1 || s.Unscored != 3 {
		t.Errorf("match counts: %+v", s)
	}
}

func TestSort(t *testing.T) {
	rows := []Row{
		{DOI: "10.1/b", Category: DisplayValid},
		{DOI: "10.1/a", Category: DisplayInvalid},
		{DOI: "10.1/A", Category: DisplayValid},
	}

	Sort(rows)

	if rows[0].Category != DisplayInvalid {
		t.Errorf("invalid sorts first alphabetically, got %+v", rows[0])
	}

	if rows[1].DOI != "10.1/A" || rows[2].DOI != "10.1/b" {
		t.Errorf("DOI tiebreak failed: %+v", rows)
	}
}
