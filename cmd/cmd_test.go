package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KrisSo03/DOI-Validator/internal/extractor"
	"github.com/KrisSo03/DOI-Validator/internal/pipeline"
	"github.com/KrisSo03/DOI-Validator/internal/report"
)

func TestNewProcessorRejectsBadStyle(t *testing.T) {
	old := scanStyle
	defer func() { scanStyle = old }()

	scanStyle = "harvard"

	if _, err := newProcessor(); err == nil {
		t.Error("expected an error for an unknown style")
	}

	scanStyle = "apa7"

	if _, err := newProcessor(); err != nil {
		t.Errorf("apa7 should parse: %v", err)
	}
}

func TestRenderRowsFormats(t *testing.T) {
	rows := []report.Row{
		{DOI: "10.1234/abcd", URL: "https://doi.org/10.1234/abcd", Category: report.DisplayValid, HTTPStatus: 200},
	}

	dir := t.TempDir()

	oldOutput := output
	defer func() { output = oldOutput }()

	for _, format := range []string{"human", "json", "csv", "txt"} {
		output = format

		path := filepath.Join(dir, format+".out")
		if err := renderRows(rows, path); err != nil {
			t.Fatalf("renderRows(%s): %v", format, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}

		if !strings.Contains(string(data), "10.1234/abcd") {
			t.Errorf("%s output missing the DOI:\n%s", format, data)
		}
	}

	output = "yaml"
	if err := renderRows(rows, filepath.Join(dir, "bad.out")); err == nil {
		t.Error("unknown format should error")
	}
}

func TestRunValidationNoFindings(t *testing.T) {
	proc := pipeline.New(pipeline.DefaultOptions())

	err := runValidation(context.Background(), nil, nil, proc, validationConfig{})
	if err == nil || !strings.Contains(err.Error(), "no DOIs") {
		t.Errorf("expected a no-DOIs error, got %v", err)
	}
}

func TestFindingsMergeBeforeValidation(t *testing.T) {
	// Merge semantics used by runValidation: duplicates across files
	// collapse to the earliest occurrence.
	findings := []pipeline.Finding{
		{Record: extractor.Record{DOI: "10.1/x", Position: 9}, SourceFile: "b.pdf"},
		{Record: extractor.Record{DOI: "10.1/X", Position: 3}, SourceFile: "a.pdf"},
	}

	merged := pipeline.Merge(findings)
	if len(merged) != 1 || merged[0].SourceFile != "a.pdf" {
		t.Errorf("got %+v", merged)
	}
}
