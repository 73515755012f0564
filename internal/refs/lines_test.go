package refs

import (
	"strings"
	"testing"
)

func TestFindCandidates(t *testing.T) {
	lines := []string{
		"Smith, J. (2020). Deep learning for text classification. Journal of AI. https://doi.org/10.1109/TEST.2020.1234567",
		"Doe, A. (2021). Unrelated entry without any identifier in it at all.",
		"As discussed in prior work, see also 10.1109/test.2020.1234567 cited in the text.",
	}

	candidates := FindCandidates("10.1109/TEST.2020.1234567", lines)
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}

	if candidates[0].Index != 0 || candidates[1].Index != 2 {
		t.Errorf("candidate indexes = %d, %d; want 0, 2", candidates[0].Index, candidates[1].Index)
	}
}

func TestFindCandidatesWrappedDOI(t *testing.T) {
	// The DOI is split inside a single assembled line fragment; the
	// line-mode repair must rejoin it before matching.
	lines := []string{
		"Author, A. (2019). Some entry. https://doi.org/10.1109/\nMIC.2022.3141559",
	}

	candidates := FindCandidates("10.1109/MIC.2022.3141559", lines)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
}

func TestFindCandidatesEmpty(t *testing.T) {
	if got := FindCandidates("", []string{"a line"}); got != nil {
		t.Errorf("expected nil for empty DOI, got %v", got)
	}

	if got := FindCandidates("10.1234/absent.here", []string{"no identifier in this line"}); got != nil {
		t.Errorf("expected nil for absent DOI, got %v", got)
	}
}

func TestFindLine(t *testing.T) {
	lines := []string{
		"first entry without the identifier we want",
		"second entry carrying 10.1234/wanted.doi as expected",
	}

	if got := FindLine("10.1234/WANTED.DOI", lines); !strings.Contains(got, "second entry") {
		t.Errorf("FindLine = %q", got)
	}

	if got := FindLine("10.1234/missing", lines); got != "" {
		t.Errorf("expected empty line for missing DOI, got %q", got)
	}
}

func TestBuildBlock(t *testing.T) {
	lines := []string{
		"line zero", "line one", "line two", "line three",
		"line four", "line five with the DOI", "line six",
		"line seven",
	}

	block := BuildBlock(lines, 5, DefaultBefore, DefaultAfter)

	// Window is [0, 6]: five lines before, one after.
	if !strings.HasPrefix(block, "line zero") {
		t.Errorf("block missing leading context: %q", block)
	}

	if !strings.Contains(block, "line six") {
		t.Errorf("block missing trailing context: %q", block)
	}

	if strings.Contains(block, "line seven") {
		t.Errorf("block too wide: %q", block)
	}

	if strings.Contains(block, "\n") || strings.Contains(block, "  ") {
		t.Errorf("block not whitespace-collapsed: %q", block)
	}
}

func TestBuildBlockBounds(t *testing.T) {
	lines := []string{"only line in the list"}

	if got := BuildBlock(lines, 0, DefaultBefore, DefaultAfter); got != "only line in the list" {
		t.Errorf("single-line block = %q", got)
	}

	if got := BuildBlock(lines, 3, DefaultBefore, DefaultAfter); got != "" {
		t.Errorf("out-of-range index must yield empty block, got %q", got)
	}
}
