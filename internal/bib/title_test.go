package bib

import "testing"

func TestExtractTitleYearAnchor(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{
			name:     "title after parenthesized year",
			line:     "Martínez, P. (2018). Reproducibility of computational experiments. Nature Methods, 15, 10-12.",
			expected: "Reproducibility of computational experiments",
		},
		{
			name:     "year with suffix letter",
			line:     "Chen, L. (2023b). Graph embeddings for citation networks. Proc. KDD.",
			expected: "Graph embeddings for citation networks",
		},
		{
			name:     "no date marker",
			line:     "World Health Organization. (n.d.). Guidelines on data sharing policies. Retrieved from https://who.int/data",
			expected: "Guidelines on data sharing policies",
		},
		{
			name:     "retrieved-from cut without period",
			line:     "OECD. (2020). Digital economy outlook overview Retrieved from https://oecd.org",
			expected: "Digital economy outlook overview",
		},
		{
			name:     "doi stripped before parsing",
			line:     "Ruiz, A. (2019). Persistent identifiers in practice. https://doi.org/10.1234/abcd doi:10.1234/abcd",
			expected: "Persistent identifiers in practice",
		},
		{
			name:     "empty input",
			line:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.line); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractTitleWebReference(t *testing.T) {
	line := "Climate data portal for researchers [NOAA]. (n.d.). Retrieved from https://noaa.gov/data"

	if got := ExtractTitle(line); got != "Climate data portal for researchers" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleQuotedFallback(t *testing.T) {
	line := `A. Ortega, "Latency bounds in federated queries," unpublished.`

	if got := ExtractTitle(line); got != "Latency bounds in federated queries," {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleSegmentFallback(t *testing.T) {
	line := "Ortega A, Díaz M. Latency bounds in federated query engines. VLDB J. 2015."

	if got := ExtractTitle(line); got != "Latency bounds in federated query engines" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleFragmentedLine(t *testing.T) {
	// Line breaks inside the reference are repaired before parsing.
	line := "Martínez, P. (2018). Reproducibility of compu-\ntational experiments. Nature Methods."

	if got := ExtractTitle(line); got != "Reproducibility of computational experiments" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTitleLengthBounds(t *testing.T) {
	// Candidate shorter than 8 chars is rejected, falls through to nothing.
	if got := ExtractTitle("Kim, J. (2020). Short."); got != "" {
		t.Errorf("short title should be rejected, got %q", got)
	}
}
