package match

import (
	"math"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase and trim",
			input:    "  Deep Learning for NLP  ",
			expected: "deep learning for nlp",
		},
		{
			name:     "accents folded",
			input:    "Validación de Identificadores Digitáles",
			expected: "validacion de identificadores digitales",
		},
		{
			name:     "unicode dashes folded to hyphen",
			input:    "Edge–Cloud Computing — A Survey",
			expected: "edge-cloud computing - a survey",
		},
		{
			name:     "punctuation removed",
			input:    "What is \"AI\"? (An Introduction!)",
			expected: "what is ai an introduction",
		},
		{
			name:     "whitespace collapsed",
			input:    "Title\twith\n many   spaces",
			expected: "title with many spaces",
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestScoreIdentical(t *testing.T) {
	score, ok := Score("Attention Is All You Need", "attention is all you need")
	if !ok {
		t.Fatal("expected a comparable score")
	}

	if score != 1.0 {
		t.Errorf("identical titles should score 1.0, got %v", score)
	}
}

func TestScoreEmpty(t *testing.T) {
	cases := [][2]string{
		{"", "Some Title"},
		{"Some Title", ""},
		{"", ""},
		{"???", "Some Title"}, // normalizes to empty
	}

	for _, c := range cases {
		if score, ok := Score(c[0], c[1]); ok || score != 0 {
			t.Errorf("Score(%q, %q) = (%v, %v), want (0, false)", c[0], c[1], score, ok)
		}
	}
}

func TestScoreSymmetric(t *testing.T) {
	a := "A Survey of Deep Learning Methods"
	b := "Deep learning methods: a survey"

	sab, _ := Score(a, b)
	sba, _ := Score(b, a)

	if sab != sba {
		t.Errorf("score not symmetric: %v vs %v", sab, sba)
	}
}

func TestScoreTokenOverlapDominates(t *testing.T) {
	// Same words, different order: Jaccard is 1.0 even though the
	// character alignment is poor, and the blend takes the max.
	score, ok := Score("learning deep methods survey", "survey methods deep learning")
	if !ok {
		t.Fatal("expected a comparable score")
	}

	if score != 1.0 {
		t.Errorf("full token overlap should score 1.0, got %v", score)
	}
}

func TestScoreRounding(t *testing.T) {
	score, ok := Score("alpha beta gamma", "alpha beta delta")
	if !ok {
		t.Fatal("expected a comparable score")
	}

	if rounded := math.Round(score*10000) / 10000; rounded != score {
		t.Errorf("score %v not rounded to 4 decimal places", score)
	}
}

func TestScoreDisjoint(t *testing.T) {
	score, ok := Score("quantum entanglement", "marine biology fieldwork")
	if !ok {
		t.Fatal("expected a comparable score")
	}

	if score >= DefaultThreshold {
		t.Errorf("unrelated titles should fall below threshold, got %v", score)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		ok        bool
		threshold float64
		expected  Label
	}{
		{"at threshold is a match", 0.78, true, 0.78, LabelMatch},
		{"just below threshold", 0.7799, true, 0.78, LabelMismatch},
		{"above threshold", 0.95, true, 0.78, LabelMatch},
		{"zero score", 0.0, true, 0.78, LabelMismatch},
		{"no score is unknown", 0.99, false, 0.78, LabelUnknown},
		{"custom threshold", 0.6, true, 0.5, LabelMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.score, tt.ok, tt.threshold); got != tt.expected {
				t.Errorf("Classify(%v, %v, %v) = %v, want %v", tt.score, tt.ok, tt.threshold, got, tt.expected)
			}
		})
	}
}
