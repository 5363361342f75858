package parser

import (
	"math"
	"testing"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"abc", "xyz", 0.0},
		{"", "", 0.0},
		{"abcd", "abce", 0.75},
	}

	for _, tt := range tests {
		got := SimilarityRatio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("SimilarityRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSuggestColumnPrefixSuffixRule(t *testing.T) {
	columns := []string{
		"J74_V710_B2_PP_YOTK",
		"J74_V710_B2_SOP_YOTK",
		"J74_V710_B2_PP_OTHER",
		"UNRELATED",
	}

	// 多段输入：前三段前缀 + 末段后缀筛选，相似度 >= 0.9 直接采用
	got, score := SuggestColumn("J74_V710_B2_PP_YOTK", columns)
	if got != "J74_V710_B2_PP_YOTK" || score < 0.9 {
		t.Fatalf("SuggestColumn = %q (%v), want exact column with score >= 0.9", got, score)
	}
}

func TestSuggestColumnFallbackToClosest(t *testing.T) {
	columns := []string{"YAZAKI_PN", "PART_DESC", "QTY"}

	got, score := SuggestColumn("yazaki pn", columns)
	if got != "YAZAKI_PN" {
		t.Fatalf("SuggestColumn = %q, want YAZAKI_PN", got)
	}
	if score <= 0 {
		t.Fatalf("score = %v, want > 0", score)
	}
}

func TestSuggestColumnEmptyInput(t *testing.T) {
	got, score := SuggestColumn("  ", []string{"FIRST", "SECOND"})
	if got != "FIRST" || score != 0 {
		t.Fatalf("SuggestColumn(empty) = %q (%v), want FIRST with score 0", got, score)
	}
}

func TestSuggestColumnNoCandidates(t *testing.T) {
	got, score := SuggestColumn("ANY", nil)
	if got != "ANY" || score != 0 {
		t.Fatalf("SuggestColumn(no candidates) = %q (%v), want input echoed", got, score)
	}
}
