package match

import (
	"reflect"
	"slices"
	"testing"

	"beanmapper/internal/analyze"
)

func TestRankNames(t *testing.T) {
	ranked := RankNames("CustomerName", []string{"Status", "customer_name", "CustomerID"})
	if len(ranked) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ranked))
	}
	if ranked[0].Name != "customer_name" {
		t.Errorf("best candidate = %q, want customer_name", ranked[0].Name)
	}
	if ranked[0].NameScore != 1.0 {
		t.Errorf("exact normalized match should score 1.0, got %f", ranked[0].NameScore)
	}
}

func TestRankFields(t *testing.T) {
	g := analyze.NewTypeGraph()
	info := g.Add(reflect.TypeFor[struct {
		TotalCents int64
		Total      string
		hidden     int64
	}]())

	ranked := RankFields("Total", reflect.TypeFor[int64](), info.Fields)
	if len(ranked) != 2 {
		t.Fatalf("unexported fields must be skipped, got %d candidates", len(ranked))
	}
	if ranked[0].Name != "Total" {
		t.Errorf("best candidate = %q, want Total", ranked[0].Name)
	}
	if ranked[1].TypeCompat.Compatibility != TypeIdentical {
		t.Errorf("TotalCents compat = %v, want identical", ranked[1].TypeCompat.Compatibility)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		options  []string
		limit    int
		expected []string
	}{
		{
			name:     "close typo first",
			target:   "CustomerNam",
			options:  []string{"ID", "CustomerName", "Status"},
			limit:    3,
			expected: []string{"CustomerName"},
		},
		{
			name:     "nothing close",
			target:   "Zzz",
			options:  []string{"CustomerName", "Status"},
			limit:    3,
			expected: []string{},
		},
		{
			name:     "limit respected",
			target:   "Order",
			options:  []string{"OrderID", "Orders", "Order_"},
			limit:    2,
			expected: []string{"OrderID", "Order_"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.target, tt.options, tt.limit)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.target, got, tt.expected)
			}
		})
	}
}

func TestCandidateList_Sorting(t *testing.T) {
	list := CandidateList{
		{Name: "b", CombinedScore: 0.5},
		{Name: "a", CombinedScore: 0.5},
		{Name: "c", CombinedScore: 0.9},
	}

	ranked := RankNames("", nil)
	if len(ranked) != 0 {
		t.Fatalf("empty input should rank nothing")
	}

	sortList(list)
	want := []string{"c", "a", "b"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestCandidateList_Helpers(t *testing.T) {
	list := CandidateList{
		{Name: "a", CombinedScore: 0.9},
		{Name: "b", CombinedScore: 0.6},
		{Name: "c", CombinedScore: 0.2},
	}

	if got := len(list.Top(2)); got != 2 {
		t.Errorf("Top(2) returned %d", got)
	}
	if got := len(list.Top(10)); got != 3 {
		t.Errorf("Top(10) returned %d", got)
	}
	if got := list.Best(); got == nil || got.Name != "a" {
		t.Errorf("Best() = %v", got)
	}
	if got := len(list.AboveThreshold(0.5)); got != 2 {
		t.Errorf("AboveThreshold(0.5) returned %d", got)
	}
	if got := list.HighConfidence(0.7, 0.2); got == nil || got.Name != "a" {
		t.Errorf("HighConfidence should pick a, got %v", got)
	}
	if got := list.HighConfidence(0.7, 0.5); got != nil {
		t.Errorf("HighConfidence with large gap should be nil, got %v", got)
	}
	if got := (CandidateList{}).Best(); got != nil {
		t.Errorf("Best() on empty list = %v", got)
	}
}

func TestCalculateCombinedScore(t *testing.T) {
	if got := calculateCombinedScore(1.0, TypeIdentical); got != 1.0 {
		t.Errorf("perfect score = %f", got)
	}
	if got := calculateCombinedScore(0, TypeIncompatible); got != 0 {
		t.Errorf("zero score = %f", got)
	}
	if calculateCombinedScore(0.8, TypeConvertible) <= calculateCombinedScore(0.8, TypeNeedsTransform) {
		t.Error("convertible should outrank needs_transform at equal name score")
	}
}

func sortList(c CandidateList) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c.Less(j, j-1); j-- {
			c.Swap(j, j-1)
		}
	}
}
