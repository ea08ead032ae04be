package match

import (
	"reflect"
	"sort"

	"beanmapper/internal/analyze"
)

// Candidate is a source field considered for a target field.
type Candidate struct {
	Name string

	NameScore  float64                 // NameSimilarity of the names (0-1)
	TypeCompat TypeCompatibilityResult // Zero when no types were compared

	// Combined score for ranking (higher is better)
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Confidence thresholds used when turning candidates into suggestions.
const (
	DefaultMinScore = 0.5
	DefaultMinGap   = 0.15
	DefaultLimit    = 3
)

// RankNames ranks plain names against target. Only name similarity counts.
func RankNames(target string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))
	for _, name := range names {
		score := NameSimilarity(name, target)
		candidates = append(candidates, Candidate{
			Name:          name,
			NameScore:     score,
			CombinedScore: score,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// RankFields ranks the exported source fields against a target field name and type.
func RankFields(target string, targetType reflect.Type, sources []analyze.FieldInfo) CandidateList {
	var candidates CandidateList

	for i := range sources {
		field := &sources[i]
		if !field.Exported {
			continue
		}

		var compat TypeCompatibilityResult
		if field.Type != nil && field.Type.Type != nil && targetType != nil {
			compat = ScorePointerCompatibility(field.Type.Type, targetType)
		}

		score := NameSimilarity(field.Name, target)
		candidates = append(candidates, Candidate{
			Name:          field.Name,
			NameScore:     score,
			TypeCompat:    compat,
			CombinedScore: calculateCombinedScore(score, compat.Compatibility),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit names close to target, best first.
func Suggest(target string, names []string, limit int) []string {
	ranked := RankNames(target, names).AboveThreshold(DefaultMinScore).Top(limit)

	out := make([]string, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Name)
	}

	return out
}

// calculateCombinedScore computes a combined score from name similarity and type compatibility.
// Weights:
//   - Name similarity: 60% (0.0-0.6)
//   - Type compatibility: 40% (0.0-0.4)
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	var typeScore float64
	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less sorts by combined score descending, then by name.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// HighConfidence returns the best candidate if it clears minScore and leads the
// runner-up by at least minGap.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 {
		return nil
	}

	best := &c[0]
	if best.CombinedScore < minScore {
		return nil
	}

	if len(c) > 1 && c[0].CombinedScore-c[1].CombinedScore < minGap {
		return nil
	}

	return best
}
