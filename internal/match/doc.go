// Package match provides name normalization, Levenshtein distance, reflect-based
// type compatibility scoring, and candidate ranking.
//
// The mapping engine uses EqualIdent for case-insensitive wildcard field
// pairing and ScoreTypeCompatibility / IsSuperType behind its type-check
// cache. Loaders and validators use Suggest to produce "did you mean"
// hints for unknown type and field names; RankFields puts the field that also
// fits the wanted type first.
package match
