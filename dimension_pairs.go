// dimension_pairs.go
package main

import (
	"sort"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// AllDimensionPairs enumerates every unordered pair of dimensions: C(D,2)
// pairs, none for fewer than two dimensions. Dimensions are sorted
// lexicographically first and pairs enumerated in nested-loop order over the
// sorted list, so the output is stable across runs and diffable in fixtures.
func AllDimensionPairs(dimensions []string) []models.DimensionPair {
	sorted := make([]string, len(dimensions))
	copy(sorted, dimensions)
	sort.Strings(sorted)

	pairs := []models.DimensionPair{}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pairs = append(pairs, models.DimensionPair{A: sorted[i], B: sorted[j]})
		}
	}
	return pairs
}
