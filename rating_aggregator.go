// rating_aggregator.go
package main

import (
	"sort"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// AggregateRatings reduces respondent-level ratings to one row per product:
// the arithmetic mean per dimension plus the carried-through identity fields.
// Output row order follows the identity roster, not rating insertion order. A
// product with no ratings for a dimension gets no entry for it (missing, not
// zero), and a product with no ratings at all still yields a row so callers
// can detect silently dropped products.
func AggregateRatings(ratings []models.RespondentRating, identity []models.ProductIdentity) []models.AggregatedProductRow {
	type acc struct {
		sum   float64
		count int
	}
	sums := map[string]map[string]*acc{}
	known := map[string]bool{}
	for _, id := range identity {
		known[id.ProductID] = true
	}

	for _, rating := range ratings {
		if !known[rating.ProductID] {
			continue
		}
		byDim, ok := sums[rating.ProductID]
		if !ok {
			byDim = map[string]*acc{}
			sums[rating.ProductID] = byDim
		}
		a, ok := byDim[rating.Dimension]
		if !ok {
			a = &acc{}
			byDim[rating.Dimension] = a
		}
		a.sum += rating.Score
		a.count++
	}

	rows := make([]models.AggregatedProductRow, 0, len(identity))
	for _, id := range identity {
		row := models.AggregatedProductRow{
			ProductID:  id.ProductID,
			Brand:      id.Brand,
			Tier:       id.Tier,
			Popularity: id.Popularity,
			Dimensions: map[string]float64{},
		}
		for dim, a := range sums[id.ProductID] {
			row.Dimensions[dim] = a.sum / float64(a.count)
		}
		rows = append(rows, row)
	}
	return rows
}

// RatingDimensions returns the sorted set of dimension names seen in ratings.
func RatingDimensions(ratings []models.RespondentRating) []string {
	seen := map[string]bool{}
	for _, r := range ratings {
		seen[r.Dimension] = true
	}
	dims := make([]string, 0, len(seen))
	for d := range seen {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}

// RowDimensions returns the sorted union of dimension names across rows.
func RowDimensions(rows []models.AggregatedProductRow) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for d := range row.Dimensions {
			seen[d] = true
		}
	}
	dims := make([]string, 0, len(seen))
	for d := range seen {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}
