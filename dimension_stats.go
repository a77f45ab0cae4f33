// dimension_stats.go
package main

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// DimensionStats summarizes the respondent-level score distribution of one
// dimension across all products: quantiles, IQR and outliers for the audit
// report and the per-column details command.
func DimensionStats(ratings []models.RespondentRating, dimension string) *models.NumberStats {
	scores := []float64{}
	for _, r := range ratings {
		if r.Dimension == dimension {
			scores = append(scores, r.Score)
		}
	}
	return AnalyzeNumbers(scores)
}

// ExtractNumbers pulls numbers out of free text, treating commas and
// newlines as separators.
func ExtractNumbers(text string) []float64 {
	text = strings.ReplaceAll(text, ",", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	re := regexp.MustCompile(`-?\d*\.?\d+`)
	matches := re.FindAllString(text, -1)

	numbers := make([]float64, 0, len(matches))
	for _, match := range matches {
		if num, err := strconv.ParseFloat(match, 64); err == nil {
			numbers = append(numbers, num)
		}
	}
	return numbers
}

// calculateQuantile interpolates the p-quantile of a sorted slice.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)

	if floor == ceil {
		return sorted[int(pos)]
	}

	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	fraction := pos - floor

	return lower + fraction*(upper-lower)
}

// findOutliers applies the 1.5*IQR fence.
func findOutliers(numbers []float64, q1 float64, q3 float64, iqr float64) []float64 {
	outliers := make([]float64, 0)
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	for _, num := range numbers {
		if num < lowerBound || num > upperBound {
			outliers = append(outliers, num)
		}
	}
	return outliers
}

// AnalyzeNumbers computes summary statistics for a slice of numbers.
func AnalyzeNumbers(numbers []float64) *models.NumberStats {
	if len(numbers) == 0 {
		return nil
	}

	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	sum := 0.0
	for _, num := range numbers {
		sum += num
	}
	avg := sum / float64(len(numbers))

	var median float64
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	} else {
		median = sorted[len(sorted)/2]
	}

	quantiles := make(map[float64]float64)
	quantileList := []float64{0.01, 0.025, 0.1, 0.25, 0.75, 0.9, 0.975, 0.99}
	for _, p := range quantileList {
		quantiles[p] = roundToTwo(calculateQuantile(sorted, p))
	}

	iqr := quantiles[0.75] - quantiles[0.25]
	outliers := findOutliers(numbers, quantiles[0.25], quantiles[0.75], iqr)

	return &models.NumberStats{
		Average:   roundToTwo(avg),
		Median:    roundToTwo(median),
		Min:       roundToTwo(sorted[0]),
		Max:       roundToTwo(sorted[len(sorted)-1]),
		Count:     len(numbers),
		Quantiles: quantiles,
		IQR:       roundToTwo(iqr),
		Outliers:  outliers,
	}
}

// FormatStats renders a distribution summary for chat output.
func FormatStats(stats *models.NumberStats) string {
	if stats == nil {
		return "No numeric scores found"
	}

	outlierStr := ""
	if len(stats.Outliers) > 0 {
		outlierStr = fmt.Sprintf("\nOutliers: %.2f", stats.Outliers)
	}

	return fmt.Sprintf(`Score distribution:

Count: %d
Mean: %.2f
Median: %.2f
Min: %.2f
Max: %.2f

Tail quantiles:
1st percentile: %.2f
2.5th percentile: %.2f
97.5th percentile: %.2f
99th percentile: %.2f

Central quantiles:
10th percentile: %.2f
25th percentile (Q1): %.2f
75th percentile (Q3): %.2f
90th percentile: %.2f

Interquartile range (IQR): %.2f%s`,
		stats.Count,
		stats.Average,
		stats.Median,
		stats.Min,
		stats.Max,
		stats.Quantiles[0.01],
		stats.Quantiles[0.025],
		stats.Quantiles[0.975],
		stats.Quantiles[0.99],
		stats.Quantiles[0.1],
		stats.Quantiles[0.25],
		stats.Quantiles[0.75],
		stats.Quantiles[0.9],
		stats.IQR,
		outlierStr)
}

// roundToTwo rounds to two decimal places.
func roundToTwo(num float64) float64 {
	return math.Round(num*100) / 100
}
