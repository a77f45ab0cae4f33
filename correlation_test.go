package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func rowsWithDims(dims ...map[string]float64) []models.AggregatedProductRow {
	rows := make([]models.AggregatedProductRow, 0, len(dims))
	for i, d := range dims {
		rows = append(rows, models.AggregatedProductRow{
			ProductID:  string(rune('A' + i)),
			Dimensions: d,
		})
	}
	return rows
}

func TestCorrelatePerfectPositive(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Battery": 2},
		map[string]float64{"Camera": 2, "Battery": 4},
		map[string]float64{"Camera": 3, "Battery": 6},
		map[string]float64{"Camera": 4, "Battery": 8},
	)
	result, err := Correlate(rows, "Camera", "Battery")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, result.Coefficient, 1e-12)
	assert.Equal(t, 4, result.SampleSize)
	assert.InDelta(t, 0.0, result.PValue, 1e-9)
}

func TestCorrelatePerfectNegative(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Battery": 9},
		map[string]float64{"Camera": 2, "Battery": 7},
		map[string]float64{"Camera": 3, "Battery": 5},
	)
	result, err := Correlate(rows, "Camera", "Battery")
	assert.NoError(t, err)
	assert.InDelta(t, -1.0, result.Coefficient, 1e-12)
}

func TestCorrelateTwoPointsInsufficient(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Battery": 2},
		map[string]float64{"Camera": 2, "Battery": 4},
	)
	result, err := Correlate(rows, "Camera", "Battery")
	insufficient, ok := err.(*InsufficientDataError)
	assert.True(t, ok, "expected *InsufficientDataError, got %T", err)
	assert.Equal(t, 2, insufficient.SampleSize)
	assert.Equal(t, 2, result.SampleSize)
}

func TestCorrelateThreePointsComputes(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Battery": 2},
		map[string]float64{"Camera": 2, "Battery": 3},
		map[string]float64{"Camera": 3, "Battery": 7},
	)
	_, err := Correlate(rows, "Camera", "Battery")
	assert.NoError(t, err, "three valid points are enough")
}

func TestCorrelateZeroVarianceUndefined(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 5, "Battery": 2},
		map[string]float64{"Camera": 5, "Battery": 4},
		map[string]float64{"Camera": 5, "Battery": 6},
	)
	_, err := Correlate(rows, "Camera", "Battery")
	_, ok := err.(*UndefinedCorrelationError)
	assert.True(t, ok, "expected *UndefinedCorrelationError, got %T", err)
}

func TestCorrelateSkipsRowsWithMissingValues(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Battery": 2},
		map[string]float64{"Camera": 2}, // Battery missing, row skipped
		map[string]float64{"Camera": 3, "Battery": 6},
		map[string]float64{"Camera": 4, "Battery": 8},
	)
	result, err := Correlate(rows, "Camera", "Battery")
	assert.NoError(t, err)
	assert.Equal(t, 3, result.SampleSize)
}

func TestCorrelateAgainstPopularity(t *testing.T) {
	pops := []float64{20, 50, 80, 95}
	rows := rowsWithDims(
		map[string]float64{"Camera": 3},
		map[string]float64{"Camera": 5},
		map[string]float64{"Camera": 7},
		map[string]float64{"Camera": 9},
	)
	for i := range rows {
		rows[i].Popularity = &pops[i]
	}
	result, err := Correlate(rows, "Camera", PopularityColumn)
	assert.NoError(t, err)
	assert.True(t, result.Coefficient > 0.9)
}

func TestCorrelateAgainstSweepKeepsFailedPairs(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"Camera": 1, "Flat": 5},
		map[string]float64{"Camera": 2, "Flat": 5},
		map[string]float64{"Camera": 3, "Flat": 5},
	)
	pop := []float64{10, 20, 30}
	for i := range rows {
		rows[i].Popularity = &pop[i]
	}

	results := CorrelateAgainst(rows, []string{"Camera", "Flat"}, PopularityColumn)
	assert.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err, "zero-variance pair stays in the sweep with its error")
}

func TestPearsonPValueSignificance(t *testing.T) {
	// weak correlation over few points should not look significant
	rows := rowsWithDims(
		map[string]float64{"A": 1, "B": 3},
		map[string]float64{"A": 2, "B": 1},
		map[string]float64{"A": 3, "B": 4},
		map[string]float64{"A": 4, "B": 2},
		map[string]float64{"A": 5, "B": 5},
	)
	result, err := Correlate(rows, "A", "B")
	assert.NoError(t, err)
	assert.True(t, result.PValue > 0.05, "p-value %v should exceed 0.05", result.PValue)
	assert.True(t, result.PValue <= 1)
}

func TestInterpretCorrelation(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, "Very Strong"},
		{-0.8, "Very Strong"},
		{0.6, "Strong"},
		{-0.35, "Moderate"},
		{0.15, "Weak"},
		{0.05, "Very Weak"},
		{0, "Very Weak"},
	}
	for _, tt := range tests {
		if got := InterpretCorrelation(tt.r); got != tt.want {
			t.Errorf("InterpretCorrelation(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestHiddenGems(t *testing.T) {
	pops := []float64{90, 30, 40, 85}
	rows := rowsWithDims(
		map[string]float64{"Camera": 9},
		map[string]float64{"Camera": 8}, // above mean camera, below mean popularity
		map[string]float64{"Camera": 3},
		map[string]float64{"Camera": 4},
	)
	for i := range rows {
		rows[i].Popularity = &pops[i]
	}

	gems := HiddenGems(rows, "Camera")
	assert.Equal(t, []string{"B"}, gems)
}

func TestPearsonSymmetry(t *testing.T) {
	rows := rowsWithDims(
		map[string]float64{"A": 1, "B": 5},
		map[string]float64{"A": 4, "B": 2},
		map[string]float64{"A": 6, "B": 9},
		map[string]float64{"A": 8, "B": 4},
	)
	ab, err := Correlate(rows, "A", "B")
	assert.NoError(t, err)
	ba, err := Correlate(rows, "B", "A")
	assert.NoError(t, err)
	assert.True(t, math.Abs(ab.Coefficient-ba.Coefficient) < 1e-12)
}
