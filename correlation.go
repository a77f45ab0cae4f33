// correlation.go
package main

import (
	"fmt"
	"math"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// PopularityColumn names the aggregated-table column correlations may target
// in addition to any rating dimension.
const PopularityColumn = "popularity"

// InsufficientDataError flags a correlation over fewer than three points.
// A coefficient from two points is always +-1 and is not reported.
type InsufficientDataError struct {
	DimensionA string
	DimensionB string
	SampleSize int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("correlation %s vs %s: only %d valid data points, need at least 3",
		e.DimensionA, e.DimensionB, e.SampleSize)
}

// UndefinedCorrelationError flags a zero-variance series: the coefficient is
// mathematically undefined and must not be reported as zero.
type UndefinedCorrelationError struct {
	DimensionA string
	DimensionB string
}

func (e *UndefinedCorrelationError) Error() string {
	return fmt.Sprintf("correlation %s vs %s is undefined: zero variance in input",
		e.DimensionA, e.DimensionB)
}

// Correlate computes the Pearson correlation between two columns of the
// aggregated table over the rows where both are present. The coefficient is
// not clamped; PValue is the two-tailed significance from the t statistic.
func Correlate(rows []models.AggregatedProductRow, dimension, against string) (models.CorrelationResult, error) {
	x := []float64{}
	y := []float64{}
	for _, row := range rows {
		xv, ok := columnValue(row, dimension)
		if !ok {
			continue
		}
		yv, ok := columnValue(row, against)
		if !ok {
			continue
		}
		x = append(x, xv)
		y = append(y, yv)
	}

	result := models.CorrelationResult{DimensionA: dimension, DimensionB: against, SampleSize: len(x)}
	if len(x) < 3 {
		return result, &InsufficientDataError{DimensionA: dimension, DimensionB: against, SampleSize: len(x)}
	}

	r, ok := pearson(x, y)
	if !ok || math.IsNaN(r) {
		return result, &UndefinedCorrelationError{DimensionA: dimension, DimensionB: against}
	}
	result.Coefficient = r
	result.PValue = pearsonPValue(r, len(x))
	return result, nil
}

// columnValue reads either a dimension mean or the popularity field.
func columnValue(row models.AggregatedProductRow, column string) (float64, bool) {
	if column == PopularityColumn {
		if row.Popularity == nil {
			return 0, false
		}
		return *row.Popularity, true
	}
	return row.Dimension(column)
}

// pearson returns the sample correlation coefficient, reporting ok=false when
// either series has zero variance.
func pearson(x, y []float64) (float64, bool) {
	n := float64(len(x))
	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denominator, true
}

// pearsonPValue is the two-tailed p of the t statistic with n-2 degrees of
// freedom, via the regularized incomplete beta function.
func pearsonPValue(r float64, n int) float64 {
	df := float64(n - 2)
	if math.Abs(r) >= 1 {
		return 0
	}
	t2 := r * r * df / (1 - r*r)
	return regIncBeta(df/2, 0.5, df/(df+t2))
}

// regIncBeta evaluates the regularized incomplete beta I_x(a, b) with the
// standard continued-fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lbeta := lgamma(a+b) - lgamma(a) - lgamma(b) + a*math.Log(x) + b*math.Log(1-x)
	front := math.Exp(lbeta)
	if x < (a+1)/(a+b+2) {
		return front * betacf(a, b, x) / a
	}
	return 1 - front*betacf(b, a, 1-x)/b
}

func betacf(a, b, x float64) float64 {
	const maxIterations = 200
	const epsilon = 3e-14
	const tiny = 1e-30

	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta
		if math.Abs(delta-1) < epsilon {
			break
		}
	}
	return h
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// InterpretCorrelation buckets a coefficient the way the study reports it.
func InterpretCorrelation(coefficient float64) string {
	abs := math.Abs(coefficient)
	switch {
	case abs >= 0.7:
		return "Very Strong"
	case abs >= 0.5:
		return "Strong"
	case abs >= 0.3:
		return "Moderate"
	case abs >= 0.1:
		return "Weak"
	default:
		return "Very Weak"
	}
}

// PairCorrelation is one entry of a correlation sweep; Err carries the
// per-pair statistical edge case ("not computable") without failing the sweep.
type PairCorrelation struct {
	Pair   models.DimensionPair
	Result models.CorrelationResult
	Err    error
}

// CorrelateAgainst sweeps every dimension against one target column,
// typically popularity. Statistical edge cases are isolated per dimension.
func CorrelateAgainst(rows []models.AggregatedProductRow, dimensions []string, against string) []PairCorrelation {
	results := make([]PairCorrelation, 0, len(dimensions))
	for _, dim := range dimensions {
		result, err := Correlate(rows, dim, against)
		results = append(results, PairCorrelation{
			Pair:   models.DimensionPair{A: dim, B: against},
			Result: result,
			Err:    err,
		})
	}
	return results
}

// HiddenGems lists products scoring above the dimension mean while sitting
// below the popularity mean.
func HiddenGems(rows []models.AggregatedProductRow, dimension string) []string {
	dimSum, popSum := 0.0, 0.0
	count := 0
	for _, row := range rows {
		d, ok := row.Dimension(dimension)
		if !ok || row.Popularity == nil {
			continue
		}
		dimSum += d
		popSum += *row.Popularity
		count++
	}
	if count == 0 {
		return nil
	}
	dimMean, popMean := dimSum/float64(count), popSum/float64(count)

	gems := []string{}
	for _, row := range rows {
		d, ok := row.Dimension(dimension)
		if !ok || row.Popularity == nil {
			continue
		}
		if d > dimMean && *row.Popularity < popMean {
			gems = append(gems, row.ProductID)
		}
	}
	return gems
}
