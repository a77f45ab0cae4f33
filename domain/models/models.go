package models

// CanonicalField is one of the fixed schema fields resolved from raw headers.
type CanonicalField string

const (
	FieldProductID  CanonicalField = "product_id"
	FieldBrand      CanonicalField = "brand"
	FieldTier       CanonicalField = "tier"
	FieldPopularity CanonicalField = "popularity"
)

// Table is a parsed delimited input: header row plus raw string rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ProductIdentity carries the non-dimension fields of one product.
// Popularity is nil when the source data has no popularity column.
type ProductIdentity struct {
	ProductID  string
	Brand      string
	Tier       string
	Popularity *float64
}

// Product is one roster entry for synthetic generation: the "true" position
// that generated respondents rate with bias and noise on top.
type Product struct {
	Identity   ProductIdentity
	TrueScores map[string]float64
}

// RespondentProfile holds demographic attributes used only as bias inputs
// during generation; profiles are not persisted.
type RespondentProfile struct {
	RespondentID  string
	Country       string
	AgeGroup      string
	Occupation    string
	IncomeLevel   string
	TechSavviness string
	UsagePattern  string
	CurrentBrand  string
}

// RespondentRating is a single (respondent, product, dimension) score.
type RespondentRating struct {
	RespondentID string
	ProductID    string
	Dimension    string
	Score        float64
}

// AggregatedProductRow is the stable per-product artifact downstream analytics
// consume. A dimension absent from Dimensions is missing, not zero.
type AggregatedProductRow struct {
	ProductID  string
	Brand      string
	Tier       string
	Popularity *float64
	Dimensions map[string]float64
}

// Dimension returns the mean score for a dimension and whether it is present.
func (r AggregatedProductRow) Dimension(name string) (float64, bool) {
	v, ok := r.Dimensions[name]
	return v, ok
}

// DimensionPair is an unordered pair of dimension names, stored with A < B.
type DimensionPair struct {
	A string
	B string
}

// CorrelationResult is a derived Pearson correlation between two columns of
// the aggregated table.
type CorrelationResult struct {
	DimensionA  string
	DimensionB  string
	Coefficient float64
	PValue      float64
	SampleSize  int
}

// QuadrantLabel is a strategic classification relative to the observed
// midpoints of a dimension pair.
type QuadrantLabel string

const (
	QuadrantLeader     QuadrantLabel = "LEADER"
	QuadrantHiddenGem  QuadrantLabel = "HIDDEN_GEM"
	QuadrantBrandPower QuadrantLabel = "BRAND_POWER"
	QuadrantLaggard    QuadrantLabel = "LAGGARD"
)

// NumberStats summarizes the distribution of one dimension's scores.
type NumberStats struct {
	Average   float64
	Median    float64
	Min       float64
	Max       float64
	Count     int
	Quantiles map[float64]float64
	IQR       float64
	Outliers  []float64
}
