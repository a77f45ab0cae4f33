// handler.go
package main

import (
	"fmt"
	"log"

	"github.com/pivolan/survey_analyzer/config"
	"github.com/pivolan/survey_analyzer/domain/models"
)

// AnalysisResult holds everything one upload produces, kept in memory so chat
// commands can drill into it afterwards.
type AnalysisResult struct {
	Survey                 *SurveyData
	Rows                   []models.AggregatedProductRow
	Pairs                  []models.DimensionPair
	Correlations           []PairCorrelation
	PopularityCorrelations []PairCorrelation
	ArtifactDir            string
}

// handleFile runs the full pipeline over an uploaded table: unpack, parse,
// resolve columns, aggregate, sweep correlations and persist artifacts.
func handleFile(filePath string) (*AnalysisResult, error) {
	unpacked, err := unpackArchive(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot unpack upload: %w", err)
	}
	if unpacked != "" {
		filePath = unpacked
	}

	table, err := ParseTableFile(filePath)
	if err != nil {
		return nil, err
	}
	resolver := NewColumnResolver(DefaultResolverConfig())
	survey, err := TableToSurvey(table, resolver)
	if err != nil {
		return nil, err
	}
	return analyzeSurvey(survey)
}

func analyzeSurvey(survey *SurveyData) (*AnalysisResult, error) {
	limits := DefaultValidationLimits()
	if err := limits.ValidateDimensionCount(len(survey.DimensionColumns)); err != nil {
		return nil, err
	}
	if survey.RespondentLevel {
		if err := limits.ValidateRespondentCount(distinctRespondents(survey.Ratings)); err != nil {
			return nil, err
		}
	}

	rows := AggregateRatings(survey.Ratings, survey.Identities)
	dims := RowDimensions(rows)
	pairs := AllDimensionPairs(dims)

	correlations := make([]PairCorrelation, 0, len(pairs))
	for _, pair := range pairs {
		result, err := Correlate(rows, pair.A, pair.B)
		correlations = append(correlations, PairCorrelation{Pair: pair, Result: result, Err: err})
	}
	popularity := CorrelateAgainst(rows, dims, PopularityColumn)

	result := &AnalysisResult{
		Survey:                 survey,
		Rows:                   rows,
		Pairs:                  pairs,
		Correlations:           correlations,
		PopularityCorrelations: popularity,
	}

	artifacts := RunArtifacts{
		"aggregated.csv":      AggregatedTableCSV(rows),
		"ratings.csv":         RatingsCSV(survey.Ratings),
		"dimension_pairs.csv": DimensionPairsCSV(pairs),
		"correlations.csv":    CorrelationsCSV(correlations),
	}
	cfg := config.GetConfig()
	dir, err := SaveRunArtifacts(cfg.DataDir, artifacts)
	if err != nil {
		log.Printf("cannot save artifacts: %v", err)
	} else {
		result.ArtifactDir = dir
	}

	if cfg.DbDsn != "" {
		go exportToWarehouse(cfg.DbDsn, rows, survey.Ratings)
	}
	return result, nil
}

// handleGenerate builds a synthetic respondent panel over the roster of the
// current result and pushes it through the same analysis path.
func handleGenerate(survey *SurveyData, respondentCount int) (*AnalysisResult, error) {
	limits := DefaultValidationLimits()
	if err := limits.ValidateRespondentCount(respondentCount); err != nil {
		return nil, err
	}

	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	if err != nil {
		return nil, err
	}
	products := productsFromSurvey(survey)
	ratings, err := gen.GenerateParallel(products, respondentCount, 4)
	if err != nil {
		return nil, err
	}

	synthetic := &SurveyData{
		Fields:           survey.Fields,
		DimensionColumns: survey.DimensionColumns,
		Identities:       survey.Identities,
		Ratings:          ratings,
		RespondentLevel:  true,
	}
	return analyzeSurvey(synthetic)
}

// productsFromSurvey seeds generator true scores from the observed means so
// synthetic panels stay anchored to the uploaded data.
func productsFromSurvey(survey *SurveyData) []models.Product {
	rows := AggregateRatings(survey.Ratings, survey.Identities)
	byID := map[string]models.AggregatedProductRow{}
	for _, row := range rows {
		byID[row.ProductID] = row
	}

	products := make([]models.Product, 0, len(survey.Identities))
	for _, identity := range survey.Identities {
		scores := map[string]float64{}
		if row, ok := byID[identity.ProductID]; ok {
			for dim, v := range row.Dimensions {
				scores[dim] = v
			}
		}
		products = append(products, models.Product{Identity: identity, TrueScores: scores})
	}
	return products
}

func distinctRespondents(ratings []models.RespondentRating) int {
	seen := map[string]bool{}
	for _, r := range ratings {
		seen[r.RespondentID] = true
	}
	return len(seen)
}

func exportToWarehouse(dsn string, rows []models.AggregatedProductRow, ratings []models.RespondentRating) {
	wh, err := OpenWarehouse(dsn)
	if err != nil {
		log.Printf("warehouse export skipped: %v", err)
		return
	}
	if table, err := wh.ExportAggregated(rows); err != nil {
		log.Printf("warehouse export of means failed: %v", err)
	} else {
		log.Printf("means exported to %s", table)
	}
	if table, err := wh.ExportRatings(ratings); err != nil {
		log.Printf("warehouse export of ratings failed: %v", err)
	} else {
		log.Printf("ratings exported to %s", table)
	}
}
