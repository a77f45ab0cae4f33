package main

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func testRoster() []models.Product {
	pop1, pop2 := 85.0, 60.0
	return []models.Product{
		{
			Identity:   models.ProductIdentity{ProductID: "iPhone 15", Brand: "Apple", Tier: "Premium", Popularity: &pop1},
			TrueScores: map[string]float64{"Camera_Quality": 9, "Battery_Life": 7, "Price_Value": 5},
		},
		{
			Identity:   models.ProductIdentity{ProductID: "Pixel 8", Brand: "Google", Tier: "Premium", Popularity: &pop2},
			TrueScores: map[string]float64{"Camera_Quality": 9, "Battery_Life": 8, "Price_Value": 7},
		},
	}
}

func TestGenerateDeterministicForFixedSeed(t *testing.T) {
	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	assert.NoError(t, err)

	first, err := gen.Generate(testRoster(), 50)
	assert.NoError(t, err)
	second, err := gen.Generate(testRoster(), 50)
	assert.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs with the same seed must produce identical ratings")
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	assert.NoError(t, err)

	sequential, err := gen.Generate(testRoster(), 40)
	assert.NoError(t, err)

	for _, workers := range []int{1, 3, 8} {
		parallel, err := gen.GenerateParallel(testRoster(), 40, workers)
		assert.NoError(t, err)
		if !reflect.DeepEqual(sequential, parallel) {
			t.Fatalf("parallel output with %d workers differs from sequential", workers)
		}
	}
}

func TestGenerateScoresStayOnScale(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.NoiseStdDev = 5 // force frequent clamping
	gen, err := NewBiasedRespondentGenerator(cfg)
	assert.NoError(t, err)

	ratings, err := gen.Generate(testRoster(), 100)
	assert.NoError(t, err)
	for _, r := range ratings {
		if r.Score < cfg.Scale.Min || r.Score > cfg.Scale.Max {
			t.Fatalf("score %v outside scale [%v, %v]", r.Score, cfg.Scale.Min, cfg.Scale.Max)
		}
	}
}

func TestGenerateRatingShape(t *testing.T) {
	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	assert.NoError(t, err)

	ratings, err := gen.Generate(testRoster(), 10)
	assert.NoError(t, err)
	// every respondent rates every product on every dimension
	assert.Len(t, ratings, 10*2*3)
	assert.Equal(t, "RESP_2000", ratings[0].RespondentID)
	// dimensions iterate in sorted order inside one product
	assert.Equal(t, "Battery_Life", ratings[0].Dimension)
	assert.Equal(t, "Camera_Quality", ratings[1].Dimension)
	assert.Equal(t, "Price_Value", ratings[2].Dimension)
}

func TestNewGeneratorRejectsInvalidScale(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Scale = ScaleConfig{Min: 10, Max: 1}
	_, err := NewBiasedRespondentGenerator(cfg)
	assert.Error(t, err)
	_, ok := err.(*InvalidScaleError)
	assert.True(t, ok, "expected *InvalidScaleError, got %T", err)
}

func TestGenerateEmptyRoster(t *testing.T) {
	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	assert.NoError(t, err)
	_, err = gen.Generate(nil, 10)
	_, ok := err.(*EmptyRosterError)
	assert.True(t, ok, "expected *EmptyRosterError, got %T", err)
}

func TestSampleBiasesOnlyMatchingRules(t *testing.T) {
	gen, err := NewBiasedRespondentGenerator(DefaultGeneratorConfig())
	assert.NoError(t, err)

	profile := models.RespondentProfile{
		RespondentID:  "RESP_1",
		AgeGroup:      "18-25",
		IncomeLevel:   "Middle",
		TechSavviness: "Medium",
		UsagePattern:  "Light",
	}
	biases := gen.sampleBiases(profile, rand.New(rand.NewSource(1)))
	// only the two 18-25 rules match this profile
	assert.Contains(t, biases, "Design_Appeal")
	assert.Contains(t, biases, "Camera_Quality")
	assert.NotContains(t, biases, "Battery_Life")
	assert.NotContains(t, biases, "Performance")
}
