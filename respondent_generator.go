// respondent_generator.go
package main

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/pivolan/go_utils"
	"github.com/pivolan/survey_analyzer/domain/models"
)

// ScaleConfig is the inclusive rating scale respondent scores are clamped to.
type ScaleConfig struct {
	Min float64
	Max float64
}

// BiasRange is a uniform additive offset sampled once per respondent.
type BiasRange struct {
	Min float64
	Max float64
}

// BiasRule shifts one dimension's perceived score for respondents whose
// demographic attribute takes one of the listed values. The rule table is the
// single tunable surface for synthetic-data realism.
type BiasRule struct {
	Attribute string
	Values    []string
	Dimension string
	Offset    BiasRange
}

// DemographicOptions are the value pools respondent profiles are sampled from.
type DemographicOptions struct {
	Countries     []string
	AgeGroups     []string
	Occupations   []string
	IncomeLevels  []string
	TechSavviness []string
	UsagePatterns []string
	Brands        []string
}

type GeneratorConfig struct {
	Scale        ScaleConfig
	NoiseStdDev  float64
	Seed         int64
	Demographics DemographicOptions
	BiasTable    []BiasRule
	// BrandLoyalty is added to every dimension of products whose brand
	// matches the respondent's current brand.
	BrandLoyalty BiasRange
}

// DefaultGeneratorConfig mirrors the bias magnitudes the smartphone study was
// calibrated with. The dimension names in the rule table only take effect when
// the roster actually carries those dimensions.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Scale:       ScaleConfig{Min: 1, Max: 10},
		NoiseStdDev: 0.8,
		Seed:        42,
		Demographics: DemographicOptions{
			Countries: []string{"USA", "UK", "Canada", "Australia", "New Zealand", "South Africa"},
			AgeGroups: []string{"18-25", "26-35", "36-45", "46-55", "56-65", "65+"},
			Occupations: []string{
				"Student", "Software Developer", "Teacher", "Marketing Manager",
				"Sales Representative", "Nurse", "Engineer", "Designer", "Accountant",
				"Consultant", "Retail Worker", "Business Owner", "Writer", "Analyst",
				"Doctor", "Lawyer", "Architect", "Chef", "Artist", "Photographer",
			},
			IncomeLevels:  []string{"Low", "Lower-Middle", "Middle", "Upper-Middle", "High"},
			TechSavviness: []string{"Low", "Medium", "High", "Expert"},
			UsagePatterns: []string{"Light", "Moderate", "Heavy", "Power User"},
			Brands:        []string{"Apple", "Samsung", "Google", "OnePlus", "Xiaomi", "Other"},
		},
		BiasTable: []BiasRule{
			{Attribute: "age_group", Values: []string{"18-25", "26-35"}, Dimension: "Design_Appeal", Offset: BiasRange{-0.1, 0.4}},
			{Attribute: "age_group", Values: []string{"18-25", "26-35"}, Dimension: "Camera_Quality", Offset: BiasRange{0, 0.3}},
			{Attribute: "age_group", Values: []string{"56-65", "65+"}, Dimension: "Battery_Life", Offset: BiasRange{0, 0.3}},
			{Attribute: "age_group", Values: []string{"56-65", "65+"}, Dimension: "Price_Value", Offset: BiasRange{0.1, 0.4}},
			{Attribute: "tech_savviness", Values: []string{"Expert"}, Dimension: "Performance", Offset: BiasRange{-0.3, 0.2}},
			{Attribute: "tech_savviness", Values: []string{"Expert"}, Dimension: "Feature_Richness", Offset: BiasRange{0, 0.3}},
			{Attribute: "tech_savviness", Values: []string{"Low"}, Dimension: "Performance", Offset: BiasRange{-0.2, 0}},
			{Attribute: "tech_savviness", Values: []string{"Low"}, Dimension: "Price_Value", Offset: BiasRange{0, 0.3}},
			{Attribute: "income_level", Values: []string{"Low", "Lower-Middle"}, Dimension: "Price_Value", Offset: BiasRange{0.2, 0.5}},
			{Attribute: "income_level", Values: []string{"Low", "Lower-Middle"}, Dimension: "Build_Quality", Offset: BiasRange{-0.2, 0}},
			{Attribute: "income_level", Values: []string{"High"}, Dimension: "Build_Quality", Offset: BiasRange{0, 0.3}},
			{Attribute: "income_level", Values: []string{"High"}, Dimension: "Design_Appeal", Offset: BiasRange{0, 0.2}},
			{Attribute: "usage_pattern", Values: []string{"Heavy", "Power User"}, Dimension: "Performance", Offset: BiasRange{0, 0.2}},
			{Attribute: "usage_pattern", Values: []string{"Heavy", "Power User"}, Dimension: "Battery_Life", Offset: BiasRange{0, 0.3}},
		},
		BrandLoyalty: BiasRange{0, 0.2},
	}
}

// InvalidScaleError reports a rating scale with min >= max.
type InvalidScaleError struct {
	Min float64
	Max float64
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("invalid rating scale: min %.2f >= max %.2f", e.Min, e.Max)
}

// EmptyRosterError reports a generate call with no products.
type EmptyRosterError struct{}

func (e *EmptyRosterError) Error() string {
	return "product roster is empty, nothing to generate"
}

type BiasedRespondentGenerator struct {
	cfg GeneratorConfig
}

func NewBiasedRespondentGenerator(cfg GeneratorConfig) (*BiasedRespondentGenerator, error) {
	if cfg.Scale.Min >= cfg.Scale.Max {
		return nil, &InvalidScaleError{Min: cfg.Scale.Min, Max: cfg.Scale.Max}
	}
	return &BiasedRespondentGenerator{cfg: cfg}, nil
}

// Generate synthesizes respondentCount respondents rating every product on
// every roster dimension. Each respondent consumes an independent random
// stream seeded from Seed plus the respondent index, so output is identical
// for a fixed seed no matter how the work is sharded.
func (g *BiasedRespondentGenerator) Generate(products []models.Product, respondentCount int) ([]models.RespondentRating, error) {
	if len(products) == 0 {
		return nil, &EmptyRosterError{}
	}

	ratings := []models.RespondentRating{}
	for i := 0; i < respondentCount; i++ {
		ratings = append(ratings, g.generateRespondent(i, products)...)
	}
	return ratings, nil
}

// GenerateParallel shards respondents across workers and merges the per-shard
// output back in respondent order. Identical to Generate for any worker count.
func (g *BiasedRespondentGenerator) GenerateParallel(products []models.Product, respondentCount, workers int) ([]models.RespondentRating, error) {
	if len(products) == 0 {
		return nil, &EmptyRosterError{}
	}
	if workers < 1 {
		workers = 1
	}

	perRespondent := make([][]models.RespondentRating, respondentCount)
	jobs := make(chan int)
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perRespondent[i] = g.generateRespondent(i, products)
			}
		}()
	}
	for i := 0; i < respondentCount; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	ratings := []models.RespondentRating{}
	for _, part := range perRespondent {
		ratings = append(ratings, part...)
	}
	return ratings, nil
}

// generateRespondent samples one profile and rates the whole roster with it.
// Draw order is fixed: profile fields, bias table, then gaussian noise per
// (product, sorted dimension) cell.
func (g *BiasedRespondentGenerator) generateRespondent(index int, products []models.Product) []models.RespondentRating {
	rng := rand.New(rand.NewSource(g.cfg.Seed + int64(index)))
	profile := g.sampleProfile(index, rng)
	biases := g.sampleBiases(profile, rng)

	ratings := []models.RespondentRating{}
	for _, product := range products {
		loyal := profile.CurrentBrand != "" && profile.CurrentBrand == product.Identity.Brand
		for _, dimension := range sortedKeys(product.TrueScores) {
			score := product.TrueScores[dimension] + biases[dimension]
			if loyal {
				score += uniformIn(rng, g.cfg.BrandLoyalty)
			}
			score += rng.NormFloat64() * g.cfg.NoiseStdDev
			ratings = append(ratings, models.RespondentRating{
				RespondentID: profile.RespondentID,
				ProductID:    product.Identity.ProductID,
				Dimension:    dimension,
				Score:        clamp(score, g.cfg.Scale.Min, g.cfg.Scale.Max),
			})
		}
	}
	return ratings
}

func (g *BiasedRespondentGenerator) sampleProfile(index int, rng *rand.Rand) models.RespondentProfile {
	d := g.cfg.Demographics
	return models.RespondentProfile{
		RespondentID:  fmt.Sprintf("RESP_%d", 2000+index),
		Country:       pick(rng, d.Countries),
		AgeGroup:      pick(rng, d.AgeGroups),
		Occupation:    pick(rng, d.Occupations),
		IncomeLevel:   pick(rng, d.IncomeLevels),
		TechSavviness: pick(rng, d.TechSavviness),
		UsagePattern:  pick(rng, d.UsagePatterns),
		CurrentBrand:  pick(rng, d.Brands),
	}
}

// sampleBiases walks the rule table in order and accumulates one additive
// offset per dimension for this respondent.
func (g *BiasedRespondentGenerator) sampleBiases(profile models.RespondentProfile, rng *rand.Rand) map[string]float64 {
	biases := map[string]float64{}
	for _, rule := range g.cfg.BiasTable {
		if go_utils.InArray(profileAttribute(profile, rule.Attribute), rule.Values) {
			biases[rule.Dimension] += uniformIn(rng, rule.Offset)
		}
	}
	return biases
}

func profileAttribute(p models.RespondentProfile, name string) string {
	switch name {
	case "country":
		return p.Country
	case "age_group":
		return p.AgeGroup
	case "occupation":
		return p.Occupation
	case "income_level":
		return p.IncomeLevel
	case "tech_savviness":
		return p.TechSavviness
	case "usage_pattern":
		return p.UsagePattern
	case "current_brand":
		return p.CurrentBrand
	}
	return ""
}

func pick(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.Intn(len(options))]
}

func uniformIn(rng *rand.Rand, r BiasRange) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
