// column_resolver.go
package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"
	"github.com/pivolan/survey_analyzer/domain/models"
)

// ResolverConfig holds the synonym sets used for name-based matching.
// The defaults cover common survey export naming; callers tune them per run.
type ResolverConfig struct {
	Synonyms map[models.CanonicalField][]string
	// SampleLimit caps how many rows the type-fallback branch inspects.
	SampleLimit int
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Synonyms: map[models.CanonicalField][]string{
			models.FieldProductID: {
				"product_id", "product", "product_name", "model", "phone_model",
				"item", "name", "device", "service", "option", "platform", "tool",
			},
			models.FieldBrand: {
				"brand", "manufacturer", "maker", "company", "vendor",
			},
			models.FieldTier: {
				"tier", "segment", "category", "class", "level",
			},
			models.FieldPopularity: {
				"popularity", "popular", "market_share", "share", "awareness",
			},
		},
		SampleLimit: 20,
	}
}

// resolveOrder is fixed so that a header claimed by an earlier field is out of
// the pool for later fields.
var resolveOrder = []models.CanonicalField{
	models.FieldProductID,
	models.FieldBrand,
	models.FieldTier,
	models.FieldPopularity,
}

// ResolutionError reports a required canonical field with no matching column.
type ResolutionError struct {
	Field   models.CanonicalField
	Headers []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no column resolves to required field %q, headers seen: %s",
		e.Field, strings.Join(e.Headers, ", "))
}

type ColumnResolver struct {
	cfg ResolverConfig
}

func NewColumnResolver(cfg ResolverConfig) *ColumnResolver {
	return &ColumnResolver{cfg: cfg}
}

// Resolve maps canonical schema fields to original header names. Match
// strategies run in priority order per field: exact synonym, synonym as
// substring, then a type fallback for product_id only (first predominantly
// textual column). Optional fields that match nothing are simply absent from
// the returned map.
func (r *ColumnResolver) Resolve(headers []string, sampleRows [][]string) (map[models.CanonicalField]string, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	claimed := make([]bool, len(headers))
	result := map[models.CanonicalField]string{}

	for _, field := range resolveOrder {
		idx := r.matchField(field, normalized, claimed)
		if idx < 0 && field == models.FieldProductID {
			idx = firstTextColumn(headers, sampleRows, claimed, r.cfg.SampleLimit)
		}
		if idx < 0 {
			if field == models.FieldProductID {
				return nil, &ResolutionError{Field: field, Headers: headers}
			}
			continue
		}
		claimed[idx] = true
		result[field] = headers[idx]
	}
	return result, nil
}

// matchField returns the leftmost unclaimed header index matching the field's
// synonyms, exact matches ranking strictly above substring matches.
func (r *ColumnResolver) matchField(field models.CanonicalField, normalized []string, claimed []bool) int {
	synonyms := r.cfg.Synonyms[field]
	for i, h := range normalized {
		if claimed[i] {
			continue
		}
		if go_utils.InArray(h, synonyms) {
			return i
		}
	}
	for i, h := range normalized {
		if claimed[i] {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}

// DimensionColumns returns the unclaimed headers whose sampled values are
// predominantly numeric, in original column order. These become the rating
// dimensions of the canonical schema.
func (r *ColumnResolver) DimensionColumns(headers []string, sampleRows [][]string, resolved map[models.CanonicalField]string) []string {
	used := map[string]bool{}
	for _, h := range resolved {
		used[h] = true
	}

	dimensions := []string{}
	for i, h := range headers {
		if used[h] {
			continue
		}
		if isNumericData(columnSample(sampleRows, i, r.cfg.SampleLimit)) {
			dimensions = append(dimensions, h)
		}
	}
	return dimensions
}

var headerSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader folds case, transliterates non-ASCII and collapses
// underscore/hyphen/space runs so "Phone-Model", "phone model" and
// "PHONE_MODEL" all compare equal.
func normalizeHeader(header string) string {
	h := unidecode.Unidecode(strings.TrimSpace(header))
	h = strings.ToLower(h)
	h = headerSeparators.ReplaceAllString(h, "_")
	return strings.Trim(h, "_")
}

// firstTextColumn is the type fallback for product_id: the leftmost unclaimed
// column whose sampled values are mostly non-numeric text.
func firstTextColumn(headers []string, sampleRows [][]string, claimed []bool, limit int) int {
	for i := range headers {
		if claimed[i] {
			continue
		}
		values := columnSample(sampleRows, i, limit)
		if len(values) == 0 {
			continue
		}
		if !isNumericData(values) {
			return i
		}
	}
	return -1
}

func columnSample(rows [][]string, column int, limit int) []string {
	values := []string{}
	for _, row := range rows {
		if len(values) >= limit && limit > 0 {
			break
		}
		if column >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[column]); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// isNumericData reports whether most of the values parse as numbers.
func isNumericData(values []string) bool {
	if len(values) == 0 {
		return false
	}
	numericCount := 0
	for _, value := range values {
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			numericCount++
		}
	}
	return float64(numericCount)/float64(len(values)) >= 0.8
}
