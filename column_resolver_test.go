package main

import (
	"reflect"
	"testing"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func TestResolveSmartphoneSurveyHeaders(t *testing.T) {
	headers := []string{"model", "brand", "tier", "popularity", "Camera", "Battery"}
	rows := [][]string{
		{"iPhone 15", "Apple", "Premium", "85", "9", "7"},
		{"Galaxy S24", "Samsung", "Premium", "80", "8", "8"},
	}

	resolver := NewColumnResolver(DefaultResolverConfig())
	resolved, err := resolver.Resolve(headers, rows)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := map[models.CanonicalField]string{
		models.FieldProductID:  "model",
		models.FieldBrand:      "brand",
		models.FieldTier:       "tier",
		models.FieldPopularity: "popularity",
	}
	if !reflect.DeepEqual(resolved, want) {
		t.Errorf("Resolve() = %v, want %v", resolved, want)
	}

	dims := resolver.DimensionColumns(headers, rows, resolved)
	if !reflect.DeepEqual(dims, []string{"Camera", "Battery"}) {
		t.Errorf("DimensionColumns() = %v, want [Camera Battery]", dims)
	}
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	// "brand_name" contains the synonym "brand" as substring but "brand"
	// matches exactly; the exact match must win even listed later.
	headers := []string{"brand_name", "brand", "model"}
	rows := [][]string{{"premium line", "Apple", "iPhone 15"}}

	resolver := NewColumnResolver(DefaultResolverConfig())
	resolved, err := resolver.Resolve(headers, rows)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved[models.FieldBrand] != "brand" {
		t.Errorf("brand resolved to %q, want exact match %q", resolved[models.FieldBrand], "brand")
	}
}

func TestResolveTypeFallbackForProductID(t *testing.T) {
	// No header matches a product synonym; the first text column is claimed.
	headers := []string{"score_a", "thing", "score_b"}
	rows := [][]string{
		{"7", "Widget One", "6"},
		{"8", "Widget Two", "5"},
		{"9", "Widget Three", "4"},
	}

	resolver := NewColumnResolver(DefaultResolverConfig())
	resolved, err := resolver.Resolve(headers, rows)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved[models.FieldProductID] != "thing" {
		t.Errorf("product_id resolved to %q, want type fallback %q", resolved[models.FieldProductID], "thing")
	}
}

func TestResolveMissingProductIDFails(t *testing.T) {
	headers := []string{"score_a", "score_b"}
	rows := [][]string{{"7", "6"}, {"8", "5"}}

	resolver := NewColumnResolver(DefaultResolverConfig())
	_, err := resolver.Resolve(headers, rows)
	if err == nil {
		t.Fatal("expected resolution error for table with no product column")
	}
	resErr, ok := err.(*ResolutionError)
	if !ok {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if resErr.Field != models.FieldProductID {
		t.Errorf("error field = %q, want product_id", resErr.Field)
	}
}

func TestResolveOptionalFieldsAbsent(t *testing.T) {
	headers := []string{"model", "Camera", "Battery"}
	rows := [][]string{{"iPhone 15", "9", "7"}}

	resolver := NewColumnResolver(DefaultResolverConfig())
	resolved, err := resolver.Resolve(headers, rows)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, ok := resolved[models.FieldBrand]; ok {
		t.Error("brand should be absent when no column matches")
	}
	if _, ok := resolved[models.FieldPopularity]; ok {
		t.Error("popularity should be absent when no column matches")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Phone-Model", "phone_model"},
		{"phone model", "phone_model"},
		{"PHONE_MODEL", "phone_model"},
		{"  Brand  ", "brand"},
		{"Qualité", "qualite"},
		{"Camera__Quality", "camera_quality"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.input); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNumericData(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"all numeric", []string{"1", "2.5", "3"}, true},
		{"mostly numeric", []string{"1", "2", "3", "4", "n/a"}, true},
		{"text", []string{"Apple", "Samsung"}, false},
		{"empty", []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNumericData(tt.values); got != tt.want {
				t.Errorf("isNumericData(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
