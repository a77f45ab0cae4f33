package main

import (
	"reflect"
	"testing"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func TestAllDimensionPairs(t *testing.T) {
	got := AllDimensionPairs([]string{"Camera", "Battery", "Price"})
	want := []models.DimensionPair{
		{A: "Battery", B: "Camera"},
		{A: "Battery", B: "Price"},
		{A: "Camera", B: "Price"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllDimensionPairs() = %v, want %v", got, want)
	}
}

func TestAllDimensionPairsCount(t *testing.T) {
	tests := []struct {
		dims []string
		want int
	}{
		{nil, 0},
		{[]string{"A"}, 0},
		{[]string{"A", "B"}, 1},
		{[]string{"A", "B", "C", "D"}, 6},
		{[]string{"A", "B", "C", "D", "E"}, 10},
	}
	for _, tt := range tests {
		if got := len(AllDimensionPairs(tt.dims)); got != tt.want {
			t.Errorf("len(AllDimensionPairs(%v)) = %d, want %d", tt.dims, got, tt.want)
		}
	}
}

func TestAllDimensionPairsEachDimensionAppears(t *testing.T) {
	dims := []string{"Camera", "Battery", "Price", "Design", "Performance"}
	pairs := AllDimensionPairs(dims)

	counts := map[string]int{}
	for _, p := range pairs {
		counts[p.A]++
		counts[p.B]++
	}
	for _, d := range dims {
		if counts[d] != len(dims)-1 {
			t.Errorf("dimension %s appears in %d pairs, want %d", d, counts[d], len(dims)-1)
		}
	}
}

func TestAllDimensionPairsInputOrderIrrelevant(t *testing.T) {
	a := AllDimensionPairs([]string{"Camera", "Battery", "Price"})
	b := AllDimensionPairs([]string{"Price", "Camera", "Battery"})
	if !reflect.DeepEqual(a, b) {
		t.Error("pair enumeration must not depend on input order")
	}
}
