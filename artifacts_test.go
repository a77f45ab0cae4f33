package main

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func TestAggregatedTableCSVHeaders(t *testing.T) {
	data := AggregatedTableCSV(formatterRows())

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, []string{"product_id", "brand", "tier", "popularity", "Battery", "Camera"}, records[0])
	assert.Len(t, records, 3)
	// Galaxy S24 has no popularity and no Battery mean
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "", records[2][4])
}

func TestRatingsCSV(t *testing.T) {
	ratings := []models.RespondentRating{
		{RespondentID: "RESP_2000", ProductID: "iPhone 15", Dimension: "Camera", Score: 8.5},
	}
	data := RatingsCSV(ratings)

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, []string{"respondent_id", "product_id", "dimension", "score"}, records[0])
	assert.Equal(t, []string{"RESP_2000", "iPhone 15", "Camera", "8.5"}, records[1])
}

func TestDimensionPairsCSV(t *testing.T) {
	pairs := AllDimensionPairs([]string{"Camera", "Battery", "Price"})
	data := DimensionPairsCSV(pairs)

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, []string{"Battery", "Camera"}, records[1])
}

func TestZipArtifacts(t *testing.T) {
	artifacts := RunArtifacts{
		"aggregated.csv": []byte("product_id\nX\n"),
		"ratings.csv":    []byte("respondent_id\nR1\n"),
	}
	data, err := ZipArtifacts(artifacts)
	assert.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["aggregated.csv"])
	assert.True(t, names["ratings.csv"])
}

func TestSaveRunArtifacts(t *testing.T) {
	base := t.TempDir()
	dir, err := SaveRunArtifacts(base, RunArtifacts{"aggregated.csv": []byte("data")})
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "aggregated.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "data", string(content))

	// a second run gets its own directory
	dir2, err := SaveRunArtifacts(base, RunArtifacts{"aggregated.csv": []byte("other")})
	assert.NoError(t, err)
	assert.NotEqual(t, dir, dir2)
}
