// artifacts.go
package main

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// AggregatedTableCSV writes the mean table with canonical headers so the file
// can be re-uploaded and resolved back to the same schema. Dimension means are
// written at full precision; missing dimensions stay blank cells.
func AggregatedTableCSV(rows []models.AggregatedProductRow) []byte {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	dims := RowDimensions(rows)
	header := []string{"product_id", "brand", "tier", "popularity"}
	header = append(header, dims...)
	w.Write(header)

	for _, row := range rows {
		record := []string{row.ProductID, row.Brand, row.Tier, ""}
		if row.Popularity != nil {
			record[3] = strconv.FormatFloat(*row.Popularity, 'g', -1, 64)
		}
		for _, d := range dims {
			if v, ok := row.Dimension(d); ok {
				record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}

// RatingsCSV writes the respondent-level audit trail, one row per rating.
func RatingsCSV(ratings []models.RespondentRating) []byte {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	w.Write([]string{"respondent_id", "product_id", "dimension", "score"})
	for _, r := range ratings {
		w.Write([]string{r.RespondentID, r.ProductID, r.Dimension,
			strconv.FormatFloat(r.Score, 'g', -1, 64)})
	}
	w.Flush()
	return buf.Bytes()
}

// DimensionPairsCSV writes the pair sweep order, one row per pair.
func DimensionPairsCSV(pairs []models.DimensionPair) []byte {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	w.Write([]string{"dimension_a", "dimension_b"})
	for _, p := range pairs {
		w.Write([]string{p.A, p.B})
	}
	w.Flush()
	return buf.Bytes()
}

// CorrelationsCSV writes the full sweep, keeping failed pairs with an error
// column instead of numbers.
func CorrelationsCSV(results []PairCorrelation) []byte {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	w.Write([]string{"dimension_a", "dimension_b", "coefficient", "p_value", "sample_size", "error"})
	for _, pc := range results {
		if pc.Err != nil {
			w.Write([]string{pc.Pair.A, pc.Pair.B, "", "", "", pc.Err.Error()})
			continue
		}
		r := pc.Result
		w.Write([]string{pc.Pair.A, pc.Pair.B,
			strconv.FormatFloat(r.Coefficient, 'g', -1, 64),
			strconv.FormatFloat(r.PValue, 'g', -1, 64),
			strconv.Itoa(r.SampleSize), ""})
	}
	w.Flush()
	return buf.Bytes()
}

// RunArtifacts maps artifact file names to their contents for one run.
type RunArtifacts map[string][]byte

// SaveRunArtifacts writes each artifact into a fresh run directory under
// baseDir and returns the directory path.
func SaveRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	runDir := filepath.Join(baseDir, uuid.NewV4().String())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create run directory: %w", err)
	}
	for name, data := range artifacts {
		if err := os.WriteFile(filepath.Join(runDir, name), data, 0644); err != nil {
			return "", fmt.Errorf("cannot write artifact %s: %w", name, err)
		}
	}
	return runDir, nil
}

// ZipArtifacts bundles all artifacts into a single zip for delivery.
func ZipArtifacts(artifacts RunArtifacts) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, data := range artifacts {
		f, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
