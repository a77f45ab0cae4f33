// csv_table.go
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"
	"github.com/pivolan/survey_analyzer/domain/models"
)

// SurveyData is one parsed upload normalized into the canonical schema:
// product identities in first-seen order plus respondent-level ratings.
// Pre-aggregated uploads (one row per product) become single-rating products,
// so the same aggregation path serves both input shapes.
type SurveyData struct {
	Fields           map[models.CanonicalField]string
	DimensionColumns []string
	Identities       []models.ProductIdentity
	Ratings          []models.RespondentRating

	// RespondentLevel is true when the upload carries individual responses,
	// either via a respondent column or repeated product rows.
	RespondentLevel bool
}

// ParseTableFile reads a delimited UTF-8 file with a required header row.
func ParseTableFile(filePath string) (*models.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f)
}

// ParseTable parses delimited text, auto-detecting the separator among
// comma, semicolon and tab from the header line.
func ParseTable(r io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("input table is empty")
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	headers = ValidateHeaders(headers)

	rows := [][]string{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read data row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return &models.Table{Headers: headers, Rows: rows}, nil
}

func detectDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// ValidateHeaders fixes duplicate header names by suffixing a counter.
func ValidateHeaders(headers []string) []string {
	seen := map[string]int{}
	result := make([]string, len(headers))

	for i, header := range headers {
		originalHeader := header
		counter := 1
		for {
			if count, exists := seen[header]; exists {
				header = fmt.Sprintf("%s_%d", originalHeader, counter)
				counter++
			} else {
				seen[header] = count + 1
				break
			}
		}
		result[i] = header
	}
	return result
}

// respondentSynonyms identify an optional respondent id column; without one,
// each input row is treated as its own respondent.
var respondentSynonyms = []string{"respondent_id", "respondent", "participant", "panelist", "user_id"}

// TableToSurvey resolves the table's columns against the canonical schema and
// flattens every cell of every dimension column into a RespondentRating.
// Blank cells produce no rating, which the aggregator reports as missing.
func TableToSurvey(table *models.Table, resolver *ColumnResolver) (*SurveyData, error) {
	resolved, err := resolver.Resolve(table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}
	index := map[string]int{}
	for i, h := range table.Headers {
		index[h] = i
	}
	respondentCol := -1
	for i, h := range table.Headers {
		if go_utils.InArray(normalizeHeader(h), respondentSynonyms) && table.Headers[i] != resolved[models.FieldProductID] {
			respondentCol = i
			break
		}
	}

	// Numeric respondent ids would otherwise pass the numericness sampling and
	// show up as a rating dimension.
	dimensions := []string{}
	for _, dim := range resolver.DimensionColumns(table.Headers, table.Rows, resolved) {
		if go_utils.InArray(normalizeHeader(dim), respondentSynonyms) {
			continue
		}
		dimensions = append(dimensions, dim)
	}

	cell := func(row []string, header string) string {
		i, ok := index[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	survey := &SurveyData{
		Fields:           resolved,
		DimensionColumns: dimensions,
		RespondentLevel:  respondentCol >= 0,
	}
	seenProduct := map[string]bool{}
	for n, row := range table.Rows {
		productID := cell(row, resolved[models.FieldProductID])
		if productID == "" {
			continue
		}
		if seenProduct[productID] {
			survey.RespondentLevel = true
		} else {
			seenProduct[productID] = true
			identity := models.ProductIdentity{ProductID: productID}
			if h, ok := resolved[models.FieldBrand]; ok {
				identity.Brand = cell(row, h)
			}
			if h, ok := resolved[models.FieldTier]; ok {
				identity.Tier = cell(row, h)
			}
			if h, ok := resolved[models.FieldPopularity]; ok {
				if v, err := strconv.ParseFloat(cell(row, h), 64); err == nil {
					if v < 0 || v > 100 {
						return nil, fmt.Errorf("popularity %g for product %s is outside 0..100", v, productID)
					}
					identity.Popularity = &v
				}
			}
			survey.Identities = append(survey.Identities, identity)
		}

		respondentID := fmt.Sprintf("ROW_%d", n+1)
		if respondentCol >= 0 && respondentCol < len(row) && strings.TrimSpace(row[respondentCol]) != "" {
			respondentID = strings.TrimSpace(row[respondentCol])
		}
		for _, dim := range dimensions {
			raw := cell(row, dim)
			if raw == "" {
				continue
			}
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			survey.Ratings = append(survey.Ratings, models.RespondentRating{
				RespondentID: respondentID,
				ProductID:    productID,
				Dimension:    dim,
				Score:        score,
			})
		}
	}
	if len(survey.Identities) == 0 {
		return nil, fmt.Errorf("no product rows found in table")
	}
	return survey, nil
}
