package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/survey_analyzer/domain/models"
)

// GenerateAggregatedTable renders the per-product mean table. Rows follow the
// roster order, dimension columns follow sorted order.
func GenerateAggregatedTable(rows []models.AggregatedProductRow) string {
	t := table.NewWriter()

	dims := RowDimensions(rows)
	header := table.Row{"Product", "Brand", "Tier", "Popularity"}
	for _, d := range dims {
		header = append(header, d)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := table.Row{row.ProductID, row.Brand, row.Tier}
		if row.Popularity != nil {
			r = append(r, strconv.FormatFloat(*row.Popularity, 'f', 1, 64))
		} else {
			r = append(r, "")
		}
		for _, d := range dims {
			if v, ok := row.Dimension(d); ok {
				r = append(r, strconv.FormatFloat(v, 'f', 2, 64))
			} else {
				r = append(r, "")
			}
		}
		t.AppendRows([]table.Row{r})
	}

	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateCorrelationTable renders a correlation sweep. Pairs that failed keep
// their row with the error text instead of numbers.
func GenerateCorrelationTable(results []PairCorrelation) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Dimension A", "Dimension B", "r", "p-value", "n", "Strength"})

	for _, pc := range results {
		if pc.Err != nil {
			t.AppendRows([]table.Row{
				{pc.Pair.A, pc.Pair.B, "-", "-", "-", pc.Err.Error()},
			})
			continue
		}
		r := pc.Result
		t.AppendRows([]table.Row{
			{pc.Pair.A, pc.Pair.B,
				strconv.FormatFloat(r.Coefficient, 'f', 3, 64),
				strconv.FormatFloat(r.PValue, 'f', 4, 64),
				r.SampleSize,
				InterpretCorrelation(r.Coefficient)},
		})
	}

	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateQuadrantTable renders a quadrant classification for one dimension
// pair, keeping the roster order of rows.
func GenerateQuadrantTable(rows []models.AggregatedProductRow, pair models.DimensionPair, labels map[string]models.QuadrantLabel) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Product", pair.A, pair.B, "Quadrant"})

	for _, row := range rows {
		label, ok := labels[row.ProductID]
		if !ok {
			continue
		}
		a, _ := columnValue(row, pair.A)
		b, _ := columnValue(row, pair.B)
		t.AppendRows([]table.Row{
			{row.ProductID,
				strconv.FormatFloat(a, 'f', 2, 64),
				strconv.FormatFloat(b, 'f', 2, 64),
				string(label)},
		})
	}

	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateCorrelationMarkdown is the chat-friendly variant of the sweep table.
func GenerateCorrelationMarkdown(results []PairCorrelation) string {
	buf := &strings.Builder{}
	buf.WriteString("| Dimension A | Dimension B | r | p-value | n | Strength |\n")

	for _, pc := range results {
		if pc.Err != nil {
			buf.WriteString(fmt.Sprintf("| %s | %s | - | - | - | %s |\n", pc.Pair.A, pc.Pair.B, pc.Err.Error()))
			continue
		}
		r := pc.Result
		buf.WriteString(fmt.Sprintf("| %s | %s | %.3f | %.4f | %d | %s |\n",
			pc.Pair.A, pc.Pair.B, r.Coefficient, r.PValue, r.SampleSize, InterpretCorrelation(r.Coefficient)))
	}

	return buf.String()
}

// GenerateHiddenGemsSummary lists products scoring above the dimension mean
// while sitting below mean popularity.
func GenerateHiddenGemsSummary(rows []models.AggregatedProductRow, dimension string) string {
	gems := HiddenGems(rows, dimension)
	if len(gems) == 0 {
		return fmt.Sprintf("No hidden gems for %s.", dimension)
	}
	buf := &strings.Builder{}
	buf.WriteString(fmt.Sprintf("Hidden gems for %s:\n", dimension))
	for _, id := range gems {
		buf.WriteString(fmt.Sprintf("- %s\n", id))
	}
	return buf.String()
}
