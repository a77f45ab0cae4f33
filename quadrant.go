// quadrant.go
package main

import (
	"github.com/pivolan/survey_analyzer/domain/models"
)

// ClassifyQuadrants partitions products on a dimension pair into four
// strategic quadrants. Midpoints are the centers of the observed min/max on
// each axis over the rows that carry both values, so the classification is
// relative to the competitive set actually present, not to a fixed scale
// constant. A score at exactly the midpoint counts as high. Products missing
// either axis are left out of the result.
func ClassifyQuadrants(rows []models.AggregatedProductRow, pair models.DimensionPair) map[string]models.QuadrantLabel {
	type point struct {
		id   string
		x, y float64
	}
	points := []point{}
	for _, row := range rows {
		x, ok := columnValue(row, pair.A)
		if !ok {
			continue
		}
		y, ok := columnValue(row, pair.B)
		if !ok {
			continue
		}
		points = append(points, point{id: row.ProductID, x: x, y: y})
	}
	if len(points) == 0 {
		return map[string]models.QuadrantLabel{}
	}

	xMin, xMax := points[0].x, points[0].x
	yMin, yMax := points[0].y, points[0].y
	for _, p := range points[1:] {
		if p.x < xMin {
			xMin = p.x
		}
		if p.x > xMax {
			xMax = p.x
		}
		if p.y < yMin {
			yMin = p.y
		}
		if p.y > yMax {
			yMax = p.y
		}
	}
	xMid := (xMin + xMax) / 2
	yMid := (yMin + yMax) / 2

	labels := map[string]models.QuadrantLabel{}
	for _, p := range points {
		highX := p.x >= xMid
		highY := p.y >= yMid
		switch {
		case highX && highY:
			labels[p.id] = models.QuadrantLeader
		case highX && !highY:
			labels[p.id] = models.QuadrantHiddenGem
		case !highX && highY:
			labels[p.id] = models.QuadrantBrandPower
		default:
			labels[p.id] = models.QuadrantLaggard
		}
	}
	return labels
}
