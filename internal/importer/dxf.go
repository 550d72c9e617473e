package importer

import (
	"fmt"
	"math"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// LayoutResult holds the rectangles read from a layout drawing.
type LayoutResult struct {
	Rects    []model.Rect
	Errors   []string
	Warnings []string
}

// ImportDXFLayout reads a layout drawing back into rectangles. Every closed
// LWPOLYLINE becomes one rectangle: its bounding box rounded to integer
// coordinates, in drawing order. Other entities are ignored.
func ImportDXFLayout(path string) LayoutResult {
	result := LayoutResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	for _, ent := range entities {
		lw, ok := ent.(*entity.LwPolyline)
		if !ok {
			continue
		}
		if len(lw.Vertices) < 4 {
			result.Warnings = append(result.Warnings,
				"Skipped LWPOLYLINE with fewer than 4 vertices")
			continue
		}
		r, axisAligned := boundingRect(lw.Vertices)
		if !axisAligned {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("LWPOLYLINE %d is not an axis-aligned rectangle, using its bounding box", len(result.Rects)))
		}
		result.Rects = append(result.Rects, r)
	}

	if len(result.Rects) == 0 {
		result.Errors = append(result.Errors, "No rectangles found in DXF file")
	}
	return result
}

// boundingRect rounds the bounding box of vertices. axisAligned is false
// when some vertex is not a corner of that box.
func boundingRect(vertices [][]float64) (model.Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
	}
	const eps = 1e-6
	axisAligned := true
	for _, v := range vertices {
		onX := math.Abs(v[0]-minX) < eps || math.Abs(v[0]-maxX) < eps
		onY := math.Abs(v[1]-minY) < eps || math.Abs(v[1]-maxY) < eps
		if !onX || !onY {
			axisAligned = false
		}
	}
	return model.Rect{
		X1: int(math.Round(minX)),
		Y1: int(math.Round(minY)),
		X2: int(math.Round(maxX)),
		Y2: int(math.Round(maxY)),
	}, axisAligned
}
