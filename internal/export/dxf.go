package export

import (
	"fmt"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/yofu/dxf"
)

// DXF layer names.
const (
	LayerRects   = "RECTS"
	LayerTargets = "TARGETS"
)

// targetMarkRadius is the radius of the circle drawn around each target.
const targetMarkRadius = 0.5

// ExportDXF writes the layout as a drawing in area units: one closed
// LWPOLYLINE per rectangle in input order on the RECTS layer and a small
// circle at every target on the TARGETS layer.
func ExportDXF(path string, p *model.Problem, rects []model.Rect) error {
	if len(rects) != p.Len() {
		return fmt.Errorf("%d rectangles for %d targets", len(rects), p.Len())
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerRects, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerRects, err)
	}
	for i, r := range rects {
		x1, y1 := float64(r.X1), float64(r.Y1)
		x2, y2 := float64(r.X2), float64(r.Y2)
		if _, err := d.LwPolyline(true,
			[]float64{x1, y1, 0},
			[]float64{x2, y1, 0},
			[]float64{x2, y2, 0},
			[]float64{x1, y2, 0},
		); err != nil {
			return fmt.Errorf("rectangle %d: %w", i, err)
		}
	}

	if _, err := d.AddLayer(LayerTargets, 1, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerTargets, err)
	}
	for i, pt := range p.Points {
		if _, err := d.Circle(float64(pt.X)+0.5, float64(pt.Y)+0.5, 0, targetMarkRadius); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}

	return d.SaveAs(path)
}
