package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/hinohi/ahc001/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 45.0
	worstListed  = 15
)

// scoreColor maps a rectangle score to a red (0) through yellow to green
// (1) fill.
func scoreColor(s float64) (r, g, b int) {
	s = math.Max(0, math.Min(1, s))
	if s < 0.5 {
		return 230, int(60 + 340*s), 60
	}
	return int(230 - 300*(s-0.5)), 200, 60
}

// ExportPDF writes a two-page report: the layout drawing with every
// rectangle coloured by its score, then a summary page with statistics, the
// worst rectangles and a QR code of the run summary.
func ExportPDF(path string, p *model.Problem, result model.OptimizeResult) error {
	if len(result.Rects) == 0 {
		return fmt.Errorf("no rectangles to export")
	}
	if len(result.Rects) != p.Len() {
		return fmt.Errorf("%d rectangles for %d targets", len(result.Rects), p.Len())
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, p, result)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, p, result); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the whole area with y growing upward.
func renderLayoutPage(pdf *fpdf.Fpdf, p *model.Problem, result model.OptimizeResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Layout: %d rectangles, score %.6f", len(result.Rects), result.MeanScore())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := drawHeight / model.L
	side := model.L * scale
	offsetX := marginLeft + (pageWidth-marginLeft-marginRight-side)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(offsetX, offsetY, side, side, "FD")

	toPage := func(x, y float64) (float64, float64) {
		return offsetX + x*scale, offsetY + (model.L-y)*scale
	}

	pdf.SetLineWidth(0.1)
	for i, r := range result.Rects {
		cr, cg, cb := scoreColor(r.Score(p.Sizes[i]))
		pdf.SetFillColor(cr, cg, cb)
		pdf.SetDrawColor(30, 30, 30)
		x, y := toPage(float64(r.X1), float64(r.Y2))
		pdf.Rect(x, y, float64(r.Width())*scale, float64(r.Height())*scale, "FD")
	}

	pdf.SetFillColor(0, 0, 0)
	for _, pt := range p.Points {
		x, y := toPage(float64(pt.X)+0.5, float64(pt.Y)+0.5)
		pdf.Circle(x, y, 0.4, "F")
	}
}

// renderSummaryPage draws the run statistics, the lowest-scoring
// rectangles and the QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, p *model.Problem, result model.OptimizeResult) error {
	summary := Summarize(result)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Run Summary", "", 0, "L", false, 0, "")

	lines := [][2]string{
		{"Targets", fmt.Sprintf("%d", summary.Targets)},
		{"Seed", fmt.Sprintf("%d", summary.Seed)},
		{"Mean score", fmt.Sprintf("%.9f", summary.Score)},
		{"Points", fmt.Sprintf("%d", summary.Points)},
		{"Rounds", fmt.Sprintf("%d", summary.Rounds)},
		{"Accepted", fmt.Sprintf("%d of %d (%.1f%%)", summary.Accepted, summary.Proposals, 100*result.AcceptanceRate())},
		{"Elapsed", result.Elapsed.String()},
	}
	y := marginTop + 14
	for _, l := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, l[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(80, 6, l[1], "", 0, "L", false, 0, "")
		y += 6
	}

	if err := drawSummaryQR(pdf, summary, pageWidth-marginRight-qrSize, marginTop+14, qrSize); err != nil {
		return err
	}

	y += 6
	pdf.SetXY(marginLeft, y)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(100, 8, "Lowest-scoring rectangles", "", 0, "L", false, 0, "")
	y += 9

	headers := []string{"#", "Target", "Size", "Rectangle", "Area", "Score"}
	widths := []float64{15, 35, 25, 70, 25, 25}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	pdf.SetXY(marginLeft, y)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range WorstRects(CollectRectReports(p, result.Rects), worstListed) {
		cells := []string{
			fmt.Sprintf("%d", r.Index),
			fmt.Sprintf("(%d, %d)", r.Target.X, r.Target.Y),
			fmt.Sprintf("%d", r.Size),
			r.Rect.String(),
			fmt.Sprintf("%d", r.Rect.Area()),
			fmt.Sprintf("%.4f", r.Score),
		}
		pdf.SetXY(marginLeft, y)
		for i, c := range cells {
			pdf.CellFormat(widths[i], 5.5, c, "1", 0, "C", false, 0, "")
		}
		y += 5.5
		if y > pageHeight-marginBottom-6 {
			break
		}
	}
	return nil
}
