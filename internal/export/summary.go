// Package export writes finished layouts: the plain answer format, PDF
// reports with a QR-coded run summary, Excel workbooks and DXF drawings.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/hinohi/ahc001/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// RunSummary is the compact record of one run, encoded into the report's
// QR code and shown on its summary page.
type RunSummary struct {
	Targets   int     `json:"n"`
	Seed      uint64  `json:"seed"`
	Score     float64 `json:"score"`
	Points    int64   `json:"points"`
	Rounds    int     `json:"rounds"`
	Accepted  int64   `json:"accepted"`
	Proposals int64   `json:"proposals"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

// Summarize extracts the summary of a result.
func Summarize(result model.OptimizeResult) RunSummary {
	return RunSummary{
		Targets:   len(result.Rects),
		Seed:      result.Seed,
		Score:     result.MeanScore(),
		Points:    result.Points(),
		Rounds:    result.Rounds,
		Accepted:  result.Accepted,
		Proposals: result.Proposals,
		ElapsedMs: result.Elapsed.Milliseconds(),
	}
}

// RectReport is one rectangle's line in the reports.
type RectReport struct {
	Index  int
	Target model.Point
	Size   int
	Rect   model.Rect
	Score  float64
}

// CollectRectReports pairs every rectangle with its target and score.
func CollectRectReports(p *model.Problem, rects []model.Rect) []RectReport {
	out := make([]RectReport, len(rects))
	for i, r := range rects {
		out[i] = RectReport{
			Index:  i,
			Target: p.Points[i],
			Size:   p.Sizes[i],
			Rect:   r,
			Score:  r.Score(p.Sizes[i]),
		}
	}
	return out
}

// WorstRects returns up to k reports with the lowest score, worst first.
// Ties keep input order.
func WorstRects(reports []RectReport, k int) []RectReport {
	sorted := append([]RectReport(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}

// summaryQR encodes the summary as a QR PNG.
func summaryQR(s RunSummary) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// drawSummaryQR places the summary QR code with its top-left corner at (x, y).
func drawSummaryQR(pdf *fpdf.Fpdf, s RunSummary, x, y, size float64) error {
	png, err := summaryQR(s)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("qr_run_%d_%d", s.Seed, s.Points)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	return nil
}
