package export

import (
	"fmt"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	layoutSheet  = "Layout"
	summarySheet = "Summary"
)

var layoutHeader = []interface{}{"Index", "X", "Y", "Size", "X1", "Y1", "X2", "Y2", "Area", "Score"}

// ExportExcel writes a workbook with one row per rectangle on the Layout
// sheet and the run statistics on the Summary sheet. The X, Y and Size
// columns use the same headers the importer recognises, so the Layout sheet
// can be fed back in as an instance.
func ExportExcel(path string, p *model.Problem, result model.OptimizeResult) error {
	if len(result.Rects) != p.Len() {
		return fmt.Errorf("%d rectangles for %d targets", len(result.Rects), p.Len())
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), layoutSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(layoutSheet, "A1", &layoutHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(layoutSheet, "A1", "J1", bold); err != nil {
		return err
	}
	for _, r := range CollectRectReports(p, result.Rects) {
		cell, err := excelize.CoordinatesToCellName(1, r.Index+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Index, r.Target.X, r.Target.Y, r.Size,
			r.Rect.X1, r.Rect.Y1, r.Rect.X2, r.Rect.Y2,
			r.Rect.Area(), r.Score,
		}
		if err := f.SetSheetRow(layoutSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	s := Summarize(result)
	rows := [][]interface{}{
		{"Targets", s.Targets},
		{"Seed", fmt.Sprintf("%d", s.Seed)},
		{"Mean score", s.Score},
		{"Points", s.Points},
		{"Rounds", s.Rounds},
		{"Accepted", s.Accepted},
		{"Proposals", s.Proposals},
		{"Elapsed (ms)", s.ElapsedMs},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 16); err != nil {
		return err
	}

	return f.SaveAs(path)
}
