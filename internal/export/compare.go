package export

import (
	"fmt"

	"github.com/hinohi/ahc001/internal/engine"
	"github.com/xuri/excelize/v2"
)

const comparisonSheet = "Comparison"

// ExportComparisonExcel writes one row per scenario and one column per
// problem with its mean score. Failed scenarios show their error instead.
func ExportComparisonExcel(path string, results []engine.ComparisonResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), comparisonSheet); err != nil {
		return err
	}

	problems := 0
	for _, r := range results {
		problems = max(problems, len(r.Results))
	}
	header := []interface{}{"Scenario", "Mean score", "Min score", "Max score", "Mean points"}
	for i := range problems {
		header = append(header, fmt.Sprintf("Problem %d", i+1))
	}
	if err := f.SetSheetRow(comparisonSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Scenario.Name}
		if r.Err != nil {
			row = append(row, r.Err.Error())
		} else {
			row = append(row, r.MeanScore, r.MinScore, r.MaxScore, r.MeanPoints)
			for _, res := range r.Results {
				row = append(row, res.MeanScore())
			}
		}
		if err := f.SetSheetRow(comparisonSheet, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(comparisonSheet, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(comparisonSheet, "A", "A", 32); err != nil {
		return err
	}
	return f.SaveAs(path)
}
