// Package importer reads instances: the plain contest text format, target
// tables from CSV or Excel with flexible headers, and previous layouts from
// DXF drawings.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the targets read from a table together with every
// problem found on the way. Rows with errors are skipped.
type ImportResult struct {
	Points   []model.Point
	Sizes    []int
	Errors   []string
	Warnings []string
}

// Problem builds a validated problem from the imported rows. It fails when
// the import itself reported errors.
func (r ImportResult) Problem() (*model.Problem, error) {
	if len(r.Errors) > 0 {
		return nil, fmt.Errorf("import failed: %s", strings.Join(r.Errors, "; "))
	}
	return model.NewProblem(r.Points, r.Sizes)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	X    int
	Y    int
	Size int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x":    {"x", "px", "target x"},
	"y":    {"y", "py", "target y"},
	"size": {"size", "r", "area", "s", "requested area", "request"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping using
// case-insensitive alias matching. Without a recognisable header it returns
// the positional mapping x, y, size and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{X: -1, Y: -1, Size: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "size":
					if mapping.Size == -1 {
						mapping.Size = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{X: 0, Y: 1, Size: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntCell(row []string, idx int, name, rowLabel string) (int, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Spreadsheets often store integers as "123.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
		}
		v = int(f)
	}
	return v, ""
}

// parseRow extracts one target from a row. It returns the target and an
// error message when the row cannot be used.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Point, int, string) {
	x, msg := parseIntCell(row, mapping.X, "x", rowLabel)
	if msg != "" {
		return model.Point{}, 0, msg
	}
	y, msg := parseIntCell(row, mapping.Y, "y", rowLabel)
	if msg != "" {
		return model.Point{}, 0, msg
	}
	size, msg := parseIntCell(row, mapping.Size, "size", rowLabel)
	if msg != "" {
		return model.Point{}, 0, msg
	}

	if x < 0 || x >= model.L || y < 0 || y >= model.L {
		return model.Point{}, 0, fmt.Sprintf("%s: Target (%d, %d) outside the area", rowLabel, x, y)
	}
	if size <= 0 {
		return model.Point{}, 0, fmt.Sprintf("%s: Size must be positive", rowLabel)
	}
	return model.Point{X: x, Y: y}, size, ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports targets from a CSV file, detecting the delimiter and
// mapping columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports targets from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports targets from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if mapping.Size == -1 {
			missing = append(missing, "Size")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.Atoi(getCell(rows[0], 0)); err != nil && !isEmptyRow(rows[0]) {
		// An unrecognised header; keep the positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	seen := make(map[model.Point]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		p, size, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if first, dup := seen[p]; dup {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: Target (%d, %d) already used by %s", rowLabel, p.X, p.Y, first))
			continue
		}
		seen[p] = rowLabel

		result.Points = append(result.Points, p)
		result.Sizes = append(result.Sizes, size)
	}

	if len(result.Points) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
