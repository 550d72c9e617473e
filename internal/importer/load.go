package importer

import (
	"path/filepath"
	"strings"

	"github.com/hinohi/ahc001/internal/model"
)

// LoadProblem reads an instance, choosing the reader by file extension:
// .csv and .tsv go through the table importer, .xlsx and .xls through
// Excel, anything else is the plain text format. Table warnings are
// returned alongside the problem.
func LoadProblem(path string) (*model.Problem, []string, error) {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		result = ImportCSV(path)
	case ".xlsx", ".xls":
		result = ImportExcel(path)
	default:
		p, err := ReadInstanceFile(path)
		return p, nil, err
	}
	p, err := result.Problem()
	return p, result.Warnings, err
}
