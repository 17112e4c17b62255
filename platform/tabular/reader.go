package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is the set of raw sheet grids read from one uploaded file, in
// workbook order. Header promotion happens later, per sheet, because each
// source type knows its own sentinel columns.
type Workbook struct {
	Sheets []Sheet
}

// Sheet is one raw worksheet grid.
type Sheet struct {
	Name string
	Grid [][]string
}

// Sheet returns the named sheet and whether it exists. Lookup is
// case-insensitive because export tools are not consistent about casing.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Sheet{}, false
}

// ReadWorkbook parses an xlsx workbook into raw sheet grids.
func ReadWorkbook(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var wb Workbook
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return Workbook{}, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: rows})
	}
	return wb, nil
}

// ReadCSV parses CSV input into a single raw grid, presented as a one-sheet
// workbook so callers handle both formats the same way.
func ReadCSV(r io.Reader) (Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	grid, err := reader.ReadAll()
	if err != nil {
		return Workbook{}, fmt.Errorf("read csv: %w", err)
	}
	return Workbook{Sheets: []Sheet{{Name: "", Grid: grid}}}, nil
}

// ReadUpload picks the reader based on the uploaded file name.
// Supported: .xlsx, .csv.
func ReadUpload(filename string, r io.Reader) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadWorkbook(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return Workbook{}, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}
