// Package tabular provides the table model shared by all upload ingestion:
// reading workbooks and CSV files into raw tables, locating the real header
// row, coercing Excel cell values, and normalizing arbitrary headers onto a
// canonical schema. This is part of the platform layer and contains no
// business logic.
package tabular

import "strings"

// Table is an ordered set of named columns and string rows as read from a
// single uploaded file. It is ephemeral and only lives for the duration of
// one ingestion call.
type Table struct {
	// Sheet is the source worksheet name, empty for CSV input.
	Sheet string
	// Headers are the column names in file order.
	Headers []string
	// Rows hold the data cells. Short rows are allowed; Cell pads with "".
	Rows [][]string

	index map[string]int
}

// NewTable builds a table and its column index.
func NewTable(sheet string, headers []string, rows [][]string) Table {
	t := Table{Sheet: sheet, Headers: headers, Rows: rows}
	t.index = make(map[string]int, len(headers))
	for i, h := range headers {
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
	return t
}

// Cell returns the value of the named column in the given row, or "" when
// the column does not exist or the row is short.
func (t Table) Cell(row int, column string) string {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// HasColumn reports whether the table contains the named column.
func (t Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmptyRow reports whether every cell of the given row is blank.
func (t Table) IsEmptyRow(row int) bool {
	if row < 0 || row >= len(t.Rows) {
		return true
	}
	for _, cell := range t.Rows[row] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// PromoteHeader locates the real header row in a raw grid by scanning the
// first rows for any of the sentinel column names (case-insensitive). Weekly
// exports routinely carry title and note rows above the header, so the first
// grid row cannot be trusted. When no sentinel is found the first row is
// used as the header.
func PromoteHeader(sheet string, grid [][]string, sentinels ...string) Table {
	headerRow := 0
	if len(sentinels) > 0 {
	scan:
		for i, row := range grid {
			for _, cell := range row {
				for _, sentinel := range sentinels {
					if strings.EqualFold(strings.TrimSpace(cell), sentinel) {
						headerRow = i
						break scan
					}
				}
			}
		}
	}

	if headerRow >= len(grid) {
		return NewTable(sheet, nil, nil)
	}

	headers := make([]string, len(grid[headerRow]))
	for i, h := range grid[headerRow] {
		headers[i] = strings.TrimSpace(h)
	}
	return NewTable(sheet, headers, grid[headerRow+1:])
}
