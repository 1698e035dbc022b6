package grid

import "fmt"

// SummaryBlockRows is the height of the performance summary written above
// the header row.
const SummaryBlockRows = 10

// Layout describes where the header and data live in a tracking sheet.
// Rows are 1-based.
type Layout struct {
	HeaderRow    int
	DataStartRow int
}

// DefaultLayout is the layout of the ranking sheets: header on row 11,
// data from row 12.
func DefaultLayout() Layout {
	return Layout{HeaderRow: 11, DataStartRow: 12}
}

// SummaryRows is the number of rows available above the header.
func (l Layout) SummaryRows() int {
	return l.HeaderRow - 1
}

// HeaderIndex is the 0-based index of the header row in a value grid.
func (l Layout) HeaderIndex() int {
	return l.HeaderRow - 1
}

// DataIndex is the 0-based index of the first data row in a value grid.
func (l Layout) DataIndex() int {
	return l.DataStartRow - 1
}

// Header returns the header row of values, or nil when the grid is too short.
func (l Layout) Header(values [][]interface{}) []interface{} {
	if len(values) <= l.HeaderIndex() {
		return nil
	}
	return values[l.HeaderIndex()]
}

// DataRows returns the rows from DataStartRow onwards.
func (l Layout) DataRows(values [][]interface{}) [][]interface{} {
	if len(values) <= l.DataIndex() {
		return nil
	}
	return values[l.DataIndex():]
}

func (l Layout) Validate() error {
	if l.HeaderRow < 1 {
		return fmt.Errorf("header row must be positive, got %d", l.HeaderRow)
	}
	if l.DataStartRow <= l.HeaderRow {
		return fmt.Errorf("data start row %d must be below header row %d", l.DataStartRow, l.HeaderRow)
	}
	if l.SummaryRows() < SummaryBlockRows {
		return fmt.Errorf("header row %d leaves %d summary rows, need %d", l.HeaderRow, l.SummaryRows(), SummaryBlockRows)
	}
	return nil
}
