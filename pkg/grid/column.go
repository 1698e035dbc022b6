package grid

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ColumnLetter converts a 1-based column number to its spreadsheet label
// (1 -> A, 26 -> Z, 27 -> AA). Returns "" for n <= 0 or past XFD.
func ColumnLetter(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return ""
	}
	return name
}

// ColumnIndex is the inverse of ColumnLetter. Returns 0 for input that is
// empty or contains anything other than letters.
func ColumnIndex(letters string) int {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0
	}
	return n
}

// FindColumn returns the 1-based position of the first header cell equal to
// name, or 0 when no cell matches.
func FindColumn(header []interface{}, name string) int {
	for i, cell := range header {
		if cellToString(cell) == name {
			return i + 1
		}
	}
	return 0
}

// LastColumnWithData returns the width of the widest row, which is the
// 1-based index of the last populated column. An empty grid gives -1.
func LastColumnWithData(values [][]interface{}) int {
	last := -1
	for _, row := range values {
		if len(row) > 0 && len(row) > last {
			last = len(row)
		}
	}
	return last
}

// CellString returns the 1-based column col of row as a string.
func CellString(row []interface{}, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return cellToString(row[col-1])
}

func cellToString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
