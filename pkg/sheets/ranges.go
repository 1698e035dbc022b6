package sheets

import (
	"fmt"
	"strings"

	"github.com/chaunnm/update-ranking-daily/pkg/grid"

	"github.com/xuri/excelize/v2"
)

// QuoteSheetName returns the sheet name in the quoted form A1 notation
// expects, e.g. 'It''s here'.
func QuoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// CellRange addresses a single cell, col and row 1-based.
func CellRange(sheetName string, col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return QuoteSheetName(sheetName) + "!" + cell
}

// ColumnRange addresses rows fromRow..toRow of one column.
func ColumnRange(sheetName string, col, fromRow, toRow int) string {
	from, _ := excelize.CoordinatesToCellName(col, fromRow)
	to, _ := excelize.CoordinatesToCellName(col, toRow)
	return QuoteSheetName(sheetName) + "!" + from + ":" + to
}

// GridRange addresses columns A..lastCol over every row.
func GridRange(sheetName string, lastCol int) string {
	if lastCol < 1 {
		lastCol = 1
	}
	return fmt.Sprintf("%s!A1:%s", QuoteSheetName(sheetName), grid.ColumnLetter(lastCol))
}
