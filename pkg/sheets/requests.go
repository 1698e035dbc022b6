package sheets

import "google.golang.org/api/sheets/v4"

// InsertColumnRequest inserts one column at the 0-based index at, copying the
// formatting of the column before it.
func InsertColumnRequest(sheetID, at int64) *sheets.Request {
	return &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: at,
				EndIndex:   at + 1,
			},
			InheritFromBefore: true,
		},
	}
}

// NoteRequest sets the note of one cell. row and col are 0-based.
func NoteRequest(sheetID, row, col int64, note string) *sheets.Request {
	return &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    row,
				EndRowIndex:      row + 1,
				StartColumnIndex: col,
				EndColumnIndex:   col + 1,
			},
			Rows: []*sheets.RowData{
				{Values: []*sheets.CellData{{Note: note}}},
			},
			Fields: "note",
		},
	}
}

func ClearFilterRequest(sheetID int64) *sheets.Request {
	return &sheets.Request{
		ClearBasicFilter: &sheets.ClearBasicFilterRequest{SheetId: sheetID},
	}
}

// SetFilterRequest applies a basic filter from the 0-based headerRow down,
// across columns [0, endCol).
func SetFilterRequest(sheetID, headerRow, endCol int64) *sheets.Request {
	return &sheets.Request{
		SetBasicFilter: &sheets.SetBasicFilterRequest{
			Filter: &sheets.BasicFilter{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    headerRow,
					StartColumnIndex: 0,
					EndColumnIndex:   endCol,
				},
			},
		},
	}
}
