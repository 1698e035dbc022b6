package updater

import (
	"context"

	"github.com/chaunnm/update-ranking-daily/pkg/grid"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"

	log "github.com/sirupsen/logrus"
)

// UpdateNotes adds the wrong-URL notes to today's dated column without
// touching any value.
func (u *Updater) UpdateNotes(ctx context.Context, spreadsheetID, sheetName string) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{}, &SheetError{Sheet: sheetName, Op: "update notes", Err: err}
	}

	g, err := u.load(ctx, spreadsheetID, sheetName)
	if err != nil {
		return fail(err)
	}
	dateCol, _, err := u.findDateColumn(g.header)
	if err != nil {
		return fail(err)
	}
	cols, err := findColumns(g.header, sheets.HeaderURLTool, sheets.HeaderCheckURLTarget)
	if err != nil {
		return fail(err)
	}

	rows := u.layout.DataRows(g.values)
	requests := u.noteRequests(g.info.ID, rows, dateCol, cols[0], cols[1])
	if err := u.sheets.BatchUpdate(ctx, spreadsheetID, requests); err != nil {
		return fail(err)
	}

	res := Result{
		Sheet:  sheetName,
		Column: grid.ColumnLetter(dateCol),
		Rows:   len(rows),
		Notes:  len(requests),
	}
	log.WithFields(log.Fields{"sheet": sheetName, "column": res.Column}).Infof("Added %d notes", res.Notes)
	return res, nil
}
