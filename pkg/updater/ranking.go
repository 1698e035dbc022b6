package updater

import (
	"context"

	"github.com/chaunnm/update-ranking-daily/pkg/grid"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"

	log "github.com/sirupsen/logrus"
	gsheets "google.golang.org/api/sheets/v4"
)

// UpdateRanking appends today's dated column after the last populated column,
// copies Today Ranking into it and notes every row whose URL check failed.
func (u *Updater) UpdateRanking(ctx context.Context, spreadsheetID, sheetName string) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{}, &SheetError{Sheet: sheetName, Op: "update ranking", Err: err}
	}

	g, err := u.load(ctx, spreadsheetID, sheetName)
	if err != nil {
		return fail(err)
	}
	cols, err := findColumns(g.header, sheets.HeaderTodayRanking, sheets.HeaderURLTool, sheets.HeaderCheckURLTarget)
	if err != nil {
		return fail(err)
	}
	rankCol, urlCol, checkCol := cols[0], cols[1], cols[2]

	last := grid.LastColumnWithData(g.values)
	if int64(last) >= g.info.ColumnCount {
		log.WithField("sheet", sheetName).Debugf("Sheet is full at %d columns, inserting one", g.info.ColumnCount)
		err = u.sheets.BatchUpdate(ctx, spreadsheetID, []*gsheets.Request{
			sheets.InsertColumnRequest(g.info.ID, g.info.ColumnCount),
		})
		if err != nil {
			return fail(err)
		}
	}

	newCol := last + 1
	label := u.TodayLabel()
	err = u.sheets.UpdateValues(ctx, spreadsheetID,
		sheets.CellRange(sheetName, newCol, u.layout.HeaderRow),
		[][]interface{}{{label}},
	)
	if err != nil {
		return fail(err)
	}

	rows := u.layout.DataRows(g.values)
	if len(rows) > 0 {
		updates := make([][]interface{}, len(rows))
		for i, row := range rows {
			updates[i] = []interface{}{grid.CellString(row, rankCol)}
		}
		err = u.sheets.UpdateValues(ctx, spreadsheetID,
			sheets.ColumnRange(sheetName, newCol, u.layout.DataStartRow, u.layout.DataStartRow+len(rows)-1),
			updates,
		)
		if err != nil {
			return fail(err)
		}
	}

	requests := u.noteRequests(g.info.ID, rows, newCol, urlCol, checkCol)
	notes := len(requests)
	if u.reapplyFilter {
		requests = append(requests,
			sheets.ClearFilterRequest(g.info.ID),
			sheets.SetFilterRequest(g.info.ID, int64(u.layout.HeaderIndex()), int64(newCol)),
		)
	}
	if err := u.sheets.BatchUpdate(ctx, spreadsheetID, requests); err != nil {
		return fail(err)
	}

	res := Result{
		Sheet:  sheetName,
		Column: grid.ColumnLetter(newCol),
		Rows:   len(rows),
		Notes:  notes,
	}
	log.WithFields(log.Fields{
		"sheet":  sheetName,
		"column": res.Column,
		"label":  label,
	}).Infof("Copied %d rankings, added %d notes", res.Rows, res.Notes)
	return res, nil
}
