// Package updater applies the daily ranking, notes and performance updates to
// a single tracking sheet.
package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/grid"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"

	log "github.com/sirupsen/logrus"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultDateLayout labels dated columns as DD/MM.
const DefaultDateLayout = "02/01"

// noteTemplate is the note attached to rows whose ranking URL is wrong.
const noteTemplate = "Đọc sai URL %s"

var nowFunc = time.Now

type Mode string

const (
	ModeRanking     Mode = "ranking"
	ModeNotes       Mode = "notes"
	ModePerformance Mode = "performance"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRanking, ModeNotes, ModePerformance:
		return m, nil
	}
	return "", fmt.Errorf("unknown update mode %q", s)
}

type Options struct {
	Layout        grid.Layout
	DateLayout    string
	Location      *time.Location
	ReapplyFilter bool
}

type Updater struct {
	sheets        sheets.Spreadsheet
	layout        grid.Layout
	dateLayout    string
	loc           *time.Location
	reapplyFilter bool
}

// Result describes what happened to one sheet.
type Result struct {
	Sheet   string `json:"sheet"`
	Column  string `json:"column,omitempty"`
	Rows    int    `json:"rows"`
	Notes   int    `json:"notes"`
	Skipped string `json:"skipped,omitempty"`
}

func New(s sheets.Spreadsheet, opts Options) *Updater {
	if opts.Layout == (grid.Layout{}) {
		opts.Layout = grid.DefaultLayout()
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Updater{
		sheets:        s,
		layout:        opts.Layout,
		dateLayout:    opts.DateLayout,
		loc:           opts.Location,
		reapplyFilter: opts.ReapplyFilter,
	}
}

// TodayLabel is the header of the dated column written today.
func (u *Updater) TodayLabel() string {
	return nowFunc().In(u.loc).Format(u.dateLayout)
}

// Apply runs one mode against one sheet. Sheets missing their header row or
// one of the named columns are reported as skipped rather than failed.
func (u *Updater) Apply(ctx context.Context, mode Mode, spreadsheetID, sheetName string) (Result, error) {
	var (
		res Result
		err error
	)
	switch mode {
	case ModeRanking:
		res, err = u.UpdateRanking(ctx, spreadsheetID, sheetName)
	case ModeNotes:
		res, err = u.UpdateNotes(ctx, spreadsheetID, sheetName)
	case ModePerformance:
		res, err = u.UpdatePerformance(ctx, spreadsheetID, sheetName)
	default:
		return Result{}, fmt.Errorf("unknown update mode %q", mode)
	}
	if err != nil && skippable(err) {
		log.WithFields(log.Fields{
			"sheet":       sheetName,
			"spreadsheet": spreadsheetID,
			"mode":        mode,
		}).Warnf("Skipping sheet: %v", err)
		return Result{Sheet: sheetName, Skipped: err.Error()}, nil
	}
	return res, err
}

// RunAll applies mode to every sheet, batch by batch, and stops at the first
// failure.
func (u *Updater) RunAll(ctx context.Context, mode Mode, spreadsheetID string, sheetNames []string, opts batch.Options) ([]Result, error) {
	return batch.Run(ctx, sheetNames, opts, func(ctx context.Context, name string) (Result, error) {
		return u.Apply(ctx, mode, spreadsheetID, name)
	})
}

type sheetGrid struct {
	info   *sheets.SheetInfo
	values [][]interface{}
	header []interface{}
}

func (u *Updater) load(ctx context.Context, spreadsheetID, sheetName string) (*sheetGrid, error) {
	info, err := u.sheets.GetSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}
	values, err := u.sheets.GetValues(ctx, spreadsheetID, sheets.GridRange(sheetName, int(info.ColumnCount)))
	if err != nil {
		return nil, err
	}
	header := u.layout.Header(values)
	if header == nil {
		return nil, fmt.Errorf("%w: sheet has %d rows, header expected on row %d", ErrHeaderRowMissing, len(values), u.layout.HeaderRow)
	}
	return &sheetGrid{info: info, values: values, header: header}, nil
}

// findColumns resolves every name in the header, failing on the first one
// that is absent.
func findColumns(header []interface{}, names ...string) ([]int, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = grid.FindColumn(header, name)
		if cols[i] <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnMissing, name)
		}
	}
	return cols, nil
}

func (u *Updater) findDateColumn(header []interface{}) (int, string, error) {
	label := u.TodayLabel()
	col := grid.FindColumn(header, label)
	if col <= 0 {
		return 0, label, fmt.Errorf("%w: no column labelled %q, run the ranking update first", ErrDateColumnMissing, label)
	}
	return col, label, nil
}

// noteRequests builds a note for every data row whose Check URL Target is NO.
// col is the 1-based column receiving the notes.
func (u *Updater) noteRequests(sheetID int64, rows [][]interface{}, col, urlCol, checkCol int) []*gsheets.Request {
	var reqs []*gsheets.Request
	for i, row := range rows {
		if grid.CellString(row, checkCol) != sheets.CheckURLFailed {
			continue
		}
		note := fmt.Sprintf(noteTemplate, grid.CellString(row, urlCol))
		reqs = append(reqs, sheets.NoteRequest(sheetID, int64(u.layout.DataIndex()+i), int64(col-1), note))
	}
	return reqs
}
