package sheets

import (
	"context"
	"errors"

	"google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound is returned when a spreadsheet has no tab with the
// requested title.
var ErrSheetNotFound = errors.New("sheet not found")

// Spreadsheet is the subset of the Sheets API the updaters rely on.
type Spreadsheet interface {
	GetSheet(ctx context.Context, spreadsheetID, sheetName string) (*SheetInfo, error)
	GetValues(ctx context.Context, spreadsheetID, a1Range string) ([][]interface{}, error)
	UpdateValues(ctx context.Context, spreadsheetID, a1Range string, values [][]interface{}) error
	ClearValues(ctx context.Context, spreadsheetID, a1Range string) error
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

type SheetInfo struct {
	ID          int64
	Title       string
	RowCount    int64
	ColumnCount int64
}

// Header labels of the ranking sheets.
const (
	HeaderTodayRanking   = "Today Ranking"
	HeaderURLTool        = "URL Tool"
	HeaderCheckURLTarget = "Check URL Target"
)

// CheckURLFailed is the Check URL Target value marking a wrong ranking URL.
const CheckURLFailed = "NO"
