package api

import (
	"context"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"
)

// Runner applies an update mode to a list of sheets.
type Runner interface {
	RunAll(ctx context.Context, mode updater.Mode, spreadsheetID string, sheetNames []string, opts batch.Options) ([]updater.Result, error)
}

// UpdateRequest is the body of every update endpoint. SheetName is only
// honoured by the legacy route, as a batch of one.
type UpdateRequest struct {
	SheetNames    []string `json:"sheetNames"`
	SheetName     string   `json:"sheetName,omitempty"`
	SpreadsheetID string   `json:"spreadsheetId"`
}

type SkippedSheet struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

type UpdateResponse struct {
	Message string         `json:"message"`
	Updated []string       `json:"updated,omitempty"`
	Skipped []SkippedSheet `json:"skipped,omitempty"`
}

// endpoint holds the wording used in responses for one route.
type endpoint struct {
	mode      updater.Mode
	success   string
	errPrefix string
	legacy    bool
}

var (
	rankingEndpoint = endpoint{
		mode:      updater.ModeRanking,
		success:   "Ranking updated successfully.",
		errPrefix: "Error updating ranking",
	}
	notesEndpoint = endpoint{
		mode:      updater.ModeNotes,
		success:   "Notes updated successfully.",
		errPrefix: "Error updating notes",
	}
	performanceEndpoint = endpoint{
		mode:      updater.ModePerformance,
		success:   "Performance data updated successfully.",
		errPrefix: "Error updating performance data",
	}
	legacyEndpoint = endpoint{
		mode:      updater.ModeRanking,
		success:   "Update completed",
		errPrefix: "Error updating sheet",
		legacy:    true,
	}
)
