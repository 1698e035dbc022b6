package api

import (
	"context"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"
)

type runAllCall struct {
	Mode          updater.Mode
	SpreadsheetID string
	SheetNames    []string
	Options       batch.Options
	Cancelable    bool
}

type mockRunner struct {
	RunAllFunc  func(mode updater.Mode, sheetNames []string) ([]updater.Result, error)
	RunAllCalls []runAllCall
}

func (m *mockRunner) RunAll(ctx context.Context, mode updater.Mode, spreadsheetID string, sheetNames []string, opts batch.Options) ([]updater.Result, error) {
	m.RunAllCalls = append(m.RunAllCalls, runAllCall{
		Mode:          mode,
		SpreadsheetID: spreadsheetID,
		SheetNames:    sheetNames,
		Options:       opts,
		Cancelable:    ctx.Done() != nil,
	})
	if m.RunAllFunc == nil {
		results := make([]updater.Result, len(sheetNames))
		for i, name := range sheetNames {
			results[i] = updater.Result{Sheet: name}
		}
		return results, nil
	}
	return m.RunAllFunc(mode, sheetNames)
}
