package updater

import (
	"context"
	"fmt"

	"github.com/chaunnm/update-ranking-daily/pkg/sheets"

	gsheets "google.golang.org/api/sheets/v4"
)

type valuesCall struct {
	Range  string
	Values [][]interface{}
}

type mockSpreadsheet struct {
	Sheets map[string]*sheets.SheetInfo
	Values map[string][][]interface{}

	GetValuesErr    error
	UpdateValuesErr error
	BatchUpdateErr  error

	GetValuesCalls    []string
	UpdateValuesCalls []valuesCall
	ClearValuesCalls  []string
	BatchUpdateCalls  [][]*gsheets.Request
}

func (m *mockSpreadsheet) GetSheet(_ context.Context, _ string, sheetName string) (*sheets.SheetInfo, error) {
	info, ok := m.Sheets[sheetName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrSheetNotFound, sheetName)
	}
	return info, nil
}

func (m *mockSpreadsheet) GetValues(_ context.Context, _ string, a1Range string) ([][]interface{}, error) {
	m.GetValuesCalls = append(m.GetValuesCalls, a1Range)
	if m.GetValuesErr != nil {
		return nil, m.GetValuesErr
	}
	return m.Values[a1Range], nil
}

func (m *mockSpreadsheet) UpdateValues(_ context.Context, _ string, a1Range string, values [][]interface{}) error {
	m.UpdateValuesCalls = append(m.UpdateValuesCalls, valuesCall{Range: a1Range, Values: values})
	return m.UpdateValuesErr
}

func (m *mockSpreadsheet) ClearValues(_ context.Context, _ string, a1Range string) error {
	m.ClearValuesCalls = append(m.ClearValuesCalls, a1Range)
	return nil
}

func (m *mockSpreadsheet) BatchUpdate(_ context.Context, _ string, requests []*gsheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	m.BatchUpdateCalls = append(m.BatchUpdateCalls, requests)
	return m.BatchUpdateErr
}

func (m *mockSpreadsheet) mutated() bool {
	return len(m.UpdateValuesCalls) > 0 || len(m.ClearValuesCalls) > 0 || len(m.BatchUpdateCalls) > 0
}
