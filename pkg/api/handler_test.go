package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBatch = batch.Options{Size: 2}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, UpdateResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp UpdateResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func TestUpdateRoutes(t *testing.T) {
	tests := []struct {
		path     string
		wantMode updater.Mode
		wantMsg  string
	}{
		{"/api/update-ranking", updater.ModeRanking, "Ranking updated successfully."},
		{"/api/update-notes", updater.ModeNotes, "Notes updated successfully."},
		{"/api/update-performance", updater.ModePerformance, "Performance data updated successfully."},
		{"/update-ranking-and-notes", updater.ModeRanking, "Update completed"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			runner := &mockRunner{}
			router := GetRouter(NewHandler(runner, testBatch, 0))

			rec, resp := doRequest(t, router, http.MethodPost, tt.path,
				`{"sheetNames":["[🥇Performance] Keywords","💎Performance THAY PIN"],"spreadsheetId":"ss1"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, []string{"[🥇Performance] Keywords", "💎Performance THAY PIN"}, resp.Updated)

			require.Len(t, runner.RunAllCalls, 1)
			call := runner.RunAllCalls[0]
			assert.Equal(t, tt.wantMode, call.Mode)
			assert.Equal(t, "ss1", call.SpreadsheetID)
			assert.Equal(t, testBatch, call.Options)
			assert.False(t, call.Cancelable)
		})
	}
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		wantMsg string
	}{
		{"empty body", "/api/update-ranking", `{}`, "Missing required fields"},
		{"no spreadsheet", "/api/update-ranking", `{"sheetNames":["a"]}`, "Missing required fields"},
		{"empty sheet list", "/api/update-performance", `{"sheetNames":[],"spreadsheetId":"ss1"}`, "Missing required fields"},
		{"singular name on new route", "/api/update-notes", `{"sheetName":"a","spreadsheetId":"ss1"}`, "Missing required fields"},
		{"not json", "/api/update-ranking", `sheetNames=a`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			rec, resp := doRequest(t, GetRouter(NewHandler(runner, testBatch, 0)), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Empty(t, runner.RunAllCalls)
		})
	}
}

func TestLegacySingleSheet(t *testing.T) {
	runner := &mockRunner{}
	rec, resp := doRequest(t, GetRouter(NewHandler(runner, testBatch, 0)), http.MethodPost,
		"/update-ranking-and-notes", `{"sheetName":"AUDIT URL DV Push SEO","spreadsheetId":"ss1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Update completed", resp.Message)
	require.Len(t, runner.RunAllCalls, 1)
	assert.Equal(t, []string{"AUDIT URL DV Push SEO"}, runner.RunAllCalls[0].SheetNames)
}

func TestSkippedSheetsReported(t *testing.T) {
	runner := &mockRunner{
		RunAllFunc: func(mode updater.Mode, sheetNames []string) ([]updater.Result, error) {
			return []updater.Result{
				{Sheet: "A", Column: "E", Rows: 10},
				{Sheet: "B", Skipped: `update ranking "B": column missing: "URL Tool"`},
			}, nil
		},
	}
	rec, resp := doRequest(t, GetRouter(NewHandler(runner, testBatch, 0)), http.MethodPost,
		"/api/update-ranking", `{"sheetNames":["A","B"],"spreadsheetId":"ss1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A"}, resp.Updated)
	assert.Equal(t, []SkippedSheet{{Sheet: "B", Reason: `update ranking "B": column missing: "URL Tool"`}}, resp.Skipped)
}

func TestUserErrorIsBadRequest(t *testing.T) {
	runner := &mockRunner{
		RunAllFunc: func(mode updater.Mode, sheetNames []string) ([]updater.Result, error) {
			return nil, &updater.SheetError{
				Sheet: "A",
				Op:    "update performance",
				Err:   fmt.Errorf("%w: no column labelled %q", updater.ErrDateColumnMissing, "19/10"),
			}
		},
	}
	rec, resp := doRequest(t, GetRouter(NewHandler(runner, testBatch, 0)), http.MethodPost,
		"/api/update-performance", `{"sheetNames":["A"],"spreadsheetId":"ss1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(resp.Message, "Error updating performance data: "), resp.Message)
	assert.Contains(t, resp.Message, "date column missing")
}

func TestUpstreamErrorIsInternal(t *testing.T) {
	runner := &mockRunner{
		RunAllFunc: func(mode updater.Mode, sheetNames []string) ([]updater.Result, error) {
			return []updater.Result{{Sheet: "A"}}, errors.New("googleapi: Error 500: backend error")
		},
	}
	rec, resp := doRequest(t, GetRouter(NewHandler(runner, testBatch, 0)), http.MethodPost,
		"/api/update-ranking", `{"sheetNames":["A","B"],"spreadsheetId":"ss1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error updating ranking: googleapi: Error 500: backend error", resp.Message)
	assert.Equal(t, []string{"A"}, resp.Updated)
}

func TestTimeoutBoundsRun(t *testing.T) {
	runner := &mockRunner{}
	rec, _ := doRequest(t, GetRouter(NewHandler(runner, testBatch, time.Minute)), http.MethodPost,
		"/api/update-ranking", `{"sheetNames":["A"],"spreadsheetId":"ss1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runner.RunAllCalls, 1)
	assert.True(t, runner.RunAllCalls[0].Cancelable)
}

func TestHealth(t *testing.T) {
	rec, resp := doRequest(t, GetRouter(NewHandler(&mockRunner{}, testBatch, 0)), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Message)
}

func TestCORSPreflight(t *testing.T) {
	router := GetRouter(NewHandler(&mockRunner{}, testBatch, 0))
	req := httptest.NewRequest(http.MethodOptions, "/api/update-ranking", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWrongMethod(t *testing.T) {
	router := GetRouter(NewHandler(&mockRunner{}, testBatch, 0))
	req := httptest.NewRequest(http.MethodGet, "/api/update-ranking", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
