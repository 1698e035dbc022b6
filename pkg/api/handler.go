package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	runner  Runner
	batch   batch.Options
	timeout time.Duration
}

// NewHandler returns the handler set for the update routes. A zero timeout
// lets a request run until every sheet is processed.
func NewHandler(runner Runner, opts batch.Options, timeout time.Duration) *Handler {
	return &Handler{runner: runner, batch: opts, timeout: timeout}
}

func (h *Handler) updateRanking(w http.ResponseWriter, r *http.Request) {
	h.serveUpdate(w, r, rankingEndpoint)
}

func (h *Handler) updateNotes(w http.ResponseWriter, r *http.Request) {
	h.serveUpdate(w, r, notesEndpoint)
}

func (h *Handler) updatePerformance(w http.ResponseWriter, r *http.Request) {
	h.serveUpdate(w, r, performanceEndpoint)
}

func (h *Handler) updateRankingAndNotes(w http.ResponseWriter, r *http.Request) {
	h.serveUpdate(w, r, legacyEndpoint)
}

func getHealth(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, UpdateResponse{Message: "ok"})
}

func (h *Handler) serveUpdate(w http.ResponseWriter, r *http.Request, ep endpoint) {
	req, ok := decodeRequest(w, r, ep.legacy)
	if !ok {
		return
	}

	entry := log.WithFields(log.Fields{
		"run":         uuid.NewString(),
		"mode":        ep.mode,
		"spreadsheet": req.SpreadsheetID,
	})
	entry.Infof("Updating %d sheets", len(req.SheetNames))

	// Sheets keep being processed if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := h.runner.RunAll(ctx, ep.mode, req.SpreadsheetID, req.SheetNames, h.batch)
	resp := buildResponse(results)
	if err != nil {
		entry.WithError(err).Error("Update failed")
		status := http.StatusInternalServerError
		if updater.IsUserError(err) {
			status = http.StatusBadRequest
		}
		resp.Message = fmt.Sprintf("%s: %v", ep.errPrefix, err)
		sendJSON(w, status, resp)
		return
	}

	entry.WithField("duration", time.Since(start).Round(time.Millisecond)).
		Infof("Updated %d sheets, skipped %d", len(resp.Updated), len(resp.Skipped))
	resp.Message = ep.success
	sendJSON(w, http.StatusOK, resp)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, legacy bool) (UpdateRequest, bool) {
	var req UpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Debugf("Invalid request body: %v", err)
		sendJSON(w, http.StatusBadRequest, UpdateResponse{Message: "Invalid request body"})
		return req, false
	}
	if legacy && len(req.SheetNames) == 0 && req.SheetName != "" {
		req.SheetNames = []string{req.SheetName}
	}
	if len(req.SheetNames) == 0 || req.SpreadsheetID == "" {
		sendJSON(w, http.StatusBadRequest, UpdateResponse{Message: "Missing required fields"})
		return req, false
	}
	return req, true
}

func buildResponse(results []updater.Result) UpdateResponse {
	var resp UpdateResponse
	for _, res := range results {
		if res.Skipped != "" {
			resp.Skipped = append(resp.Skipped, SkippedSheet{Sheet: res.Sheet, Reason: res.Skipped})
			continue
		}
		resp.Updated = append(resp.Updated, res.Sheet)
	}
	return resp
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"message":"internal error"}`)
	}
	sendResponse(w, status, body)
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
