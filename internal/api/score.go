package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ktsort/ktsort/pkg/record"
	"github.com/ktsort/ktsort/pkg/scoring"
	"github.com/ktsort/ktsort/pkg/surface"
)

// ScoreRequest is the body of POST /v1/score.
type ScoreRequest struct {
	Records []record.AnswerRecord `json:"records"`
}

// ScoreResponse is returned by POST /v1/score.
type ScoreResponse struct {
	RunID   string               `json:"run_id"`
	Results []surface.RecordView `json:"results"`
}

func (h *Handler) handleScoreJSON(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, statusForBodyError(err), "invalid request body: "+err.Error())
		return
	}

	runID, results, err := h.score(r.Context(), req.Records)
	if err != nil {
		h.logger.Error("Scoring request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	resp := ScoreResponse{RunID: runID, Results: make([]surface.RecordView, len(results))}
	for i, res := range results {
		resp.Results[i] = surface.NewRecordView(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleScoreText(w http.ResponseWriter, r *http.Request) {
	records, err := record.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, statusForBodyError(err), "invalid request body: "+err.Error())
		return
	}

	runID, results, err := h.score(r.Context(), records)
	if err != nil {
		h.logger.Error("Scoring request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	var buf bytes.Buffer
	if err := (&surface.TextRenderer{}).Render(&buf, results); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// score runs one batch and records it when a store is configured.
func (h *Handler) score(ctx context.Context, records []record.AnswerRecord) (string, []scoring.Result, error) {
	runID := uuid.New().String()
	results, err := h.runner.ScoreAll(ctx, records)
	if err != nil {
		return "", nil, err
	}
	if h.store != nil {
		if err := h.store.SaveRun(ctx, runID, "api", results); err != nil {
			return "", nil, err
		}
	}
	h.logger.Info("Scored records", zap.String("run_id", runID), zap.Int("records", len(results)))
	return runID, results, nil
}

func statusForBodyError(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
