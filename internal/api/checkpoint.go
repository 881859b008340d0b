package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pyldin601/long-long-job/internal/app/checkpointlist"
	"github.com/pyldin601/long-long-job/internal/app/checkpointremove"
	"github.com/pyldin601/long-long-job/internal/app/checkpointshow"
	"github.com/pyldin601/long-long-job/internal/model"
	"github.com/pyldin601/long-long-job/internal/printer"
)

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h handler) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	cps, err := h.listSvc.Run(r.Context(), checkpointlist.Request{})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONHeader(w, http.StatusOK)
	if err := printer.NewJSONPrinter(w).PrintCheckpointList(cps); err != nil {
		h.logger.Errorf("could not encode checkpoints: %s", err)
	}
}

func (h handler) handleGetCheckpoint(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobIDParam(w, r)
	if !ok {
		return
	}

	cp, err := h.showSvc.Run(r.Context(), checkpointshow.Request{JobID: jobID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONHeader(w, http.StatusOK)
	if err := printer.NewJSONPrinter(w).PrintCheckpoint(*cp); err != nil {
		h.logger.Errorf("could not encode checkpoint: %s", err)
	}
}

func (h handler) handleDeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.jobIDParam(w, r)
	if !ok {
		return
	}

	_, err := h.removeSvc.Run(r.Context(), checkpointremove.Request{JobID: jobID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// jobIDParam returns the unescaped job ID, job IDs may contain escaped slashes.
func (h handler) jobIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	jobID, err := url.PathUnescape(chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return "", false
	}
	return jobID, true
}

func (h handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotValid):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.logger.Errorf("request failed: %s", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h handler) writeJSONHeader(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
}

func (h handler) writeJSON(w http.ResponseWriter, status int, v any) {
	h.writeJSONHeader(w, status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("could not encode response: %s", err)
	}
}
