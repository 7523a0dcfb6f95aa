package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dtrask/sift/internal/history"
	"github.com/dtrask/sift/pkg/logger"
)

// RunsHandler serves persisted analysis runs.
type RunsHandler struct {
	history *history.Repository
	logger  *logger.Logger
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(hist *history.Repository, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		history: hist,
		logger:  log,
	}
}

// List returns recent analysis runs, newest first.
// GET /api/runs?limit=20
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history requires database persistence")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected positive integer)")
			return
		}
		limit = n
	}

	runs, err := h.history.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

// Get returns one analysis run by id.
// GET /api/runs/{id}
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history requires database persistence")
		return
	}

	runID := mux.Vars(r)["id"]

	run, err := h.history.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	respondJSON(w, http.StatusOK, run)
}
