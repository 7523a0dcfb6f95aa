package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtrask/sift/internal/history"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/pipeline"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

// AnalyzeHandler handles analysis run API endpoints.
type AnalyzeHandler struct {
	analyzer *pipeline.Analyzer
	history  *history.Repository
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler. The history repository
// may be nil when persistence is disabled.
func NewAnalyzeHandler(analyzer *pipeline.Analyzer, hist *history.Repository, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		history:  hist,
		logger:   log,
	}
}

// AnalyzeRequest represents an analysis run request.
type AnalyzeRequest struct {
	Symbols      []string `json:"symbols"`       // Optional: overrides discovery
	Intent       string   `json:"intent"`        // day_trade, swing, long_term
	Risk         string   `json:"risk"`          // conservative, moderate, aggressive
	MaxShortlist *int     `json:"max_shortlist"` // Optional: defaults to the settings value
}

// Analyze runs the staged pipeline once and returns the plan.
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	intent := settings.TradingIntent(req.Intent)
	if req.Intent != "" && !settings.ValidIntent(intent) {
		respondError(w, http.StatusBadRequest, "Invalid intent (valid: day_trade, swing, long_term)")
		return
	}

	risk := settings.RiskTolerance(req.Risk)
	if req.Risk != "" && !settings.ValidRisk(risk) {
		respondError(w, http.StatusBadRequest, "Invalid risk (valid: conservative, moderate, aggressive)")
		return
	}

	maxShortlist := h.analyzer.Settings().Analysis.MaxShortlist
	if req.MaxShortlist != nil {
		maxShortlist = *req.MaxShortlist
	}

	result, err := h.analyzer.Run(ctx, pipeline.RunRequest{
		Symbols:      req.Symbols,
		Intent:       intent,
		Risk:         risk,
		MaxShortlist: maxShortlist,
	})
	if err != nil {
		switch {
		case errors.Is(err, marketdata.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, marketdata.ErrNoData):
			respondError(w, http.StatusBadGateway, "No market data available for request")
		default:
			h.logger.WithError(err).Error("Analysis run failed")
			respondError(w, http.StatusInternalServerError, "Analysis run failed")
		}
		return
	}

	if h.history != nil {
		if err := h.history.SaveRun(ctx, result); err != nil {
			h.logger.WithError(err).Warn("Failed to persist analysis run")
		}
	}

	respondJSON(w, http.StatusOK, result)
}
