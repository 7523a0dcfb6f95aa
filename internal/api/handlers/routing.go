package handlers

import (
	"net/http"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

// RoutingHandler exposes the model routing table.
type RoutingHandler struct {
	cfg    settings.Settings
	logger *logger.Logger
}

// NewRoutingHandler creates a new routing handler.
func NewRoutingHandler(cfg settings.Settings, log *logger.Logger) *RoutingHandler {
	return &RoutingHandler{
		cfg:    cfg,
		logger: log,
	}
}

// Table returns the resolved selection for every pipeline stage.
// GET /api/routing
func (h *RoutingHandler) Table(w http.ResponseWriter, r *http.Request) {
	routingCfg := h.cfg.RoutingConfig()

	table := map[ai.Stage]ai.Selection{
		ai.StageShortlist: ai.Resolve(ai.StageShortlist, routingCfg),
		ai.StageVerdict:   ai.Resolve(ai.StageVerdict, routingCfg),
		ai.StageSynthesis: ai.Resolve(ai.StageSynthesis, routingCfg),
		ai.StageDeepDive:  ai.Resolve(ai.StageDeepDive, routingCfg),
	}

	respondJSON(w, http.StatusOK, table)
}

// Classify resolves one model identifier to its provider and dialect.
// GET /api/routing/classify?model=gpt-5-mini
func (h *RoutingHandler) Classify(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	if model == "" {
		respondError(w, http.StatusBadRequest, "Missing 'model' query parameter")
		return
	}

	normalized := ai.NormalizeModelID(model)
	dialect := ai.ClassifyModel(model)
	provider := ai.ProviderForDialect(dialect)

	respondJSON(w, http.StatusOK, map[string]string{
		"model":      model,
		"normalized": normalized,
		"provider":   string(provider),
		"dialect":    string(dialect),
		"base_url":   ai.Endpoint(provider),
	})
}
