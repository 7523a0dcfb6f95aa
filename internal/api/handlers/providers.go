package handlers

import (
	"net/http"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/logger"
)

// ProvidersHandler reports the composed provider chains.
type ProvidersHandler struct {
	registry *marketdata.Registry
	logger   *logger.Logger
}

// NewProvidersHandler creates a new providers handler.
func NewProvidersHandler(registry *marketdata.Registry, log *logger.Logger) *ProvidersHandler {
	return &ProvidersHandler{
		registry: registry,
		logger:   log,
	}
}

// Status returns each capability with its fallback chain in priority order.
// GET /api/providers/status
func (h *ProvidersHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"capabilities": h.registry.Status(),
	})
}
