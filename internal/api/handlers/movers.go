package handlers

import (
	"errors"
	"net/http"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/logger"
)

// MoversHandler serves the market mover listings.
type MoversHandler struct {
	aggregator *marketdata.Aggregator
	logger     *logger.Logger
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(aggregator *marketdata.Aggregator, log *logger.Logger) *MoversHandler {
	return &MoversHandler{
		aggregator: aggregator,
		logger:     log,
	}
}

// Get returns one mover listing.
// GET /api/movers?kind=gainers
func (h *MoversHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind := marketdata.MoverKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = marketdata.MoversGainers
	}
	if !marketdata.ValidMoverKind(kind) {
		respondError(w, http.StatusBadRequest, "Invalid 'kind' (valid: gainers, losers, most_active)")
		return
	}

	movers, err := h.aggregator.GetMovers(ctx, kind)
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) {
			respondError(w, http.StatusBadGateway, "No mover data available")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch movers")
		respondError(w, http.StatusInternalServerError, "Failed to fetch movers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kind":   kind,
		"movers": movers,
	})
}
