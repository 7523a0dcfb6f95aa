// Package pipeline turns a symbol universe and fresh quotes into a
// bounded, explainable shortlist. Scoring and filtering are pure
// computations; all data fetching happens upstream in the aggregator.
package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

// ShortlistItem is one ranked candidate.
type ShortlistItem struct {
	Symbol              string        `json:"symbol"`
	Priority            float64       `json:"priority"`
	Reasons             []string      `json:"reasons"`
	RequestedEnrichment bool          `json:"requested_enrichment"`
	Avoid               bool          `json:"avoid"`
	RiskFlags           []string      `json:"risk_flags,omitempty"`
	Enrichment          *ai.Selection `json:"enrichment,omitempty"`
}

// ShortlistPlan is the immutable result of one pipeline invocation.
type ShortlistPlan struct {
	Shortlist     []ShortlistItem        `json:"shortlist"`
	GlobalNotes   []string               `json:"global_notes"`
	LimitsApplied []string               `json:"limits_applied"`
	Intent        settings.TradingIntent `json:"intent"`
	Risk          settings.RiskTolerance `json:"risk"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

// Shortlister scores and bounds candidate universes.
type Shortlister struct {
	cfg settings.Settings
	log *logger.Logger
}

// NewShortlister creates a shortlister over an immutable settings value.
func NewShortlister(cfg settings.Settings, log *logger.Logger) *Shortlister {
	return &Shortlister{cfg: cfg, log: log}
}

// scored is a candidate that survived filtering.
type scored struct {
	quote    marketdata.Quote
	priority float64
	reasons  []string
}

// Execute runs filter, score, flag, bound and route over the universe.
// It fails only on structurally invalid input; a missing quote for a
// listed symbol is recorded and the symbol skipped.
func (s *Shortlister) Execute(symbols []string, quotes map[string]marketdata.Quote, intent settings.TradingIntent, risk settings.RiskTolerance, maxShortlist int) (*ShortlistPlan, error) {
	if maxShortlist < 0 {
		return nil, fmt.Errorf("%w: maxShortlist must be >= 0, got %d", marketdata.ErrInvalidInput, maxShortlist)
	}

	plan := &ShortlistPlan{
		Shortlist:     []ShortlistItem{},
		GlobalNotes:   []string{},
		LimitsApplied: []string{},
		Intent:        intent,
		Risk:          risk,
		GeneratedAt:   time.Now(),
	}

	if maxShortlist == 0 {
		plan.LimitsApplied = append(plan.LimitsApplied, "shortlist size 0 requested; no candidates scored")
		return plan, nil
	}

	priceFloor := s.cfg.Screener.PriceFloors[intent]
	minVolume := s.cfg.Screener.MinVolume
	ceiling := s.cfg.Scoring.VolatilityCeilings[risk]
	if ceiling <= 0 {
		ceiling = 10.0
	}
	appetite := s.cfg.Scoring.RiskAppetite[risk]
	if appetite <= 0 {
		appetite = 1.0
	}
	weights := s.cfg.Scoring.Weights[intent]
	if weights.Momentum+weights.Liquidity <= 0 {
		weights = settings.IntentWeights{Momentum: 0.5, Liquidity: 0.5}
	}

	// Filter
	var candidates []scored
	var avoided []ShortlistItem
	syntheticBacked := false
	for _, symbol := range symbols {
		quote, ok := quotes[symbol]
		if !ok {
			plan.LimitsApplied = append(plan.LimitsApplied, fmt.Sprintf("%s: no quote available, skipped", symbol))
			continue
		}
		if quote.Source == marketdata.SourceSynthetic {
			syntheticBacked = true
		}
		if quote.Price <= 0 {
			plan.LimitsApplied = append(plan.LimitsApplied, fmt.Sprintf("%s: non-positive price, excluded", symbol))
			continue
		}
		if quote.Price < priceFloor {
			plan.LimitsApplied = append(plan.LimitsApplied,
				fmt.Sprintf("%s: price %.2f below %.2f floor for %s, excluded", symbol, quote.Price, priceFloor, intent))
			continue
		}
		if quote.Volume < minVolume {
			plan.LimitsApplied = append(plan.LimitsApplied,
				fmt.Sprintf("%s: volume %d below %d floor, excluded", symbol, quote.Volume, minVolume))
			continue
		}

		// Flag before scoring: elevated volatility is re-surfaced as an
		// avoid item instead of competing for shortlist slots.
		if math.Abs(quote.ChangePercent) > ceiling {
			avoided = append(avoided, ShortlistItem{
				Symbol:   symbol,
				Priority: 0,
				Reasons:  []string{fmt.Sprintf("moved %+.2f%% today", quote.ChangePercent)},
				Avoid:    true,
				RiskFlags: []string{
					fmt.Sprintf("volatility %.2f%% exceeds %.2f%% ceiling for %s risk", math.Abs(quote.ChangePercent), ceiling, risk),
				},
			})
			continue
		}

		priority, reasons := s.score(quote, intent, weights, appetite, ceiling, minVolume)
		candidates = append(candidates, scored{quote: quote, priority: priority, reasons: reasons})
	}

	// Bound: priority descending, lexicographic tie-break keeps output
	// reproducible for identical inputs
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].quote.Symbol < candidates[j].quote.Symbol
	})
	if truncated := len(candidates) - maxShortlist; truncated > 0 {
		candidates = candidates[:maxShortlist]
		plan.LimitsApplied = append(plan.LimitsApplied,
			fmt.Sprintf("%d candidates exceeded max shortlist size and were omitted", truncated))
	}

	// Route
	band := s.cfg.Scoring.UncertainBand
	var routed *ai.Selection
	for _, c := range candidates {
		item := ShortlistItem{
			Symbol:   c.quote.Symbol,
			Priority: c.priority,
			Reasons:  c.reasons,
		}
		if c.priority >= band.Low && c.priority <= band.High {
			if routed == nil {
				sel := ai.Resolve(ai.StageShortlist, s.cfg.RoutingConfig())
				routed = &sel
			}
			item.RequestedEnrichment = true
			item.Enrichment = routed
			item.Reasons = append(item.Reasons, "score in uncertain band, deeper analysis requested")
		}
		plan.Shortlist = append(plan.Shortlist, item)
	}

	// Avoid items ride along in leftover slots as explicit warnings
	sort.Slice(avoided, func(i, j int) bool { return avoided[i].Symbol < avoided[j].Symbol })
	for _, item := range avoided {
		if len(plan.Shortlist) >= maxShortlist {
			plan.GlobalNotes = append(plan.GlobalNotes, fmt.Sprintf("%s flagged avoid: %s", item.Symbol, item.RiskFlags[0]))
			continue
		}
		plan.Shortlist = append(plan.Shortlist, item)
	}

	if syntheticBacked {
		plan.GlobalNotes = append(plan.GlobalNotes, "plan includes synthetic data; configure API keys for live quotes")
	}

	s.log.WithFields(map[string]interface{}{
		"universe":  len(symbols),
		"shortlist": len(plan.Shortlist),
		"intent":    string(intent),
		"risk":      string(risk),
	}).Info("Shortlist built")

	return plan, nil
}

// score computes the priority in [0, 1] plus its explanation. The
// momentum direction depends on intent: day_trade and swing reward
// positive change, long_term rewards stability and decays with the
// magnitude of the day's move. Both directions are scaled by risk
// appetite; liquidity grows with log volume over the floor.
func (s *Shortlister) score(quote marketdata.Quote, intent settings.TradingIntent, weights settings.IntentWeights, appetite, ceiling float64, minVolume int64) (float64, []string) {
	var momentum float64
	if intent == settings.IntentLongTerm {
		momentum = clamp01(1 - math.Abs(quote.ChangePercent)/(ceiling*appetite))
	} else {
		momentum = clamp01(0.5 + quote.ChangePercent*appetite/(2*ceiling))
	}

	floor := float64(minVolume)
	if floor <= 0 {
		floor = 1
	}
	liquidity := clamp01(0.5 + 0.25*math.Log10(float64(quote.Volume)/floor))

	total := weights.Momentum + weights.Liquidity
	priority := (weights.Momentum*momentum + weights.Liquidity*liquidity) / total

	reasons := []string{
		fmt.Sprintf("momentum %+.2f%% (component %.2f)", quote.ChangePercent, momentum),
		fmt.Sprintf("volume %d (component %.2f)", quote.Volume, liquidity),
	}
	if quote.Source == marketdata.SourceSynthetic {
		reasons = append(reasons, "quote is synthetic")
	}
	return priority, reasons
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
