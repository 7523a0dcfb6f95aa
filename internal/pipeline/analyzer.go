package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

// Analyzer coordinates one analysis run: discover the universe, fetch
// quotes through the cache-backed aggregator, build the shortlist and
// attach the stage routing metadata the downstream stages will use.
type Analyzer struct {
	aggregator  *marketdata.Aggregator
	shortlister *Shortlister
	cfg         settings.Settings
	log         *logger.Logger
}

// RunRequest describes one analysis run.
type RunRequest struct {
	// Symbols overrides discovery when non-empty.
	Symbols      []string
	Intent       settings.TradingIntent
	Risk         settings.RiskTolerance
	MaxShortlist int
}

// RunResult is the output of one analysis run.
type RunResult struct {
	RunID        string                    `json:"run_id"`
	Plan         *ShortlistPlan            `json:"plan"`
	Universe     []string                  `json:"universe"`
	QuoteSources map[string]string         `json:"quote_sources"`
	StageRouting map[ai.Stage]ai.Selection `json:"stage_routing"`
	SettingsHash string                    `json:"settings_hash"`
	Duration     time.Duration             `json:"duration"`
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(aggregator *marketdata.Aggregator, cfg settings.Settings, log *logger.Logger) *Analyzer {
	return &Analyzer{
		aggregator:  aggregator,
		shortlister: NewShortlister(cfg, log),
		cfg:         cfg,
		log:         log,
	}
}

// Settings returns the configuration this analyzer was built with.
func (a *Analyzer) Settings() settings.Settings {
	return a.cfg
}

// Run executes the staged pipeline once.
func (a *Analyzer) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()

	if req.Intent == "" {
		req.Intent = settings.IntentSwing
	}
	if req.Risk == "" {
		req.Risk = settings.RiskModerate
	}
	if req.MaxShortlist < 0 {
		return nil, fmt.Errorf("%w: max_shortlist must be >= 0", marketdata.ErrInvalidInput)
	}

	a.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"intent": string(req.Intent),
		"risk":   string(req.Risk),
	}).Info("Analysis run started")

	// Quote maps key by upper-cased symbol, so the universe must match
	universe := make([]string, 0, len(req.Symbols))
	for _, sym := range req.Symbols {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			universe = append(universe, sym)
		}
	}
	if len(universe) == 0 {
		universe = DiscoverCandidates(a.cfg, req.Intent, req.Risk)
	}

	quotes, err := a.aggregator.GetQuotes(ctx, universe)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	plan, err := a.shortlister.Execute(universe, quotes, req.Intent, req.Risk, req.MaxShortlist)
	if err != nil {
		return nil, err
	}

	quoteSources := make(map[string]string, len(quotes))
	for sym, q := range quotes {
		quoteSources[sym] = string(q.Source)
	}

	routingCfg := a.cfg.RoutingConfig()
	stageRouting := map[ai.Stage]ai.Selection{
		ai.StageShortlist: ai.Resolve(ai.StageShortlist, routingCfg),
		ai.StageVerdict:   ai.Resolve(ai.StageVerdict, routingCfg),
		ai.StageSynthesis: ai.Resolve(ai.StageSynthesis, routingCfg),
		ai.StageDeepDive:  ai.Resolve(ai.StageDeepDive, routingCfg),
	}

	hash, err := settings.Hash(&a.cfg)
	if err != nil {
		return nil, fmt.Errorf("hash settings: %w", err)
	}

	result := &RunResult{
		RunID:        runID,
		Plan:         plan,
		Universe:     universe,
		QuoteSources: quoteSources,
		StageRouting: stageRouting,
		SettingsHash: hash,
		Duration:     time.Since(startTime),
	}

	a.log.WithFields(map[string]interface{}{
		"run_id":    runID,
		"universe":  len(universe),
		"shortlist": len(plan.Shortlist),
		"duration":  result.Duration,
	}).Info("Analysis run completed")

	return result, nil
}
