package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/settings"
)

// DiscoverCandidates builds the candidate universe for one intent and
// risk profile from the curated lists: conservative users drop the
// high-beta names, aggressive users pick up the speculative extras.
func DiscoverCandidates(cfg settings.Settings, intent settings.TradingIntent, risk settings.RiskTolerance) []string {
	base := cfg.Discovery.Universes[intent]
	if len(base) == 0 {
		base = cfg.Discovery.Universes[settings.IntentSwing]
	}

	seen := make(map[string]bool, len(base))
	universe := make([]string, 0, len(base))
	add := func(symbol string) {
		sym := strings.ToUpper(symbol)
		if !seen[sym] {
			seen[sym] = true
			universe = append(universe, sym)
		}
	}
	for _, sym := range base {
		add(sym)
	}

	switch risk {
	case settings.RiskConservative:
		excluded := make(map[string]bool, len(cfg.Discovery.ConservativeExclude))
		for _, sym := range cfg.Discovery.ConservativeExclude {
			excluded[strings.ToUpper(sym)] = true
		}
		kept := universe[:0]
		for _, sym := range universe {
			if !excluded[sym] {
				kept = append(kept, sym)
			}
		}
		universe = kept
	case settings.RiskAggressive:
		for _, sym := range cfg.Discovery.AggressiveExtra {
			add(sym)
		}
	}

	return universe
}

// DiscoverFromScreener widens the universe with a live screener scan,
// falling back to the curated list when no screener source answers.
func DiscoverFromScreener(ctx context.Context, agg *marketdata.Aggregator, cfg settings.Settings, intent settings.TradingIntent, risk settings.RiskTolerance, limit int) ([]string, error) {
	curated := DiscoverCandidates(cfg, intent, risk)

	rows, err := agg.Screen(ctx, marketdata.ScreenerQuery{
		PriceMin:  cfg.Screener.PriceFloors[intent],
		VolumeMin: cfg.Screener.MinVolume,
		Limit:     limit,
	})
	if err != nil {
		return curated, nil
	}

	seen := make(map[string]bool, len(curated))
	universe := make([]string, 0, len(curated)+len(rows))
	for _, sym := range curated {
		seen[sym] = true
		universe = append(universe, sym)
	}

	extras := make([]string, 0, len(rows))
	for _, row := range rows {
		sym := strings.ToUpper(row.Symbol)
		if !seen[sym] {
			seen[sym] = true
			extras = append(extras, sym)
		}
	}
	// Screener extras in stable order after the curated core
	sort.Strings(extras)
	return append(universe, extras...), nil
}
