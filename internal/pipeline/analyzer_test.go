package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

func syntheticAnalyzer(cfg settings.Settings) *Analyzer {
	reg := &marketdata.Registry{}
	reg.EnsureFallback(marketdata.NewSyntheticProvider(), false)
	agg := marketdata.NewAggregator(reg, marketdata.DefaultTTLPolicy(), logger.NewNop())
	return NewAnalyzer(agg, cfg, logger.NewNop())
}

func TestAnalyzer_RunOffline(t *testing.T) {
	analyzer := syntheticAnalyzer(settings.Default())

	result, err := analyzer.Run(context.Background(), RunRequest{
		Intent:       settings.IntentSwing,
		Risk:         settings.RiskModerate,
		MaxShortlist: 5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.NotEmpty(t, result.Universe)
	assert.NotEmpty(t, result.SettingsHash)
	assert.LessOrEqual(t, len(result.Plan.Shortlist), 5)

	// Offline runs are entirely synthetic-backed
	for sym, source := range result.QuoteSources {
		assert.Equal(t, string(marketdata.SourceSynthetic), source, "symbol %s", sym)
	}

	// Every stage has a routing decision
	require.Len(t, result.StageRouting, 4)
	assert.Equal(t, ai.DialectOpenAIResponses, result.StageRouting[ai.StageVerdict].Dialect)
}

func TestAnalyzer_ExplicitSymbolsSkipDiscovery(t *testing.T) {
	analyzer := syntheticAnalyzer(settings.Default())

	result, err := analyzer.Run(context.Background(), RunRequest{
		Symbols:      []string{"AAPL", "MSFT"},
		Intent:       settings.IntentDayTrade,
		Risk:         settings.RiskAggressive,
		MaxShortlist: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, result.Universe)
}

func TestAnalyzer_NormalizesSymbolCase(t *testing.T) {
	analyzer := syntheticAnalyzer(settings.Default())

	result, err := analyzer.Run(context.Background(), RunRequest{
		Symbols:      []string{"aapl", " msft "},
		Intent:       settings.IntentSwing,
		Risk:         settings.RiskModerate,
		MaxShortlist: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, result.Universe)
	assert.Contains(t, result.QuoteSources, "AAPL")
	assert.Contains(t, result.QuoteSources, "MSFT")

	// Fetched quotes must never be dropped as missing
	for _, note := range result.Plan.LimitsApplied {
		assert.NotContains(t, note, "no quote available")
	}
}

func TestAnalyzer_InvalidBound(t *testing.T) {
	analyzer := syntheticAnalyzer(settings.Default())

	_, err := analyzer.Run(context.Background(), RunRequest{MaxShortlist: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrInvalidInput)
}

func TestAnalyzer_Cancellation(t *testing.T) {
	analyzer := syntheticAnalyzer(settings.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Run(ctx, RunRequest{MaxShortlist: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverCandidates(t *testing.T) {
	cfg := settings.Default()

	swing := DiscoverCandidates(cfg, settings.IntentSwing, settings.RiskModerate)
	assert.NotEmpty(t, swing)

	conservative := DiscoverCandidates(cfg, settings.IntentSwing, settings.RiskConservative)
	assert.NotContains(t, conservative, "TSLA")
	assert.NotContains(t, conservative, "NVDA")

	aggressive := DiscoverCandidates(cfg, settings.IntentSwing, settings.RiskAggressive)
	assert.Contains(t, aggressive, "PLTR")
	assert.Contains(t, aggressive, "GME")

	// No duplicates
	seen := map[string]bool{}
	for _, sym := range aggressive {
		assert.False(t, seen[sym], "duplicate %s", sym)
		seen[sym] = true
	}
}

func TestDiscoverCandidates_FallsBackToSwingUniverse(t *testing.T) {
	cfg := settings.Default()
	delete(cfg.Discovery.Universes, settings.IntentLongTerm)

	universe := DiscoverCandidates(cfg, settings.IntentLongTerm, settings.RiskModerate)
	assert.Equal(t, DiscoverCandidates(cfg, settings.IntentSwing, settings.RiskModerate), universe)
}
