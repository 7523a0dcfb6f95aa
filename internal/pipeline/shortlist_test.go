package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/ai"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

func testShortlister() *Shortlister {
	return NewShortlister(settings.Default(), logger.NewNop())
}

func quoteWith(symbol string, price float64, volume int64, change float64) marketdata.Quote {
	return marketdata.Quote{
		Symbol:        symbol,
		Price:         price,
		Volume:        volume,
		Timestamp:     time.Now(),
		ChangePercent: change,
		Source:        marketdata.SourceFinnhub,
	}
}

func TestExecute_NegativeBoundFailsFast(t *testing.T) {
	_, err := testShortlister().Execute([]string{"AAPL"}, nil, settings.IntentSwing, settings.RiskModerate, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrInvalidInput)
}

func TestExecute_ZeroBoundYieldsEmptyPlan(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAPL": quoteWith("AAPL", 231.5, 48_000_000, 1.2),
		"MSFT": quoteWith("MSFT", 420.0, 22_000_000, 0.4),
	}

	plan, err := testShortlister().Execute([]string{"AAPL", "MSFT"}, quotes, settings.IntentSwing, settings.RiskModerate, 0)
	require.NoError(t, err)
	assert.Empty(t, plan.Shortlist)
	assert.NotEmpty(t, plan.LimitsApplied)
}

func TestExecute_MissingQuoteRecordedNotFatal(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAPL": quoteWith("AAPL", 231.5, 48_000_000, 1.2),
	}

	plan, err := testShortlister().Execute([]string{"AAPL", "GHOST"}, quotes, settings.IntentSwing, settings.RiskModerate, 5)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 1)
	assert.Equal(t, "AAPL", plan.Shortlist[0].Symbol)

	found := false
	for _, note := range plan.LimitsApplied {
		if note == "GHOST: no quote available, skipped" {
			found = true
		}
	}
	assert.True(t, found, "missing quote must be recorded: %v", plan.LimitsApplied)
}

func TestExecute_AllFiltered(t *testing.T) {
	// Everything priced below the swing floor of 20
	quotes := map[string]marketdata.Quote{
		"PENNY": quoteWith("PENNY", 2.0, 5_000_000, 0.5),
		"CHEAP": quoteWith("CHEAP", 11.0, 5_000_000, 0.5),
	}

	plan, err := testShortlister().Execute([]string{"PENNY", "CHEAP"}, quotes, settings.IntentSwing, settings.RiskModerate, 5)
	require.NoError(t, err)
	assert.Empty(t, plan.Shortlist)
	assert.Len(t, plan.LimitsApplied, 2)
}

func TestExecute_TruncationRecorded(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAA": quoteWith("AAA", 100, 10_000_000, 3.0),
		"BBB": quoteWith("BBB", 100, 10_000_000, 2.0),
		"CCC": quoteWith("CCC", 100, 10_000_000, 1.0),
		"DDD": quoteWith("DDD", 100, 10_000_000, 0.5),
	}

	plan, err := testShortlister().Execute([]string{"AAA", "BBB", "CCC", "DDD"}, quotes, settings.IntentSwing, settings.RiskModerate, 2)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 2)

	// Descending priority
	assert.Equal(t, "AAA", plan.Shortlist[0].Symbol)
	assert.Equal(t, "BBB", plan.Shortlist[1].Symbol)
	assert.Greater(t, plan.Shortlist[0].Priority, plan.Shortlist[1].Priority)

	assert.Contains(t, plan.LimitsApplied, "2 candidates exceeded max shortlist size and were omitted")
}

func TestExecute_LexicographicTieBreak(t *testing.T) {
	// Identical quotes produce identical priorities
	quotes := map[string]marketdata.Quote{
		"ZZZ": quoteWith("ZZZ", 100, 10_000_000, 1.0),
		"AAA": quoteWith("AAA", 100, 10_000_000, 1.0),
		"MMM": quoteWith("MMM", 100, 10_000_000, 1.0),
	}

	plan, err := testShortlister().Execute([]string{"ZZZ", "AAA", "MMM"}, quotes, settings.IntentSwing, settings.RiskModerate, 3)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 3)

	assert.Equal(t, "AAA", plan.Shortlist[0].Symbol)
	assert.Equal(t, "MMM", plan.Shortlist[1].Symbol)
	assert.Equal(t, "ZZZ", plan.Shortlist[2].Symbol)
}

func TestExecute_MomentumDirectionPerIntent(t *testing.T) {
	// Identical except for the size of the day's move, both under the
	// moderate 10% ceiling
	quotes := map[string]marketdata.Quote{
		"STEADY": quoteWith("STEADY", 150, 30_000_000, 0.5),
		"WILD":   quoteWith("WILD", 150, 30_000_000, 8.0),
	}
	universe := []string{"STEADY", "WILD"}

	// Long-term investors want the steady name, not the big mover
	plan, err := testShortlister().Execute(universe, quotes, settings.IntentLongTerm, settings.RiskModerate, 2)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 2)
	assert.Equal(t, "STEADY", plan.Shortlist[0].Symbol)
	assert.Equal(t, "WILD", plan.Shortlist[1].Symbol)

	// Day traders rank the mover first
	plan, err = testShortlister().Execute(universe, quotes, settings.IntentDayTrade, settings.RiskModerate, 2)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 2)
	assert.Equal(t, "WILD", plan.Shortlist[0].Symbol)
	assert.Equal(t, "STEADY", plan.Shortlist[1].Symbol)
}

func TestExecute_Reproducible(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAPL": quoteWith("AAPL", 231.5, 48_000_000, 1.2),
		"MSFT": quoteWith("MSFT", 420.0, 22_000_000, 0.4),
		"NVDA": quoteWith("NVDA", 180.0, 60_000_000, 2.5),
	}
	universe := []string{"AAPL", "MSFT", "NVDA"}

	first, err := testShortlister().Execute(universe, quotes, settings.IntentSwing, settings.RiskModerate, 3)
	require.NoError(t, err)
	second, err := testShortlister().Execute(universe, quotes, settings.IntentSwing, settings.RiskModerate, 3)
	require.NoError(t, err)

	require.Len(t, second.Shortlist, len(first.Shortlist))
	for i := range first.Shortlist {
		assert.Equal(t, first.Shortlist[i].Symbol, second.Shortlist[i].Symbol)
		assert.Equal(t, first.Shortlist[i].Priority, second.Shortlist[i].Priority)
	}
}

func TestExecute_AvoidInvariants(t *testing.T) {
	// Conservative ceiling is 5%, so an 8% move gets flagged
	quotes := map[string]marketdata.Quote{
		"WILD": quoteWith("WILD", 150, 30_000_000, 8.0),
		"CALM": quoteWith("CALM", 150, 30_000_000, 1.0),
	}

	plan, err := testShortlister().Execute([]string{"WILD", "CALM"}, quotes, settings.IntentSwing, settings.RiskConservative, 5)
	require.NoError(t, err)

	var wild *ShortlistItem
	for i := range plan.Shortlist {
		if plan.Shortlist[i].Symbol == "WILD" {
			wild = &plan.Shortlist[i]
		}
	}
	require.NotNil(t, wild, "flagged candidate should surface as an avoid item")
	assert.True(t, wild.Avoid)
	assert.NotEmpty(t, wild.RiskFlags)
	assert.False(t, wild.RequestedEnrichment, "avoid items never request enrichment")
	assert.Nil(t, wild.Enrichment)
}

func TestExecute_UncertainBandRequestsEnrichment(t *testing.T) {
	// MSFT's score lands inside the default 0.35..0.65 band
	quotes := map[string]marketdata.Quote{
		"MSFT": quoteWith("MSFT", 420.0, 22_000_000, 0.4),
	}

	plan, err := testShortlister().Execute([]string{"MSFT"}, quotes, settings.IntentSwing, settings.RiskModerate, 1)
	require.NoError(t, err)
	require.Len(t, plan.Shortlist, 1)

	item := plan.Shortlist[0]
	assert.True(t, item.RequestedEnrichment)
	require.NotNil(t, item.Enrichment)
	assert.Equal(t, "gpt-5-mini", item.Enrichment.ModelID)
	assert.Equal(t, ai.DialectOpenAIResponses, item.Enrichment.Dialect)
}

func TestExecute_OutputSubsetOfInput(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAPL": quoteWith("AAPL", 231.5, 48_000_000, 1.2),
		"MSFT": quoteWith("MSFT", 420.0, 22_000_000, 0.4),
	}
	universe := []string{"AAPL", "MSFT"}

	plan, err := testShortlister().Execute(universe, quotes, settings.IntentSwing, settings.RiskModerate, 10)
	require.NoError(t, err)

	allowed := map[string]bool{"AAPL": true, "MSFT": true}
	for _, item := range plan.Shortlist {
		assert.True(t, allowed[item.Symbol], "symbol %s was not in the input universe", item.Symbol)
	}
	assert.LessOrEqual(t, len(plan.Shortlist), 10)
}

func TestExecute_EndToEndScenario(t *testing.T) {
	quotes := map[string]marketdata.Quote{
		"AAPL": quoteWith("AAPL", 231.5, 48_000_000, 1.2),
		"TSLA": quoteWith("TSLA", 250.0, 500_000, 2.0), // below the 1M volume floor
		"MSFT": quoteWith("MSFT", 420.0, 22_000_000, 0.4),
	}

	plan, err := testShortlister().Execute([]string{"AAPL", "TSLA", "MSFT"}, quotes, settings.IntentSwing, settings.RiskModerate, 1)
	require.NoError(t, err)

	require.Len(t, plan.Shortlist, 1)
	assert.Equal(t, "AAPL", plan.Shortlist[0].Symbol)

	var volumeNote, truncationNote bool
	for _, note := range plan.LimitsApplied {
		switch note {
		case "TSLA: volume 500000 below 1000000 floor, excluded":
			volumeNote = true
		case "1 candidates exceeded max shortlist size and were omitted":
			truncationNote = true
		}
	}
	assert.True(t, volumeNote, "volume exclusion must be recorded: %v", plan.LimitsApplied)
	assert.True(t, truncationNote, "truncation must be recorded: %v", plan.LimitsApplied)
}

func TestExecute_SyntheticDataNoted(t *testing.T) {
	q := quoteWith("AAPL", 231.5, 48_000_000, 1.2)
	q.Source = marketdata.SourceSynthetic

	plan, err := testShortlister().Execute([]string{"AAPL"}, map[string]marketdata.Quote{"AAPL": q}, settings.IntentSwing, settings.RiskModerate, 1)
	require.NoError(t, err)

	assert.Contains(t, plan.GlobalNotes, "plan includes synthetic data; configure API keys for live quotes")
}
