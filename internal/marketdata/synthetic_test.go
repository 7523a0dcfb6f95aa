package marketdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthetic_Deterministic(t *testing.T) {
	syn := NewSyntheticProvider()
	ctx := context.Background()

	first, err := syn.GetQuotes(ctx, []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	second, err := syn.GetQuotes(ctx, []string{"AAPL", "MSFT"})
	require.NoError(t, err)

	assert.Equal(t, first["AAPL"].Price, second["AAPL"].Price)
	assert.Equal(t, first["MSFT"].Volume, second["MSFT"].Volume)
	assert.NotEqual(t, first["AAPL"].Price, first["MSFT"].Price)
}

func TestSynthetic_ProvenanceTag(t *testing.T) {
	syn := NewSyntheticProvider()
	ctx := context.Background()

	quotes, err := syn.GetQuotes(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, quotes["AAPL"].Source)

	profile, err := syn.GetProfile(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, profile.Source)

	metrics, err := syn.GetMetrics(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, metrics.Source)

	sentiment, err := syn.GetSentiment(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, sentiment.Source)
}

func TestSynthetic_BarsAndScreener(t *testing.T) {
	syn := NewSyntheticProvider()
	ctx := context.Background()

	intraday, err := syn.GetIntraday(ctx, "AAPL", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, intraday)
	for _, bar := range intraday {
		assert.GreaterOrEqual(t, bar.High, bar.Low)
	}

	daily, err := syn.GetDaily(ctx, "AAPL", 30)
	require.NoError(t, err)
	assert.Len(t, daily, 30)

	rows, err := syn.Screen(ctx, ScreenerQuery{VolumeMin: 1, Limit: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	assert.LessOrEqual(t, len(rows), 5)
}

func TestSynthetic_Movers(t *testing.T) {
	syn := NewSyntheticProvider()
	ctx := context.Background()

	gainers, err := syn.GetMovers(ctx, MoversGainers)
	require.NoError(t, err)
	require.NotEmpty(t, gainers)
	for i := 1; i < len(gainers); i++ {
		assert.GreaterOrEqual(t, gainers[i-1].ChangePercent, gainers[i].ChangePercent)
	}

	losers, err := syn.GetMovers(ctx, MoversLosers)
	require.NoError(t, err)
	assert.Equal(t, gainers[0].Symbol, losers[len(losers)-1].Symbol)

	actives, err := syn.GetMovers(ctx, MoversMostActive)
	require.NoError(t, err)
	for i := 1; i < len(actives); i++ {
		assert.GreaterOrEqual(t, actives[i-1].Volume, actives[i].Volume)
	}

	_, err = syn.GetMovers(ctx, MoverKind("sideways"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSynthetic_HonorsCancellation(t *testing.T) {
	syn := NewSyntheticProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := syn.GetQuotes(ctx, []string{"AAPL"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTTLPolicy_ClampsFloor(t *testing.T) {
	policy := TTLPolicyFromMinutes(0, 10, 1440, 1440, 1440, 30)

	assert.Equal(t, minTTL, policy.Quote, "sub-minute values clamp to the floor")
	assert.Equal(t, DefaultTTLPolicy().Intraday, policy.Intraday)
	assert.Equal(t, DefaultTTLPolicy().Daily, policy.Daily)
}
