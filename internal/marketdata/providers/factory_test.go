package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/logger"
)

func TestBuild_NoCredentials(t *testing.T) {
	reg := Build(Options{}, logger.NewNop())

	// Every chain falls back to the synthetic adapter
	for _, status := range reg.Status() {
		require.Len(t, status.Sources, 1, "capability %s", status.Capability)
		assert.Equal(t, "synthetic", status.Sources[0])
	}
}

func TestBuild_QuotePriorityOrder(t *testing.T) {
	reg := Build(Options{
		Credentials: marketdata.Credentials{
			AlpacaKey:     "k",
			AlpacaSecret:  "s",
			FinnhubKey:    "fh",
			FMPKey:        "fmp",
			TwelveDataKey: "td",
		},
	}, logger.NewNop())

	var quotes []string
	for _, p := range reg.Quotes {
		quotes = append(quotes, string(p.Name()))
	}
	assert.Equal(t, []string{"alpaca", "finnhub", "fmp", "twelvedata"}, quotes)
}

func TestBuild_FundamentalsPreferFMP(t *testing.T) {
	reg := Build(Options{
		Credentials: marketdata.Credentials{FinnhubKey: "fh", FMPKey: "fmp"},
	}, logger.NewNop())

	var profiles []string
	for _, p := range reg.Profiles {
		profiles = append(profiles, string(p.Name()))
	}
	assert.Equal(t, []string{"fmp", "finnhub"}, profiles)
}

func TestBuild_IncompleteAlpacaPairExcluded(t *testing.T) {
	reg := Build(Options{
		Credentials: marketdata.Credentials{AlpacaKey: "key-without-secret", FinnhubKey: "fh"},
	}, logger.NewNop())

	for _, p := range reg.Quotes {
		assert.NotEqual(t, marketdata.SourceAlpaca, p.Name(),
			"half an Alpaca pair must not credential the adapter")
	}
}

func TestBuild_IncludeSyntheticAlways(t *testing.T) {
	reg := Build(Options{
		Credentials:      marketdata.Credentials{FinnhubKey: "fh"},
		IncludeSynthetic: true,
	}, logger.NewNop())

	last := reg.Quotes[len(reg.Quotes)-1]
	assert.Equal(t, marketdata.SourceSynthetic, last.Name())
	assert.Greater(t, len(reg.Quotes), 1)
}
