package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/ai"
)

func TestDefaultValidates(t *testing.T) {
	s := Default()
	require.NoError(t, Validate(&s))
}

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeSettingsFile(t, `
meta:
  profile_id: aggressive-day
  version: "2"
screener:
  min_volume: 2000000
scoring:
  uncertain_band:
    low: 0.4
    high: 0.7
`)

	s, raw, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	assert.Equal(t, "aggressive-day", s.Meta.ProfileID)
	assert.Equal(t, int64(2_000_000), s.Screener.MinVolume)
	assert.Equal(t, 0.4, s.Scoring.UncertainBand.Low)

	// Untouched sections keep their defaults
	assert.Equal(t, 5.0, s.Screener.PriceFloors[IntentDayTrade])
	assert.Equal(t, 1, s.CacheTTL.QuoteMinutes)
}

func TestLoad_AnalysisSection(t *testing.T) {
	path := writeSettingsFile(t, `
meta:
  profile_id: offline
analysis:
  max_shortlist: 3
  include_synthetic: true
`)

	s, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Analysis.MaxShortlist)
	assert.True(t, s.Analysis.IncludeSynthetic)
}

func TestLoad_NegativeMaxShortlistFails(t *testing.T) {
	path := writeSettingsFile(t, `
meta:
  profile_id: bad-max
analysis:
  max_shortlist: -1
`)

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_shortlist")
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	path := writeSettingsFile(t, `
meta:
  profile_id: typo-test
screener:
  min_volum: 100
`)

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidBandFails(t *testing.T) {
	path := writeSettingsFile(t, `
meta:
  profile_id: bad-band
scoring:
  uncertain_band:
    low: 0.8
    high: 0.2
`)

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uncertain_band")
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	s, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "default", s.Meta.ProfileID)
}

func TestHash_Stable(t *testing.T) {
	a := Default()
	b := Default()

	hashA, err := Hash(&a)
	require.NoError(t, err)
	hashB, err := Hash(&b)
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)

	b.Screener.MinVolume = 42
	hashC, err := Hash(&b)
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)
}

func TestRoutingConfig(t *testing.T) {
	s := Default()
	cfg := s.RoutingConfig()

	assert.Equal(t, ai.ProviderOpenAI, cfg.PreferredProvider)
	assert.Equal(t, "gpt-5-mini", cfg.StageModels[ai.StageShortlist])
	assert.Equal(t, "o3", cfg.StageModels[ai.StageDeepDive])
	assert.Equal(t, ai.DepthMedium, cfg.ReasoningDepth)
}
