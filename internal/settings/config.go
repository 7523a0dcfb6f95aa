// Package settings defines the immutable analysis configuration. A
// Settings value is loaded once (or built from defaults), validated,
// and passed explicitly into each component; nothing reads it from
// global state.
package settings

import "github.com/dtrask/sift/internal/ai"

// TradingIntent is the user's holding-period intent.
type TradingIntent string

const (
	IntentDayTrade TradingIntent = "day_trade"
	IntentSwing    TradingIntent = "swing"
	IntentLongTerm TradingIntent = "long_term"
)

// RiskTolerance is the user's appetite for volatility.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// Settings is the complete analysis configuration.
type Settings struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Routing   Routing   `yaml:"routing" json:"routing"`
	Analysis  Analysis  `yaml:"analysis" json:"analysis"`
	Screener  Screener  `yaml:"screener" json:"screener"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	CacheTTL  CacheTTL  `yaml:"cache_ttl" json:"cache_ttl"`
	Discovery Discovery `yaml:"discovery" json:"discovery"`
}

// Meta identifies a settings revision.
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Routing configures model selection per analysis stage.
type Routing struct {
	PreferredProvider string            `yaml:"preferred_provider" json:"preferred_provider"`
	StageProviders    map[string]string `yaml:"stage_providers" json:"stage_providers"`
	StageModels       map[string]string `yaml:"stage_models" json:"stage_models"`
	ReasoningDepth    string            `yaml:"reasoning_depth" json:"reasoning_depth"`
	OutputLength      string            `yaml:"output_length" json:"output_length"`
	Verbosity         string            `yaml:"verbosity" json:"verbosity"`
}

// Analysis holds run-level defaults applied when a caller does not
// override them.
type Analysis struct {
	// MaxShortlist bounds the shortlist size per run.
	MaxShortlist int `yaml:"max_shortlist" json:"max_shortlist"`

	// IncludeSynthetic appends the deterministic offline source to every
	// provider chain even when live credentials are configured.
	IncludeSynthetic bool `yaml:"include_synthetic" json:"include_synthetic"`
}

// Screener holds the tradeability thresholds.
type Screener struct {
	// PriceFloors is the minimum share price per intent. Longer horizons
	// screen to more established names.
	PriceFloors map[TradingIntent]float64 `yaml:"price_floors" json:"price_floors"`

	// MinVolume is the liquidity floor in shares per session.
	MinVolume int64 `yaml:"min_volume" json:"min_volume"`

	RSIOversold    float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	RSIOverbought  float64 `yaml:"rsi_overbought" json:"rsi_overbought"`
	VWAPDipPercent float64 `yaml:"vwap_dip_percent" json:"vwap_dip_percent"`
}

// IntentWeights weighs the scoring components for one intent.
type IntentWeights struct {
	Momentum  float64 `yaml:"momentum" json:"momentum"`
	Liquidity float64 `yaml:"liquidity" json:"liquidity"`
}

// Band is a half-open score interval.
type Band struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Scoring configures the shortlist priority function.
type Scoring struct {
	Weights map[TradingIntent]IntentWeights `yaml:"weights" json:"weights"`

	// VolatilityCeilings is the absolute change-percent beyond which a
	// candidate is flagged avoid, per risk tolerance.
	VolatilityCeilings map[RiskTolerance]float64 `yaml:"volatility_ceilings" json:"volatility_ceilings"`

	// RiskAppetite scales the momentum contribution per risk tolerance.
	RiskAppetite map[RiskTolerance]float64 `yaml:"risk_appetite" json:"risk_appetite"`

	// UncertainBand is the score range where deeper AI reasoning is
	// requested; scores outside it are a clear pass or clear fail.
	UncertainBand Band `yaml:"uncertain_band" json:"uncertain_band"`
}

// CacheTTL holds per-kind cache lifetimes in minutes. Values below one
// minute are clamped upward at policy construction.
type CacheTTL struct {
	QuoteMinutes     int `yaml:"quote_minutes" json:"quote_minutes"`
	IntradayMinutes  int `yaml:"intraday_minutes" json:"intraday_minutes"`
	DailyMinutes     int `yaml:"daily_minutes" json:"daily_minutes"`
	ProfileMinutes   int `yaml:"profile_minutes" json:"profile_minutes"`
	MetricsMinutes   int `yaml:"metrics_minutes" json:"metrics_minutes"`
	SentimentMinutes int `yaml:"sentiment_minutes" json:"sentiment_minutes"`
}

// Discovery configures the curated candidate universes.
type Discovery struct {
	Universes map[TradingIntent][]string `yaml:"universes" json:"universes"`

	// ConservativeExclude lists symbols removed for conservative users.
	ConservativeExclude []string `yaml:"conservative_exclude" json:"conservative_exclude"`

	// AggressiveExtra lists symbols appended for aggressive users.
	AggressiveExtra []string `yaml:"aggressive_extra" json:"aggressive_extra"`
}

// Default returns the stock configuration.
func Default() Settings {
	return Settings{
		Meta: Meta{
			ProfileID: "default",
			Version:   "1",
		},
		Routing: Routing{
			PreferredProvider: string(ai.ProviderOpenAI),
			StageModels: map[string]string{
				string(ai.StageShortlist): "gpt-5-mini",
				string(ai.StageVerdict):   "gpt-5.2",
				string(ai.StageSynthesis): "gpt-5.2",
				string(ai.StageDeepDive):  "o3",
			},
			ReasoningDepth: string(ai.DepthMedium),
			OutputLength:   string(ai.LengthMedium),
			Verbosity:      string(ai.VerbosityMedium),
		},
		Analysis: Analysis{
			MaxShortlist: 10,
		},
		Screener: Screener{
			PriceFloors: map[TradingIntent]float64{
				IntentDayTrade: 5.0,
				IntentSwing:    20.0,
				IntentLongTerm: 100.0,
			},
			MinVolume:      1_000_000,
			RSIOversold:    30,
			RSIOverbought:  70,
			VWAPDipPercent: 1.0,
		},
		Scoring: Scoring{
			Weights: map[TradingIntent]IntentWeights{
				IntentDayTrade: {Momentum: 0.8, Liquidity: 0.2},
				IntentSwing:    {Momentum: 0.6, Liquidity: 0.4},
				IntentLongTerm: {Momentum: 0.3, Liquidity: 0.7},
			},
			VolatilityCeilings: map[RiskTolerance]float64{
				RiskConservative: 5.0,
				RiskModerate:     10.0,
				RiskAggressive:   20.0,
			},
			RiskAppetite: map[RiskTolerance]float64{
				RiskConservative: 0.7,
				RiskModerate:     1.0,
				RiskAggressive:   1.3,
			},
			UncertainBand: Band{Low: 0.35, High: 0.65},
		},
		CacheTTL: CacheTTL{
			QuoteMinutes:     1,
			IntradayMinutes:  10,
			DailyMinutes:     1440,
			ProfileMinutes:   1440,
			MetricsMinutes:   1440,
			SentimentMinutes: 30,
		},
		Discovery: Discovery{
			Universes: map[TradingIntent][]string{
				IntentDayTrade: {"AAPL", "TSLA", "NVDA", "AMD", "META", "AMZN", "MSFT", "GOOGL", "NFLX", "COIN"},
				IntentSwing:    {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AVGO", "CRM", "NFLX"},
				IntentLongTerm: {"AAPL", "MSFT", "GOOGL", "AMZN", "BRK.B", "JPM", "V", "JNJ", "PG", "UNH"},
			},
			ConservativeExclude: []string{"TSLA", "AMD", "NVDA", "NFLX"},
			AggressiveExtra:     []string{"RIOT", "MARA", "PLTR", "SOFI", "AMC", "GME"},
		},
	}
}

// RoutingConfig maps the routing section onto the router's input.
func (s Settings) RoutingConfig() ai.RoutingConfig {
	stageProviders := make(map[ai.Stage]ai.Provider, len(s.Routing.StageProviders))
	for stage, provider := range s.Routing.StageProviders {
		stageProviders[ai.Stage(stage)] = ai.Provider(provider)
	}
	stageModels := make(map[ai.Stage]string, len(s.Routing.StageModels))
	for stage, model := range s.Routing.StageModels {
		stageModels[ai.Stage(stage)] = model
	}
	return ai.RoutingConfig{
		PreferredProvider: ai.Provider(s.Routing.PreferredProvider),
		StageProviders:    stageProviders,
		StageModels:       stageModels,
		ReasoningDepth:    ai.ParseReasoningDepth(s.Routing.ReasoningDepth),
		OutputLength:      ai.ParseOutputLength(s.Routing.OutputLength),
		Verbosity:         ai.ParseVerbosity(s.Routing.Verbosity),
	}
}
