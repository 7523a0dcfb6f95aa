package settings

import "fmt"

// ValidationError reports one failed constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validIntents = map[TradingIntent]bool{
	IntentDayTrade: true,
	IntentSwing:    true,
	IntentLongTerm: true,
}

var validRisks = map[RiskTolerance]bool{
	RiskConservative: true,
	RiskModerate:     true,
	RiskAggressive:   true,
}

// ValidIntent reports whether intent is a recognized trading intent.
func ValidIntent(intent TradingIntent) bool {
	return validIntents[intent]
}

// ValidRisk reports whether risk is a recognized risk tolerance.
func ValidRisk(risk RiskTolerance) bool {
	return validRisks[risk]
}

// Validate checks all required constraints. The first violation fails
// the load.
func Validate(s *Settings) error {
	// === Meta ===
	if s.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Analysis ===
	if s.Analysis.MaxShortlist < 0 {
		return ValidationError{"analysis.max_shortlist", "must be >= 0"}
	}

	// === Screener ===
	if s.Screener.MinVolume < 0 {
		return ValidationError{"screener.min_volume", "must be >= 0"}
	}
	for intent, floor := range s.Screener.PriceFloors {
		if !validIntents[intent] {
			return ValidationError{"screener.price_floors", fmt.Sprintf("unknown intent %q", intent)}
		}
		if floor < 0 {
			return ValidationError{"screener.price_floors", "must be >= 0"}
		}
	}
	if s.Screener.RSIOversold >= s.Screener.RSIOverbought {
		return ValidationError{"screener.rsi_oversold", "must be below rsi_overbought"}
	}

	// === Scoring ===
	for intent, w := range s.Scoring.Weights {
		if !validIntents[intent] {
			return ValidationError{"scoring.weights", fmt.Sprintf("unknown intent %q", intent)}
		}
		if w.Momentum < 0 || w.Liquidity < 0 {
			return ValidationError{"scoring.weights", "components must be >= 0"}
		}
		if w.Momentum+w.Liquidity == 0 {
			return ValidationError{"scoring.weights", "at least one component must be > 0"}
		}
	}
	for risk, ceiling := range s.Scoring.VolatilityCeilings {
		if !validRisks[risk] {
			return ValidationError{"scoring.volatility_ceilings", fmt.Sprintf("unknown risk %q", risk)}
		}
		if ceiling <= 0 {
			return ValidationError{"scoring.volatility_ceilings", "must be > 0"}
		}
	}
	for risk, appetite := range s.Scoring.RiskAppetite {
		if !validRisks[risk] {
			return ValidationError{"scoring.risk_appetite", fmt.Sprintf("unknown risk %q", risk)}
		}
		if appetite <= 0 {
			return ValidationError{"scoring.risk_appetite", "must be > 0"}
		}
	}
	band := s.Scoring.UncertainBand
	if band.Low < 0 || band.High > 1 || band.Low >= band.High {
		return ValidationError{"scoring.uncertain_band", "need 0 <= low < high <= 1"}
	}

	// === Cache TTL ===
	// Negative minutes are a configuration mistake; zero is allowed and
	// later clamped to the one-minute floor.
	ttls := map[string]int{
		"cache_ttl.quote_minutes":     s.CacheTTL.QuoteMinutes,
		"cache_ttl.intraday_minutes":  s.CacheTTL.IntradayMinutes,
		"cache_ttl.daily_minutes":     s.CacheTTL.DailyMinutes,
		"cache_ttl.profile_minutes":   s.CacheTTL.ProfileMinutes,
		"cache_ttl.metrics_minutes":   s.CacheTTL.MetricsMinutes,
		"cache_ttl.sentiment_minutes": s.CacheTTL.SentimentMinutes,
	}
	for field, minutes := range ttls {
		if minutes < 0 {
			return ValidationError{field, "must be >= 0"}
		}
	}

	// === Discovery ===
	for intent := range s.Discovery.Universes {
		if !validIntents[intent] {
			return ValidationError{"discovery.universes", fmt.Sprintf("unknown intent %q", intent)}
		}
	}

	return nil
}
