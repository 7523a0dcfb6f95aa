package marketdata

import "time"

// minTTL is the floor for every data kind. Values below it are clamped
// upward so a misconfigured zero never disables caching entirely.
const minTTL = time.Minute

// TTLPolicy maps each data kind to its cache lifetime. Immutable once
// constructed; build a new policy instead of mutating one in place.
type TTLPolicy struct {
	Quote     time.Duration
	Intraday  time.Duration
	Daily     time.Duration
	Profile   time.Duration
	Metrics   time.Duration
	Sentiment time.Duration
}

// DefaultTTLPolicy returns the stock lifetimes: quotes go stale fast,
// fundamentals barely move intraday.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Quote:     1 * time.Minute,
		Intraday:  10 * time.Minute,
		Daily:     24 * time.Hour,
		Profile:   24 * time.Hour,
		Metrics:   24 * time.Hour,
		Sentiment: 30 * time.Minute,
	}
}

// TTLPolicyFromMinutes builds a policy from per-kind minutes, clamping
// each value to the one-minute floor.
func TTLPolicyFromMinutes(quote, intraday, daily, profile, metrics, sentiment int) TTLPolicy {
	return TTLPolicy{
		Quote:     clampTTL(quote),
		Intraday:  clampTTL(intraday),
		Daily:     clampTTL(daily),
		Profile:   clampTTL(profile),
		Metrics:   clampTTL(metrics),
		Sentiment: clampTTL(sentiment),
	}
}

func clampTTL(minutes int) time.Duration {
	d := time.Duration(minutes) * time.Minute
	if d < minTTL {
		return minTTL
	}
	return d
}
