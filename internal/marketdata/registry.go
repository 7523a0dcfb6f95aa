package marketdata

// Registry holds the ordered fallback chain for each capability.
// Chain order is priority order: the aggregator tries index 0 first.
// Chains are assembled once at construction time from the available
// credentials and never change afterwards.
type Registry struct {
	Quotes    []QuoteProvider
	Intraday  []IntradayProvider
	Daily     []DailyProvider
	Profiles  []ProfileProvider
	Metrics   []MetricsProvider
	Sentiment []SentimentProvider
	Search    []SearchProvider
	Screener  []ScreenerProvider
	Movers    []MoversProvider
}

// SyntheticAdapter is the full-capability offline fallback. The concrete
// implementation lives in this package as SyntheticProvider; the interface
// keeps EnsureFallback decoupled from it for tests.
type SyntheticAdapter interface {
	QuoteProvider
	IntradayProvider
	DailyProvider
	ProfileProvider
	MetricsProvider
	SentimentProvider
	SearchProvider
	ScreenerProvider
	MoversProvider
}

// EnsureFallback appends the synthetic adapter to every chain that would
// otherwise be empty, so that each capability set stays non-empty. With
// always set, the synthetic adapter is appended to every chain as the
// last resort even when credentialed adapters exist.
func (r *Registry) EnsureFallback(syn SyntheticAdapter, always bool) {
	if syn == nil {
		return
	}
	if always || len(r.Quotes) == 0 {
		r.Quotes = append(r.Quotes, syn)
	}
	if always || len(r.Intraday) == 0 {
		r.Intraday = append(r.Intraday, syn)
	}
	if always || len(r.Daily) == 0 {
		r.Daily = append(r.Daily, syn)
	}
	if always || len(r.Profiles) == 0 {
		r.Profiles = append(r.Profiles, syn)
	}
	if always || len(r.Metrics) == 0 {
		r.Metrics = append(r.Metrics, syn)
	}
	if always || len(r.Sentiment) == 0 {
		r.Sentiment = append(r.Sentiment, syn)
	}
	if always || len(r.Search) == 0 {
		r.Search = append(r.Search, syn)
	}
	if always || len(r.Screener) == 0 {
		r.Screener = append(r.Screener, syn)
	}
	if always || len(r.Movers) == 0 {
		r.Movers = append(r.Movers, syn)
	}
}

// CapabilityStatus describes one capability chain for status reporting.
type CapabilityStatus struct {
	Capability string   `json:"capability"`
	Sources    []string `json:"sources"`
}

// Status reports the composed chains in priority order.
func (r *Registry) Status() []CapabilityStatus {
	return []CapabilityStatus{
		{Capability: "quotes", Sources: sourceNames(r.Quotes)},
		{Capability: "intraday", Sources: sourceNames(r.Intraday)},
		{Capability: "daily", Sources: sourceNames(r.Daily)},
		{Capability: "profile", Sources: sourceNames(r.Profiles)},
		{Capability: "metrics", Sources: sourceNames(r.Metrics)},
		{Capability: "sentiment", Sources: sourceNames(r.Sentiment)},
		{Capability: "search", Sources: sourceNames(r.Search)},
		{Capability: "screener", Sources: sourceNames(r.Screener)},
		{Capability: "movers", Sources: sourceNames(r.Movers)},
	}
}

func sourceNames[P Named](providers []P) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, string(p.Name()))
	}
	return names
}
