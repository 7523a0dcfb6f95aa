package marketdata

import "context"

// Named is implemented by every adapter so the aggregator can log and
// report which source served a request.
type Named interface {
	Name() Source
}

// QuoteProvider returns current snapshots for a batch of symbols.
// Symbols the source knows nothing about are simply absent from the map.
type QuoteProvider interface {
	Named
	GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// IntradayProvider returns intraday bars covering the last N days.
type IntradayProvider interface {
	Named
	GetIntraday(ctx context.Context, symbol string, days int) ([]IntradayBar, error)
}

// DailyProvider returns daily bars covering the last N days.
type DailyProvider interface {
	Named
	GetDaily(ctx context.Context, symbol string, days int) ([]DailyBar, error)
}

// ProfileProvider returns the company profile for a symbol.
type ProfileProvider interface {
	Named
	GetProfile(ctx context.Context, symbol string) (CompanyProfile, error)
}

// MetricsProvider returns financial metrics for a symbol.
type MetricsProvider interface {
	Named
	GetMetrics(ctx context.Context, symbol string) (FinancialMetrics, error)
}

// SentimentProvider returns aggregated news sentiment for a symbol.
type SentimentProvider interface {
	Named
	GetSentiment(ctx context.Context, symbol string) (SentimentData, error)
}

// SearchProvider looks up symbols by free-text query.
type SearchProvider interface {
	Named
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ScreenerProvider scans the market for symbols matching a query.
type ScreenerProvider interface {
	Named
	Screen(ctx context.Context, query ScreenerQuery) ([]ScreenerRow, error)
}

// MoversProvider returns market mover listings.
type MoversProvider interface {
	Named
	GetMovers(ctx context.Context, kind MoverKind) ([]Mover, error)
}
