package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtrask/sift/pkg/cache"
	"github.com/dtrask/sift/pkg/logger"
)

// Aggregator fronts the capability chains with one TTL cache per data
// kind. Fallback within a chain is strictly sequential: a later adapter
// is tried only after the earlier one has failed. Cancellation aborts
// the chain immediately and is never treated as a fallback trigger.
type Aggregator struct {
	registry *Registry
	log      *logger.Logger

	quotes    *cache.Cache[string, Quote]
	intraday  *cache.Cache[string, []IntradayBar]
	daily     *cache.Cache[string, []DailyBar]
	profiles  *cache.Cache[string, CompanyProfile]
	metrics   *cache.Cache[string, FinancialMetrics]
	sentiment *cache.Cache[string, SentimentData]
	movers    *cache.Cache[string, []Mover]
}

// NewAggregator creates an aggregator over the given registry with one
// cache per data kind, each sized by the policy.
func NewAggregator(registry *Registry, policy TTLPolicy, log *logger.Logger) *Aggregator {
	return &Aggregator{
		registry:  registry,
		log:       log,
		quotes:    cache.New[string, Quote](policy.Quote),
		intraday:  cache.New[string, []IntradayBar](policy.Intraday),
		daily:     cache.New[string, []DailyBar](policy.Daily),
		profiles:  cache.New[string, CompanyProfile](policy.Profile),
		metrics:   cache.New[string, FinancialMetrics](policy.Metrics),
		sentiment: cache.New[string, SentimentData](policy.Sentiment),
		movers:    cache.New[string, []Mover](policy.Quote),
	}
}

// Registry exposes the composed chains for status reporting.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// ClearCaches drops every cached entry across all data kinds.
func (a *Aggregator) ClearCaches() {
	a.quotes.Clear()
	a.intraday.Clear()
	a.daily.Clear()
	a.profiles.Clear()
	a.metrics.Clear()
	a.sentiment.Clear()
	a.movers.Clear()
}

// attempt is one step of a fallback chain.
type attempt[R any] struct {
	source Source
	fn     func(context.Context) (R, error)
}

// first walks a chain in order and returns the first usable result.
// A cancelled context aborts the walk; every other failure moves on to
// the next adapter. An exhausted chain reports ErrNoData.
func first[R any](ctx context.Context, log *logger.Logger, capability string, attempts []attempt[R], isEmpty func(R) bool) (R, error) {
	var zero R
	for _, att := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := att.fn(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return zero, err
			}
			log.WithFields(map[string]interface{}{
				"capability": capability,
				"source":     string(att.source),
				"error":      err.Error(),
			}).Warn("Provider failed, falling back")
			continue
		}
		if isEmpty != nil && isEmpty(result) {
			log.WithFields(map[string]interface{}{
				"capability": capability,
				"source":     string(att.source),
			}).Debug("Provider returned no data, falling back")
			continue
		}
		return result, nil
	}
	return zero, fmt.Errorf("%s: %w", capability, ErrNoData)
}

// GetQuotes returns snapshots for the requested symbols, serving from
// cache where fresh. Symbols no source knows about are absent from the
// result map; the call fails only when nothing could be resolved at all.
func (a *Aggregator) GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty symbol list", ErrInvalidInput)
	}

	result := make(map[string]Quote, len(symbols))
	var missing []string
	for _, sym := range symbols {
		key := strings.ToUpper(sym)
		if q, ok := a.quotes.Get(key); ok {
			result[key] = q
		} else {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	attempts := make([]attempt[map[string]Quote], 0, len(a.registry.Quotes))
	for _, p := range a.registry.Quotes {
		p := p
		attempts = append(attempts, attempt[map[string]Quote]{
			source: p.Name(),
			fn: func(ctx context.Context) (map[string]Quote, error) {
				return p.GetQuotes(ctx, missing)
			},
		})
	}

	fetched, err := first(ctx, a.log, "quotes", attempts, func(m map[string]Quote) bool {
		return len(m) == 0
	})
	if err != nil {
		// Partial cache hits still count as an answer
		if errors.Is(err, ErrNoData) && len(result) > 0 {
			return result, nil
		}
		return nil, err
	}

	for sym, q := range fetched {
		key := strings.ToUpper(sym)
		a.quotes.Put(key, q)
		result[key] = q
	}
	return result, nil
}

// GetIntraday returns intraday bars for the last days sessions.
func (a *Aggregator) GetIntraday(ctx context.Context, symbol string, days int) ([]IntradayBar, error) {
	if strings.TrimSpace(symbol) == "" || days <= 0 {
		return nil, fmt.Errorf("%w: symbol and days are required", ErrInvalidInput)
	}
	key := fmt.Sprintf("%s:%d", strings.ToUpper(symbol), days)
	if bars, ok := a.intraday.Get(key); ok {
		return bars, nil
	}

	attempts := make([]attempt[[]IntradayBar], 0, len(a.registry.Intraday))
	for _, p := range a.registry.Intraday {
		p := p
		attempts = append(attempts, attempt[[]IntradayBar]{
			source: p.Name(),
			fn: func(ctx context.Context) ([]IntradayBar, error) {
				return p.GetIntraday(ctx, symbol, days)
			},
		})
	}

	bars, err := first(ctx, a.log, "intraday", attempts, func(b []IntradayBar) bool { return len(b) == 0 })
	if err != nil {
		return nil, err
	}
	a.intraday.Put(key, bars)
	return bars, nil
}

// GetDaily returns daily bars for the last days sessions.
func (a *Aggregator) GetDaily(ctx context.Context, symbol string, days int) ([]DailyBar, error) {
	if strings.TrimSpace(symbol) == "" || days <= 0 {
		return nil, fmt.Errorf("%w: symbol and days are required", ErrInvalidInput)
	}
	key := fmt.Sprintf("%s:%d", strings.ToUpper(symbol), days)
	if bars, ok := a.daily.Get(key); ok {
		return bars, nil
	}

	attempts := make([]attempt[[]DailyBar], 0, len(a.registry.Daily))
	for _, p := range a.registry.Daily {
		p := p
		attempts = append(attempts, attempt[[]DailyBar]{
			source: p.Name(),
			fn: func(ctx context.Context) ([]DailyBar, error) {
				return p.GetDaily(ctx, symbol, days)
			},
		})
	}

	bars, err := first(ctx, a.log, "daily", attempts, func(b []DailyBar) bool { return len(b) == 0 })
	if err != nil {
		return nil, err
	}
	a.daily.Put(key, bars)
	return bars, nil
}

// GetProfile returns the company profile for a symbol.
func (a *Aggregator) GetProfile(ctx context.Context, symbol string) (CompanyProfile, error) {
	if strings.TrimSpace(symbol) == "" {
		return CompanyProfile{}, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	key := strings.ToUpper(symbol)
	if profile, ok := a.profiles.Get(key); ok {
		return profile, nil
	}

	attempts := make([]attempt[CompanyProfile], 0, len(a.registry.Profiles))
	for _, p := range a.registry.Profiles {
		p := p
		attempts = append(attempts, attempt[CompanyProfile]{
			source: p.Name(),
			fn: func(ctx context.Context) (CompanyProfile, error) {
				return p.GetProfile(ctx, symbol)
			},
		})
	}

	profile, err := first(ctx, a.log, "profile", attempts, func(p CompanyProfile) bool { return p.Symbol == "" })
	if err != nil {
		return CompanyProfile{}, err
	}
	a.profiles.Put(key, profile)
	return profile, nil
}

// GetMetrics returns financial metrics for a symbol.
func (a *Aggregator) GetMetrics(ctx context.Context, symbol string) (FinancialMetrics, error) {
	if strings.TrimSpace(symbol) == "" {
		return FinancialMetrics{}, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	key := strings.ToUpper(symbol)
	if m, ok := a.metrics.Get(key); ok {
		return m, nil
	}

	attempts := make([]attempt[FinancialMetrics], 0, len(a.registry.Metrics))
	for _, p := range a.registry.Metrics {
		p := p
		attempts = append(attempts, attempt[FinancialMetrics]{
			source: p.Name(),
			fn: func(ctx context.Context) (FinancialMetrics, error) {
				return p.GetMetrics(ctx, symbol)
			},
		})
	}

	m, err := first(ctx, a.log, "metrics", attempts, func(m FinancialMetrics) bool { return m.Symbol == "" })
	if err != nil {
		return FinancialMetrics{}, err
	}
	a.metrics.Put(key, m)
	return m, nil
}

// GetSentiment returns aggregated news sentiment for a symbol.
func (a *Aggregator) GetSentiment(ctx context.Context, symbol string) (SentimentData, error) {
	if strings.TrimSpace(symbol) == "" {
		return SentimentData{}, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	key := strings.ToUpper(symbol)
	if s, ok := a.sentiment.Get(key); ok {
		return s, nil
	}

	attempts := make([]attempt[SentimentData], 0, len(a.registry.Sentiment))
	for _, p := range a.registry.Sentiment {
		p := p
		attempts = append(attempts, attempt[SentimentData]{
			source: p.Name(),
			fn: func(ctx context.Context) (SentimentData, error) {
				return p.GetSentiment(ctx, symbol)
			},
		})
	}

	s, err := first(ctx, a.log, "sentiment", attempts, func(s SentimentData) bool { return s.Symbol == "" })
	if err != nil {
		return SentimentData{}, err
	}
	a.sentiment.Put(key, s)
	return s, nil
}

// Search looks up symbols by free-text query. Results are not cached;
// queries rarely repeat within a session.
func (a *Aggregator) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	attempts := make([]attempt[[]SearchResult], 0, len(a.registry.Search))
	for _, p := range a.registry.Search {
		p := p
		attempts = append(attempts, attempt[[]SearchResult]{
			source: p.Name(),
			fn: func(ctx context.Context) ([]SearchResult, error) {
				return p.Search(ctx, query)
			},
		})
	}

	return first(ctx, a.log, "search", attempts, func(r []SearchResult) bool { return len(r) == 0 })
}

// Screen scans the market for symbols matching the query. Not cached;
// screener output feeds discovery, which runs at most a few times a day.
func (a *Aggregator) Screen(ctx context.Context, query ScreenerQuery) ([]ScreenerRow, error) {
	attempts := make([]attempt[[]ScreenerRow], 0, len(a.registry.Screener))
	for _, p := range a.registry.Screener {
		p := p
		attempts = append(attempts, attempt[[]ScreenerRow]{
			source: p.Name(),
			fn: func(ctx context.Context) ([]ScreenerRow, error) {
				return p.Screen(ctx, query)
			},
		})
	}

	return first(ctx, a.log, "screener", attempts, func(r []ScreenerRow) bool { return len(r) == 0 })
}

// GetMovers returns one of the market mover listings. Cached with the
// quote TTL since movers shift at quote cadence.
func (a *Aggregator) GetMovers(ctx context.Context, kind MoverKind) ([]Mover, error) {
	if !ValidMoverKind(kind) {
		return nil, fmt.Errorf("%w: unknown mover kind %q", ErrInvalidInput, kind)
	}
	key := "movers:" + string(kind)
	if m, ok := a.movers.Get(key); ok {
		return m, nil
	}

	attempts := make([]attempt[[]Mover], 0, len(a.registry.Movers))
	for _, p := range a.registry.Movers {
		p := p
		attempts = append(attempts, attempt[[]Mover]{
			source: p.Name(),
			fn: func(ctx context.Context) ([]Mover, error) {
				return p.GetMovers(ctx, kind)
			},
		})
	}

	movers, err := first(ctx, a.log, "movers", attempts, func(m []Mover) bool { return len(m) == 0 })
	if err != nil {
		return nil, err
	}
	a.movers.Put(key, movers)
	return movers, nil
}
