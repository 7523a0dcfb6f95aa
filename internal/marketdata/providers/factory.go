// Package providers assembles the capability chains from the configured
// credentials. Inclusion is decided here once, at construction time; no
// credential checks happen on the request path.
package providers

import (
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/marketdata/alpaca"
	"github.com/dtrask/sift/internal/marketdata/finnhub"
	"github.com/dtrask/sift/internal/marketdata/fmp"
	"github.com/dtrask/sift/internal/marketdata/twelvedata"
	"github.com/dtrask/sift/pkg/config"
	"github.com/dtrask/sift/pkg/httputil"
	"github.com/dtrask/sift/pkg/logger"
	"github.com/dtrask/sift/pkg/redis"
)

// Options controls registry assembly.
type Options struct {
	Credentials marketdata.Credentials

	// Base URL overrides, empty for production
	AlpacaBaseURL     string
	FinnhubBaseURL    string
	FMPBaseURL        string
	TwelveDataBaseURL string

	// IncludeSynthetic appends the synthetic adapter to every chain even
	// when credentialed adapters exist. Without it the synthetic adapter
	// only fills chains that would otherwise be empty.
	IncludeSynthetic bool

	// RateLimiter shares provider quotas across processes when Redis is
	// enabled. Nil means in-process limiting only.
	RateLimiter *redis.RateLimiter
}

// FromConfig builds Options from the environment config.
func FromConfig(cfg *config.Config, limiter *redis.RateLimiter) Options {
	return Options{
		Credentials: marketdata.Credentials{
			AlpacaKey:     cfg.MarketData.AlpacaKey,
			AlpacaSecret:  cfg.MarketData.AlpacaSecret,
			FinnhubKey:    cfg.MarketData.FinnhubKey,
			FMPKey:        cfg.MarketData.FMPKey,
			TwelveDataKey: cfg.MarketData.TwelveDataKey,
		},
		AlpacaBaseURL:     cfg.MarketData.AlpacaBaseURL,
		FinnhubBaseURL:    cfg.MarketData.FinnhubBaseURL,
		FMPBaseURL:        cfg.MarketData.FMPBaseURL,
		TwelveDataBaseURL: cfg.MarketData.TwelveDataBaseURL,
		RateLimiter:       limiter,
	}
}

// Build composes the registry. Chain order encodes source priority:
// quotes and bars prefer Alpaca (batch snapshots, generous quota), then
// Finnhub, then FMP, then Twelve Data; fundamentals and sentiment prefer
// FMP, then Finnhub; the screener is FMP only among real sources.
func Build(opts Options, log *logger.Logger) *marketdata.Registry {
	reg := &marketdata.Registry{}
	creds := opts.Credentials

	if creds.HasAlpaca() {
		http := httputil.New(log).WithLocalLimit(3, 10)
		if opts.RateLimiter != nil {
			http = http.WithRateLimiter(opts.RateLimiter, redis.AlpacaRateLimit)
		}
		client := alpaca.New(http, log, creds.AlpacaKey, creds.AlpacaSecret, opts.AlpacaBaseURL)
		reg.Quotes = append(reg.Quotes, client)
		reg.Intraday = append(reg.Intraday, client)
		reg.Daily = append(reg.Daily, client)
	}

	var finnhubClient *finnhub.Client
	if creds.HasFinnhub() {
		http := httputil.New(log).WithLocalLimit(0.9, 5)
		if opts.RateLimiter != nil {
			http = http.WithRateLimiter(opts.RateLimiter, redis.FinnhubRateLimit)
		}
		finnhubClient = finnhub.New(http, log, creds.FinnhubKey, opts.FinnhubBaseURL)
		reg.Quotes = append(reg.Quotes, finnhubClient)
		reg.Search = append(reg.Search, finnhubClient)
	}

	if creds.HasFMP() {
		http := httputil.New(log).WithLocalLimit(0.2, 3)
		if opts.RateLimiter != nil {
			http = http.WithRateLimiter(opts.RateLimiter, redis.FMPRateLimit)
		}
		client := fmp.New(http, log, creds.FMPKey, opts.FMPBaseURL)
		reg.Quotes = append(reg.Quotes, client)
		reg.Daily = append(reg.Daily, client)
		reg.Profiles = append(reg.Profiles, client)
		reg.Metrics = append(reg.Metrics, client)
		reg.Sentiment = append(reg.Sentiment, client)
		reg.Screener = append(reg.Screener, client)
		reg.Movers = append(reg.Movers, client)
	}

	// Finnhub fundamentals rank below FMP's
	if finnhubClient != nil {
		reg.Profiles = append(reg.Profiles, finnhubClient)
		reg.Metrics = append(reg.Metrics, finnhubClient)
		reg.Sentiment = append(reg.Sentiment, finnhubClient)
	}

	if creds.HasTwelveData() {
		http := httputil.New(log).WithLocalLimit(0.13, 2)
		if opts.RateLimiter != nil {
			http = http.WithRateLimiter(opts.RateLimiter, redis.TwelveDataRateLimit)
		}
		client := twelvedata.New(http, log, creds.TwelveDataKey, opts.TwelveDataBaseURL)
		reg.Quotes = append(reg.Quotes, client)
		reg.Intraday = append(reg.Intraday, client)
		reg.Daily = append(reg.Daily, client)
	}

	reg.EnsureFallback(marketdata.NewSyntheticProvider(), opts.IncludeSynthetic)
	return reg
}
