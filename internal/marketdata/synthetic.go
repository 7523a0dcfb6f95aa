package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"time"
)

// SyntheticProvider generates deterministic offline data so the pipeline
// stays usable without any API keys. Values are derived from a hash of the
// symbol, so repeated calls for the same symbol agree with each other.
// Everything it returns is stamped SourceSynthetic so downstream consumers
// can tell synthetic data from live data.
type SyntheticProvider struct {
	now func() time.Time
}

// NewSyntheticProvider creates a synthetic provider using the wall clock.
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{now: time.Now}
}

// NewSyntheticProviderWithClock creates a synthetic provider with an
// injected time source for deterministic tests.
func NewSyntheticProviderWithClock(now func() time.Time) *SyntheticProvider {
	return &SyntheticProvider{now: now}
}

func (s *SyntheticProvider) Name() Source { return SourceSynthetic }

// seed maps a symbol to a stable value in [0, 1).
func seed(symbol string) float64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return float64(h.Sum64()%10_000) / 10_000
}

func (s *SyntheticProvider) quote(symbol string) Quote {
	u := seed(symbol)
	return Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         10 + u*490,                   // 10 .. 500
		Volume:        int64(500_000 + u*9_500_000), // 500k .. 10M
		Timestamp:     s.now(),
		ChangePercent: math.Round((u*16-8)*100) / 100, // -8% .. +8%
		Source:        SourceSynthetic,
	}
}

func (s *SyntheticProvider) GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quotes := make(map[string]Quote, len(symbols))
	for _, sym := range symbols {
		quotes[strings.ToUpper(sym)] = s.quote(sym)
	}
	return quotes, nil
}

func (s *SyntheticProvider) GetIntraday(ctx context.Context, symbol string, days int) ([]IntradayBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.quote(symbol)
	// One bar per half hour of a 6.5 hour session
	perDay := 13
	bars := make([]IntradayBar, 0, days*perDay)
	t := s.now().Add(-time.Duration(days*perDay) * 30 * time.Minute)
	price := q.Price * 0.97
	for i := 0; i < days*perDay; i++ {
		drift := math.Sin(float64(i)*seed(symbol)*6) * q.Price * 0.004
		open := price
		close := price + drift
		bars = append(bars, IntradayBar{
			Timestamp: t,
			Open:      open,
			High:      math.Max(open, close) * 1.002,
			Low:       math.Min(open, close) * 0.998,
			Close:     close,
			Volume:    q.Volume / int64(perDay),
		})
		price = close
		t = t.Add(30 * time.Minute)
	}
	return bars, nil
}

func (s *SyntheticProvider) GetDaily(ctx context.Context, symbol string, days int) ([]DailyBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := s.quote(symbol)
	bars := make([]DailyBar, 0, days)
	day := s.now().AddDate(0, 0, -days)
	price := q.Price * 0.9
	for i := 0; i < days; i++ {
		drift := math.Sin(float64(i)*seed(symbol)*3) * q.Price * 0.01
		open := price
		close := price + drift
		bars = append(bars, DailyBar{
			Date:   day,
			Open:   open,
			High:   math.Max(open, close) * 1.01,
			Low:    math.Min(open, close) * 0.99,
			Close:  close,
			Volume: q.Volume,
		})
		price = close
		day = day.AddDate(0, 0, 1)
	}
	return bars, nil
}

func (s *SyntheticProvider) GetProfile(ctx context.Context, symbol string) (CompanyProfile, error) {
	if err := ctx.Err(); err != nil {
		return CompanyProfile{}, err
	}
	sym := strings.ToUpper(symbol)
	u := seed(symbol)
	sectors := []string{"Technology", "Healthcare", "Financials", "Energy", "Consumer"}
	return CompanyProfile{
		Symbol:      sym,
		Name:        fmt.Sprintf("%s Holdings", sym),
		Exchange:    "SYNTH",
		Industry:    "Diversified",
		Sector:      sectors[int(u*float64(len(sectors)))%len(sectors)],
		MarketCap:   1e9 + u*499e9,
		Description: fmt.Sprintf("Synthetic profile for %s generated for offline use.", sym),
		Source:      SourceSynthetic,
	}, nil
}

func (s *SyntheticProvider) GetMetrics(ctx context.Context, symbol string) (FinancialMetrics, error) {
	if err := ctx.Err(); err != nil {
		return FinancialMetrics{}, err
	}
	q := s.quote(symbol)
	u := seed(symbol)
	return FinancialMetrics{
		Symbol:       q.Symbol,
		PERatio:      8 + u*40,
		EPS:          q.Price / (8 + u*40),
		Beta:         0.5 + u*1.5,
		DividendYld:  u * 4,
		Week52High:   q.Price * 1.25,
		Week52Low:    q.Price * 0.75,
		DebtToEquity: u * 2,
		Source:       SourceSynthetic,
	}, nil
}

func (s *SyntheticProvider) GetSentiment(ctx context.Context, symbol string) (SentimentData, error) {
	if err := ctx.Err(); err != nil {
		return SentimentData{}, err
	}
	u := seed(symbol)
	total := 10 + int(u*90)
	bullish := int(float64(total) * u)
	return SentimentData{
		Symbol:          strings.ToUpper(symbol),
		Score:           math.Round((u*2-1)*100) / 100,
		ArticleCount:    total,
		BullishMentions: bullish,
		BearishMentions: total - bullish,
		Source:          SourceSynthetic,
	}, nil
}

func (s *SyntheticProvider) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sym := strings.ToUpper(strings.TrimSpace(query))
	if sym == "" {
		return nil, nil
	}
	return []SearchResult{
		{
			Symbol:      sym,
			Description: fmt.Sprintf("%s Holdings", sym),
			Type:        "Common Stock",
			Exchange:    "SYNTH",
		},
	}, nil
}

var syntheticUniverse = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD", "JPM", "XOM"}

func (s *SyntheticProvider) Screen(ctx context.Context, query ScreenerQuery) ([]ScreenerRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	universe := syntheticUniverse
	rows := make([]ScreenerRow, 0, len(universe))
	for _, sym := range universe {
		q := s.quote(sym)
		if query.PriceMin > 0 && q.Price < query.PriceMin {
			continue
		}
		if query.PriceMax > 0 && q.Price > query.PriceMax {
			continue
		}
		if query.VolumeMin > 0 && q.Volume < query.VolumeMin {
			continue
		}
		rows = append(rows, ScreenerRow{
			Symbol:        q.Symbol,
			Name:          fmt.Sprintf("%s Holdings", q.Symbol),
			Price:         q.Price,
			Volume:        q.Volume,
			ChangePercent: q.ChangePercent,
			MarketCap:     q.Price * float64(q.Volume) * 50,
			Source:        SourceSynthetic,
		})
		if query.Limit > 0 && len(rows) >= query.Limit {
			break
		}
	}
	return rows, nil
}

func (s *SyntheticProvider) GetMovers(ctx context.Context, kind MoverKind) ([]Mover, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidMoverKind(kind) {
		return nil, fmt.Errorf("mover kind %q: %w", kind, ErrInvalidInput)
	}

	movers := make([]Mover, 0, len(syntheticUniverse))
	for _, sym := range syntheticUniverse {
		q := s.quote(sym)
		movers = append(movers, Mover{
			Symbol:        q.Symbol,
			Name:          fmt.Sprintf("%s Holdings", q.Symbol),
			Price:         q.Price,
			ChangePercent: q.ChangePercent,
			Volume:        q.Volume,
			Source:        SourceSynthetic,
		})
	}

	sort.Slice(movers, func(i, j int) bool {
		switch kind {
		case MoversLosers:
			return movers[i].ChangePercent < movers[j].ChangePercent
		case MoversMostActive:
			return movers[i].Volume > movers[j].Volume
		default:
			return movers[i].ChangePercent > movers[j].ChangePercent
		}
	})
	return movers, nil
}
