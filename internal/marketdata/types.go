package marketdata

import "time"

// Source identifies which adapter produced a piece of data.
type Source string

const (
	SourceAlpaca     Source = "alpaca"
	SourceFinnhub    Source = "finnhub"
	SourceFMP        Source = "fmp"
	SourceTwelveData Source = "twelvedata"
	SourceSynthetic  Source = "synthetic"
)

// Quote is an immutable price snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
	ChangePercent float64   `json:"change_percent"`
	Source        Source    `json:"source"`
}

// IntradayBar is one intraday OHLCV bar.
type IntradayBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// DailyBar is one daily OHLCV bar.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// CompanyProfile describes the company behind a symbol.
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Exchange    string  `json:"exchange"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	MarketCap   float64 `json:"market_cap"`
	Description string  `json:"description"`
	Source      Source  `json:"source"`
}

// FinancialMetrics holds the valuation and health figures used for scoring.
type FinancialMetrics struct {
	Symbol       string  `json:"symbol"`
	PERatio      float64 `json:"pe_ratio"`
	EPS          float64 `json:"eps"`
	Beta         float64 `json:"beta"`
	DividendYld  float64 `json:"dividend_yield"`
	Week52High   float64 `json:"week_52_high"`
	Week52Low    float64 `json:"week_52_low"`
	DebtToEquity float64 `json:"debt_to_equity"`
	Source       Source  `json:"source"`
}

// SentimentData aggregates news sentiment for one symbol.
type SentimentData struct {
	Symbol          string  `json:"symbol"`
	Score           float64 `json:"score"` // -1 (bearish) .. +1 (bullish)
	ArticleCount    int     `json:"article_count"`
	BullishMentions int     `json:"bullish_mentions"`
	BearishMentions int     `json:"bearish_mentions"`
	Source          Source  `json:"source"`
}

// SearchResult is one symbol lookup hit.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Exchange    string `json:"exchange"`
}

// ScreenerRow is one row from a market screener scan.
type ScreenerRow struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	ChangePercent float64 `json:"change_percent"`
	MarketCap     float64 `json:"market_cap"`
	Source        Source  `json:"source"`
}

// ScreenerQuery bounds a screener scan.
type ScreenerQuery struct {
	PriceMin  float64
	PriceMax  float64
	VolumeMin int64
	Limit     int
}

// MoverKind selects a market mover listing.
type MoverKind string

const (
	MoversGainers    MoverKind = "gainers"
	MoversLosers     MoverKind = "losers"
	MoversMostActive MoverKind = "most_active"
)

// ValidMoverKind reports whether kind names a known listing.
func ValidMoverKind(kind MoverKind) bool {
	switch kind {
	case MoversGainers, MoversLosers, MoversMostActive:
		return true
	}
	return false
}

// Mover is one entry in a market mover listing.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	Source        Source  `json:"source"`
}
