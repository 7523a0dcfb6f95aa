// Package fmp adapts the Financial Modeling Prep REST API. It covers the
// widest capability surface of the real sources: quotes, daily bars,
// profiles, metrics, social sentiment, the stock screener and the market
// mover listings.
package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/httputil"
	"github.com/dtrask/sift/pkg/logger"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client implements the FMP capability adapters.
type Client struct {
	http    *httputil.Client
	log     *logger.Logger
	apiKey  string
	baseURL string
}

// New creates an FMP client. baseURL may be empty to use production.
func New(http *httputil.Client, log *logger.Logger, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    http,
		log:     log,
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) Name() marketdata.Source { return marketdata.SourceFMP }

func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
}

// getJSON fetches url into out, mapping transport failures onto
// ErrUnavailable so the aggregator has one transient error to match.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.http.GetJSON(ctx, url, out); err != nil {
		return fmt.Errorf("%w: %w", marketdata.ErrUnavailable, err)
	}
	return nil
}

type quoteRow struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	ChangePercent float64 `json:"changesPercentage"`
	Timestamp     int64   `json:"timestamp"`
}

// GetQuotes uses the batch quote endpoint, one request per call.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	var rows []quoteRow
	path := "/quote/" + strings.Join(upper, ",")
	if err := c.getJSON(ctx, c.endpoint(path, nil), &rows); err != nil {
		return nil, fmt.Errorf("fmp quotes: %w", err)
	}

	quotes := make(map[string]marketdata.Quote, len(rows))
	for _, row := range rows {
		if row.Price <= 0 {
			continue
		}
		quotes[row.Symbol] = marketdata.Quote{
			Symbol:        row.Symbol,
			Price:         row.Price,
			Volume:        row.Volume,
			Timestamp:     time.Unix(row.Timestamp, 0),
			ChangePercent: row.ChangePercent,
			Source:        marketdata.SourceFMP,
		}
	}
	return quotes, nil
}

type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

// GetDaily returns daily bars in chronological order.
func (c *Client) GetDaily(ctx context.Context, symbol string, days int) ([]marketdata.DailyBar, error) {
	sym := strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("timeseries", fmt.Sprintf("%d", days))

	var resp historicalResponse
	if err := c.getJSON(ctx, c.endpoint("/historical-price-full/"+sym, params), &resp); err != nil {
		return nil, fmt.Errorf("fmp daily %s: %w", sym, err)
	}

	// FMP returns newest first
	bars := make([]marketdata.DailyBar, 0, len(resp.Historical))
	for i := len(resp.Historical) - 1; i >= 0; i-- {
		h := resp.Historical[i]
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		bars = append(bars, marketdata.DailyBar{
			Date:   date,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	return bars, nil
}

type profileRow struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Exchange    string  `json:"exchangeShortName"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	MarketCap   float64 `json:"mktCap"`
	Description string  `json:"description"`
}

func (c *Client) GetProfile(ctx context.Context, symbol string) (marketdata.CompanyProfile, error) {
	sym := strings.ToUpper(symbol)

	var rows []profileRow
	if err := c.getJSON(ctx, c.endpoint("/profile/"+sym, nil), &rows); err != nil {
		return marketdata.CompanyProfile{}, fmt.Errorf("fmp profile %s: %w", sym, err)
	}
	if len(rows) == 0 {
		return marketdata.CompanyProfile{}, nil
	}
	row := rows[0]
	return marketdata.CompanyProfile{
		Symbol:      row.Symbol,
		Name:        row.CompanyName,
		Exchange:    row.Exchange,
		Industry:    row.Industry,
		Sector:      row.Sector,
		MarketCap:   row.MarketCap,
		Description: row.Description,
		Source:      marketdata.SourceFMP,
	}, nil
}

type ratiosRow struct {
	PERatio      float64 `json:"peRatioTTM"`
	EPS          float64 `json:"netIncomePerShareTTM"`
	DividendYld  float64 `json:"dividendYieldPercentageTTM"`
	DebtToEquity float64 `json:"debtEquityRatioTTM"`
}

func (c *Client) GetMetrics(ctx context.Context, symbol string) (marketdata.FinancialMetrics, error) {
	sym := strings.ToUpper(symbol)

	var rows []ratiosRow
	if err := c.getJSON(ctx, c.endpoint("/ratios-ttm/"+sym, nil), &rows); err != nil {
		return marketdata.FinancialMetrics{}, fmt.Errorf("fmp metrics %s: %w", sym, err)
	}
	if len(rows) == 0 {
		return marketdata.FinancialMetrics{}, nil
	}
	row := rows[0]
	return marketdata.FinancialMetrics{
		Symbol:       sym,
		PERatio:      row.PERatio,
		EPS:          row.EPS,
		DividendYld:  row.DividendYld,
		DebtToEquity: row.DebtToEquity,
		Source:       marketdata.SourceFMP,
	}, nil
}

type socialSentimentRow struct {
	Symbol           string  `json:"symbol"`
	StocktwitsPosts  int     `json:"stocktwitsPosts"`
	TwitterPosts     int     `json:"twitterPosts"`
	StocktwitsSent   float64 `json:"stocktwitsSentiment"`
	TwitterSentiment float64 `json:"twitterSentiment"`
}

func (c *Client) GetSentiment(ctx context.Context, symbol string) (marketdata.SentimentData, error) {
	sym := strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("symbol", sym)

	var rows []socialSentimentRow
	if err := c.getJSON(ctx, c.endpoint("/historical/social-sentiment", params), &rows); err != nil {
		return marketdata.SentimentData{}, fmt.Errorf("fmp sentiment %s: %w", sym, err)
	}
	if len(rows) == 0 {
		return marketdata.SentimentData{}, nil
	}
	row := rows[0]
	posts := row.StocktwitsPosts + row.TwitterPosts

	// Average the two feeds, rescale from [0,1] to [-1,1]
	raw := (row.StocktwitsSent + row.TwitterSentiment) / 2
	score := raw*2 - 1

	bullish := int(raw * float64(posts))
	return marketdata.SentimentData{
		Symbol:          sym,
		Score:           score,
		ArticleCount:    posts,
		BullishMentions: bullish,
		BearishMentions: posts - bullish,
		Source:          marketdata.SourceFMP,
	}, nil
}

type screenerRow struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	Volume      int64   `json:"volume"`
	MarketCap   float64 `json:"marketCap"`
}

// Screen runs the stock screener over US exchanges.
func (c *Client) Screen(ctx context.Context, query marketdata.ScreenerQuery) ([]marketdata.ScreenerRow, error) {
	params := url.Values{}
	params.Set("exchange", "NYSE,NASDAQ")
	params.Set("isActivelyTrading", "true")
	if query.PriceMin > 0 {
		params.Set("priceMoreThan", fmt.Sprintf("%g", query.PriceMin))
	}
	if query.PriceMax > 0 {
		params.Set("priceLowerThan", fmt.Sprintf("%g", query.PriceMax))
	}
	if query.VolumeMin > 0 {
		params.Set("volumeMoreThan", fmt.Sprintf("%d", query.VolumeMin))
	}
	if query.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", query.Limit))
	}

	var rows []screenerRow
	if err := c.getJSON(ctx, c.endpoint("/stock-screener", params), &rows); err != nil {
		return nil, fmt.Errorf("fmp screener: %w", err)
	}

	results := make([]marketdata.ScreenerRow, 0, len(rows))
	for _, row := range rows {
		results = append(results, marketdata.ScreenerRow{
			Symbol:    row.Symbol,
			Name:      row.CompanyName,
			Price:     row.Price,
			Volume:    row.Volume,
			MarketCap: row.MarketCap,
			Source:    marketdata.SourceFMP,
		})
	}
	return results, nil
}

type moverRow struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changesPercentage"`
}

// GetMovers fetches one of the market mover listings.
func (c *Client) GetMovers(ctx context.Context, kind marketdata.MoverKind) ([]marketdata.Mover, error) {
	var path string
	switch kind {
	case marketdata.MoversGainers:
		path = "/stock_market/gainers"
	case marketdata.MoversLosers:
		path = "/stock_market/losers"
	case marketdata.MoversMostActive:
		path = "/stock_market/actives"
	default:
		return nil, fmt.Errorf("mover kind %q: %w", kind, marketdata.ErrInvalidInput)
	}

	var rows []moverRow
	if err := c.getJSON(ctx, c.endpoint(path, nil), &rows); err != nil {
		return nil, fmt.Errorf("fmp movers %s: %w", kind, err)
	}

	movers := make([]marketdata.Mover, 0, len(rows))
	for _, row := range rows {
		movers = append(movers, marketdata.Mover{
			Symbol:        row.Symbol,
			Name:          row.Name,
			Price:         row.Price,
			ChangePercent: row.ChangePercent,
			Source:        marketdata.SourceFMP,
		})
	}
	return movers, nil
}
