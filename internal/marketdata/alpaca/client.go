// Package alpaca adapts the Alpaca Market Data v2 API. It is first in
// the quote and bar chains when its key pair is configured because the
// snapshot endpoint serves a whole batch in one request.
package alpaca

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

const defaultBaseURL = "https://data.alpaca.markets/v2"

// Client implements quote, intraday and daily capabilities.
type Client struct {
	http    *httputil.Client
	log     *logger.Logger
	key     string
	secret  string
	baseURL string
}

// New creates an Alpaca client. baseURL may be empty to use production.
func New(http *httputil.Client, log *logger.Logger, key, secret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    http,
		log:     log,
		key:     key,
		secret:  secret,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) Name() marketdata.Source { return marketdata.SourceAlpaca }

func (c *Client) headers() map[string]string {
	return map[string]string{
		"APCA-API-KEY-ID":     c.key,
		"APCA-API-SECRET-KEY": c.secret,
	}
}

// getJSON fetches url into out with auth headers, mapping transport
// failures onto ErrUnavailable so the aggregator has one transient
// error to match.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.http.GetJSONWithHeaders(ctx, url, c.headers(), out); err != nil {
		return fmt.Errorf("%w: %w", marketdata.ErrUnavailable, err)
	}
	return nil
}

type snapshot struct {
	LatestTrade struct {
		Price     float64   `json:"p"`
		Timestamp time.Time `json:"t"`
	} `json:"latestTrade"`
	DailyBar struct {
		Volume int64 `json:"v"`
	} `json:"dailyBar"`
	PrevDailyBar struct {
		Close float64 `json:"c"`
	} `json:"prevDailyBar"`
}

// GetQuotes fetches batch snapshots. Change percent is derived from the
// previous session close since the API does not report it directly.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(upper, ","))
	endpoint := fmt.Sprintf("%s/stocks/snapshots?%s", c.baseURL, params.Encode())

	var resp map[string]snapshot
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("alpaca snapshots: %w", err)
	}

	quotes := make(map[string]marketdata.Quote, len(resp))
	for sym, snap := range resp {
		price := snap.LatestTrade.Price
		if price <= 0 {
			continue
		}
		var change float64
		if prev := snap.PrevDailyBar.Close; prev > 0 {
			change = (price - prev) / prev * 100
		}
		quotes[sym] = marketdata.Quote{
			Symbol:        sym,
			Price:         price,
			Volume:        snap.DailyBar.Volume,
			Timestamp:     snap.LatestTrade.Timestamp,
			ChangePercent: change,
			Source:        marketdata.SourceAlpaca,
		}
	}
	return quotes, nil
}

type barsResponse struct {
	Bars []struct {
		Timestamp time.Time `json:"t"`
		Open      float64   `json:"o"`
		High      float64   `json:"h"`
		Low       float64   `json:"l"`
		Close     float64   `json:"c"`
		Volume    int64     `json:"v"`
	} `json:"bars"`
	NextPageToken string `json:"next_page_token"`
}

func (c *Client) bars(ctx context.Context, symbol, timeframe string, days int) (*barsResponse, error) {
	params := url.Values{}
	params.Set("timeframe", timeframe)
	params.Set("start", time.Now().AddDate(0, 0, -days).Format(time.RFC3339))
	params.Set("limit", "10000")
	endpoint := fmt.Sprintf("%s/stocks/%s/bars?%s", c.baseURL, strings.ToUpper(symbol), params.Encode())

	var resp barsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetIntraday returns 30-minute bars, oldest first.
func (c *Client) GetIntraday(ctx context.Context, symbol string, days int) ([]marketdata.IntradayBar, error) {
	resp, err := c.bars(ctx, symbol, "30Min", days)
	if err != nil {
		return nil, fmt.Errorf("alpaca intraday %s: %w", symbol, err)
	}

	bars := make([]marketdata.IntradayBar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		bars = append(bars, marketdata.IntradayBar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	return bars, nil
}

// GetDaily returns daily bars, oldest first.
func (c *Client) GetDaily(ctx context.Context, symbol string, days int) ([]marketdata.DailyBar, error) {
	resp, err := c.bars(ctx, symbol, "1Day", days)
	if err != nil {
		return nil, fmt.Errorf("alpaca daily %s: %w", symbol, err)
	}

	bars := make([]marketdata.DailyBar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		bars = append(bars, marketdata.DailyBar{
			Date:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return bars, nil
}
