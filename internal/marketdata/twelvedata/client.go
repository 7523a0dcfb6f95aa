// Package twelvedata adapts the Twelve Data REST API for quotes and bar
// series. It is last in the quote chain because the free tier allows
// only a handful of requests per minute.
package twelvedata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/httputil"
	"github.com/dtrask/sift/pkg/logger"
)

const defaultBaseURL = "https://api.twelvedata.com"

// Client implements quote, intraday and daily capabilities.
type Client struct {
	http    *httputil.Client
	log     *logger.Logger
	apiKey  string
	baseURL string
}

// New creates a Twelve Data client. baseURL may be empty to use production.
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

func (c *Client) Name() marketdata.Source { return marketdata.SourceTwelveData }

func (c *Client) endpoint(path string, params url.Values) string {
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

// Numeric fields arrive as strings.
type quoteResponse struct {
	Symbol        string `json:"symbol"`
	Close         string `json:"close"`
	Volume        string `json:"volume"`
	PercentChange string `json:"percent_change"`
	Timestamp     int64  `json:"timestamp"`
}

func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	quotes := make(map[string]marketdata.Quote, len(symbols))
	for _, symbol := range symbols {
		sym := strings.ToUpper(symbol)
		params := url.Values{}
		params.Set("symbol", sym)

		var resp quoteResponse
		if err := c.getJSON(ctx, c.endpoint("/quote", params), &resp); err != nil {
			return nil, fmt.Errorf("twelvedata quote %s: %w", sym, err)
		}
		price, err := strconv.ParseFloat(resp.Close, 64)
		if err != nil || price <= 0 {
			continue
		}
		volume, _ := strconv.ParseInt(resp.Volume, 10, 64)
		change, _ := strconv.ParseFloat(resp.PercentChange, 64)

		quotes[sym] = marketdata.Quote{
			Symbol:        sym,
			Price:         price,
			Volume:        volume,
			Timestamp:     time.Unix(resp.Timestamp, 0),
			ChangePercent: change,
			Source:        marketdata.SourceTwelveData,
		}
	}
	return quotes, nil
}

type seriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
	Status string `json:"status"`
}

func (c *Client) timeSeries(ctx context.Context, symbol, interval string, outputSize int) (*seriesResponse, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("interval", interval)
	params.Set("outputsize", strconv.Itoa(outputSize))

	var resp seriesResponse
	if err := c.getJSON(ctx, c.endpoint("/time_series", params), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("twelvedata series status %q: %w", resp.Status, marketdata.ErrUnavailable)
	}
	return &resp, nil
}

// GetIntraday returns 30-minute bars, oldest first.
func (c *Client) GetIntraday(ctx context.Context, symbol string, days int) ([]marketdata.IntradayBar, error) {
	// 13 half-hour bars per regular session
	resp, err := c.timeSeries(ctx, symbol, "30min", days*13)
	if err != nil {
		return nil, fmt.Errorf("twelvedata intraday %s: %w", symbol, err)
	}

	bars := make([]marketdata.IntradayBar, 0, len(resp.Values))
	for i := len(resp.Values) - 1; i >= 0; i-- {
		v := resp.Values[i]
		ts, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(v.Open, 64)
		high, _ := strconv.ParseFloat(v.High, 64)
		low, _ := strconv.ParseFloat(v.Low, 64)
		closePrice, _ := strconv.ParseFloat(v.Close, 64)
		volume, _ := strconv.ParseInt(v.Volume, 10, 64)

		bars = append(bars, marketdata.IntradayBar{
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}
	return bars, nil
}

// GetDaily returns daily bars, oldest first.
func (c *Client) GetDaily(ctx context.Context, symbol string, days int) ([]marketdata.DailyBar, error) {
	resp, err := c.timeSeries(ctx, symbol, "1day", days)
	if err != nil {
		return nil, fmt.Errorf("twelvedata daily %s: %w", symbol, err)
	}

	bars := make([]marketdata.DailyBar, 0, len(resp.Values))
	for i := len(resp.Values) - 1; i >= 0; i-- {
		v := resp.Values[i]
		date, err := time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(v.Open, 64)
		high, _ := strconv.ParseFloat(v.High, 64)
		low, _ := strconv.ParseFloat(v.Low, 64)
		closePrice, _ := strconv.ParseFloat(v.Close, 64)
		volume, _ := strconv.ParseInt(v.Volume, 10, 64)

		bars = append(bars, marketdata.DailyBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return bars, nil
}
