// Package finnhub adapts the Finnhub REST API to the market data
// capability contracts. Quotes are fetched one symbol at a time because
// the API has no batch quote endpoint.
package finnhub

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

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client implements quote, profile, metrics, sentiment and search
// capabilities against Finnhub.
type Client struct {
	http    *httputil.Client
	log     *logger.Logger
	apiKey  string
	baseURL string
}

// New creates a Finnhub client. baseURL may be empty to use production.
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

func (c *Client) Name() marketdata.Source { return marketdata.SourceFinnhub }

func (c *Client) endpoint(path string, params url.Values) string {
	params.Set("token", c.apiKey)
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

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// GetQuotes fetches snapshots symbol by symbol. A symbol the API does not
// know yields a zero quote and is skipped; a transport error fails the
// whole call so the aggregator can fall back.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	quotes := make(map[string]marketdata.Quote, len(symbols))
	for _, symbol := range symbols {
		sym := strings.ToUpper(symbol)
		params := url.Values{}
		params.Set("symbol", sym)

		var resp quoteResponse
		if err := c.getJSON(ctx, c.endpoint("/quote", params), &resp); err != nil {
			return nil, fmt.Errorf("finnhub quote %s: %w", sym, err)
		}
		if resp.Current <= 0 {
			// Unknown symbols come back as all zeros
			continue
		}
		quotes[sym] = marketdata.Quote{
			Symbol:        sym,
			Price:         resp.Current,
			Timestamp:     time.Unix(resp.Timestamp, 0),
			ChangePercent: resp.ChangePercent,
			Source:        marketdata.SourceFinnhub,
		}
	}
	return quotes, nil
}

type profileResponse struct {
	Name             string  `json:"name"`
	Exchange         string  `json:"exchange"`
	FinnhubIndustry  string  `json:"finnhubIndustry"`
	MarketCapMillion float64 `json:"marketCapitalization"`
	Ticker           string  `json:"ticker"`
}

func (c *Client) GetProfile(ctx context.Context, symbol string) (marketdata.CompanyProfile, error) {
	sym := strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("symbol", sym)

	var resp profileResponse
	if err := c.getJSON(ctx, c.endpoint("/stock/profile2", params), &resp); err != nil {
		return marketdata.CompanyProfile{}, fmt.Errorf("finnhub profile %s: %w", sym, err)
	}
	if resp.Ticker == "" {
		return marketdata.CompanyProfile{}, nil
	}
	return marketdata.CompanyProfile{
		Symbol:    sym,
		Name:      resp.Name,
		Exchange:  resp.Exchange,
		Industry:  resp.FinnhubIndustry,
		MarketCap: resp.MarketCapMillion * 1e6,
		Source:    marketdata.SourceFinnhub,
	}, nil
}

type metricResponse struct {
	Metric struct {
		PERatio      float64 `json:"peTTM"`
		EPS          float64 `json:"epsTTM"`
		Beta         float64 `json:"beta"`
		DividendYld  float64 `json:"currentDividendYieldTTM"`
		Week52High   float64 `json:"52WeekHigh"`
		Week52Low    float64 `json:"52WeekLow"`
		DebtToEquity float64 `json:"totalDebt/totalEquityQuarterly"`
	} `json:"metric"`
}

func (c *Client) GetMetrics(ctx context.Context, symbol string) (marketdata.FinancialMetrics, error) {
	sym := strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("symbol", sym)
	params.Set("metric", "all")

	var resp metricResponse
	if err := c.getJSON(ctx, c.endpoint("/stock/metric", params), &resp); err != nil {
		return marketdata.FinancialMetrics{}, fmt.Errorf("finnhub metrics %s: %w", sym, err)
	}
	return marketdata.FinancialMetrics{
		Symbol:       sym,
		PERatio:      resp.Metric.PERatio,
		EPS:          resp.Metric.EPS,
		Beta:         resp.Metric.Beta,
		DividendYld:  resp.Metric.DividendYld,
		Week52High:   resp.Metric.Week52High,
		Week52Low:    resp.Metric.Week52Low,
		DebtToEquity: resp.Metric.DebtToEquity,
		Source:       marketdata.SourceFinnhub,
	}, nil
}

type sentimentResponse struct {
	Buzz struct {
		ArticlesInLastWeek int `json:"articlesInLastWeek"`
	} `json:"buzz"`
	CompanyNewsScore float64 `json:"companyNewsScore"`
	SectorAvgBullish float64 `json:"sectorAverageBullishPercent"`
	Bullish          float64 `json:"bullishPercent"`
	Bearish          float64 `json:"bearishPercent"`
}

func (c *Client) GetSentiment(ctx context.Context, symbol string) (marketdata.SentimentData, error) {
	sym := strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("symbol", sym)

	var resp sentimentResponse
	if err := c.getJSON(ctx, c.endpoint("/news-sentiment", params), &resp); err != nil {
		return marketdata.SentimentData{}, fmt.Errorf("finnhub sentiment %s: %w", sym, err)
	}

	articles := resp.Buzz.ArticlesInLastWeek
	return marketdata.SentimentData{
		Symbol:          sym,
		Score:           resp.Bullish - resp.Bearish,
		ArticleCount:    articles,
		BullishMentions: int(resp.Bullish * float64(articles)),
		BearishMentions: int(resp.Bearish * float64(articles)),
		Source:          marketdata.SourceFinnhub,
	}, nil
}

type searchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, query string) ([]marketdata.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp searchResponse
	if err := c.getJSON(ctx, c.endpoint("/search", params), &resp); err != nil {
		return nil, fmt.Errorf("finnhub search %q: %w", query, err)
	}

	results := make([]marketdata.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, marketdata.SearchResult{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return results, nil
}
