package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/httputil"
	"github.com/dtrask/sift/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := httputil.New(logger.NewNop()).DisableRetry()
	return New(httpClient, logger.NewNop(), "test-key", server.URL), server
}

func TestGetQuotes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, `{"c":231.5,"d":2.75,"dp":1.2,"h":233.1,"l":229.8,"o":230.0,"pc":228.75,"t":1756400400}`)
	})

	quotes, err := client.GetQuotes(context.Background(), []string{"aapl"})
	require.NoError(t, err)
	require.Contains(t, quotes, "AAPL")

	q := quotes["AAPL"]
	assert.Equal(t, 231.5, q.Price)
	assert.Equal(t, 1.2, q.ChangePercent)
	assert.Equal(t, marketdata.SourceFinnhub, q.Source)
}

func TestGetQuotes_UnknownSymbolSkipped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Finnhub answers unknown symbols with all zeros
		fmt.Fprint(w, `{"c":0,"d":0,"dp":0,"h":0,"l":0,"o":0,"pc":0,"t":0}`)
	})

	quotes, err := client.GetQuotes(context.Background(), []string{"NOPE"})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestGetQuotes_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
}

func TestGetProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/profile2", r.URL.Path)
		fmt.Fprint(w, `{"ticker":"AAPL","name":"Apple Inc","exchange":"NASDAQ","finnhubIndustry":"Technology","marketCapitalization":3500000}`)
	})

	profile, err := client.GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", profile.Name)
	assert.Equal(t, 3.5e12, profile.MarketCap)
	assert.Equal(t, marketdata.SourceFinnhub, profile.Source)
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"count":1,"result":[{"symbol":"AAPL","description":"APPLE INC","type":"Common Stock"}]}`)
	})

	results, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AAPL", results[0].Symbol)
}
