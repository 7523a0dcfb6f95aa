package alpaca

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
	return New(httpClient, logger.NewNop(), "test-key", "test-secret", server.URL), server
}

func TestGetQuotes_DerivesChangeFromPrevClose(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/snapshots", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "test-secret", r.Header.Get("APCA-API-SECRET-KEY"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		fmt.Fprint(w, `{"AAPL":{
			"latestTrade":{"p":231.0,"t":"2026-08-28T15:30:00Z"},
			"dailyBar":{"v":52000000},
			"prevDailyBar":{"c":220.0}
		}}`)
	})

	quotes, err := client.GetQuotes(context.Background(), []string{"aapl"})
	require.NoError(t, err)
	require.Contains(t, quotes, "AAPL")

	q := quotes["AAPL"]
	assert.Equal(t, 231.0, q.Price)
	assert.Equal(t, int64(52000000), q.Volume)
	assert.InDelta(t, 5.0, q.ChangePercent, 0.001)
	assert.Equal(t, marketdata.SourceAlpaca, q.Source)
}

func TestGetQuotes_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
}
