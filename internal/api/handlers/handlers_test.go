package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/pipeline"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

func newTestAnalyzer(t *testing.T) *pipeline.Analyzer {
	t.Helper()

	registry := &marketdata.Registry{}
	registry.EnsureFallback(marketdata.NewSyntheticProvider(), false)

	agg := marketdata.NewAggregator(registry, marketdata.DefaultTTLPolicy(), logger.NewNop())
	return pipeline.NewAnalyzer(agg, settings.Default(), logger.NewNop())
}

func TestAnalyzeHandler(t *testing.T) {
	h := NewAnalyzeHandler(newTestAnalyzer(t), nil, logger.NewNop())

	body, _ := json.Marshal(AnalyzeRequest{
		Symbols: []string{"AAPL", "MSFT"},
		Intent:  "swing",
		Risk:    "moderate",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result pipeline.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"AAPL", "MSFT"}, result.Universe)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "swing", string(result.Plan.Intent))
}

func TestAnalyzeHandler_EmptyBodyUsesDefaults(t *testing.T) {
	h := NewAnalyzeHandler(newTestAnalyzer(t), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result pipeline.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Plan)
	assert.Equal(t, "swing", string(result.Plan.Intent))
	assert.Equal(t, "moderate", string(result.Plan.Risk))
	assert.NotEmpty(t, result.Universe)
}

func TestAnalyzeHandler_InvalidIntent(t *testing.T) {
	h := NewAnalyzeHandler(newTestAnalyzer(t), nil, logger.NewNop())

	body := []byte(`{"intent":"yolo"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_NegativeShortlistSize(t *testing.T) {
	h := NewAnalyzeHandler(newTestAnalyzer(t), nil, logger.NewNop())

	neg := -1
	body, _ := json.Marshal(AnalyzeRequest{MaxShortlist: &neg})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsHandler_NoPersistence(t *testing.T) {
	h := NewRunsHandler(nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunsHandler_InvalidLimit(t *testing.T) {
	h := NewRunsHandler(nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=abc", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	// Persistence check runs first when the repository is nil.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProvidersHandler_Status(t *testing.T) {
	registry := &marketdata.Registry{}
	registry.EnsureFallback(marketdata.NewSyntheticProvider(), false)

	h := NewProvidersHandler(registry, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/providers/status", nil)
	rec := httptest.NewRecorder()

	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Capabilities []marketdata.CapabilityStatus `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Capabilities, 9)
	assert.Equal(t, "quotes", body.Capabilities[0].Capability)
	assert.Equal(t, []string{"synthetic"}, body.Capabilities[0].Sources)
}

func TestRoutingHandler_Table(t *testing.T) {
	h := NewRoutingHandler(settings.Default(), logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/routing", nil)
	rec := httptest.NewRecorder()

	h.Table(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var table map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Contains(t, table, "shortlist")
	assert.NotEmpty(t, table["shortlist"]["model_id"])
}

func TestRoutingHandler_Classify(t *testing.T) {
	h := NewRoutingHandler(settings.Default(), logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/routing/classify?model=claude-sonnet-4-5", nil)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "anthropic", body["provider"])
	assert.Equal(t, "anthropic", body["dialect"])
}

func TestRoutingHandler_ClassifyMissingModel(t *testing.T) {
	h := NewRoutingHandler(settings.Default(), logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/routing/classify", nil)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
