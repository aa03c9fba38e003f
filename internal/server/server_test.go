package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/cache"
	"xsmb-bot/internal/config"
	"xsmb-bot/internal/crawler"
	"xsmb-bot/internal/database"
)

func newTestServer(t *testing.T) (*Server, *database.MemoryStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.DefaultWindowDays = 30
	cfg.App.CacheTTL = time.Minute
	cfg.AI.DefaultModel = "claude-opus"
	cfg.Crawl.Timeout = time.Second
	cfg.Crawl.RetryDelay = time.Millisecond
	cfg.Crawl.HistoryDelay = time.Millisecond
	cfg.Crawl.SiteURL = "http://127.0.0.1:1"
	cfg.Crawl.APIURL = "http://127.0.0.1:1"

	store := database.NewMemoryStore()
	memCache := cache.NewMemoryCache(100)
	crawl := crawler.NewCrawler(&cfg.Crawl, store)
	aiSvc := ai.NewService(&cfg.AI, store, memCache)

	return NewServer(cfg, store, crawl, aiSvc, memCache), store
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func seedDraws(t *testing.T, store *database.MemoryStore) {
	t.Helper()
	draws := []database.DrawResult{
		{Date: "2026-08-30", DateDisplay: "30-8-2026", TwoDigits: []string{"12", "34", "56"}, CountNumbers: 3},
		{Date: "2026-08-29", DateDisplay: "29-8-2026", TwoDigits: []string{"12", "78"}, CountNumbers: 2},
		{Date: "2026-08-28", DateDisplay: "28-8-2026", TwoDigits: []string{"90"}, CountNumbers: 1},
	}
	for i := range draws {
		require.NoError(t, store.SaveDrawResult(&draws[i]))
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   int             `json:"count"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHistoryEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	w := doRequest(s, http.MethodGet, "/api/lottery/history?days=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Count)

	var results []database.DrawResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "2026-08-30", results[0].Date)
}

func TestLatestEndpointFromDatabase(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	w := doRequest(s, http.MethodGet, "/api/lottery/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"database"`)
	assert.Contains(t, w.Body.String(), "2026-08-30")
}

func TestManualEndpoint(t *testing.T) {
	s, store := newTestServer(t)

	body := `{
		"date": "2026-08-31",
		"dateDisplay": "31-8-2026",
		"prizes": {"special": ["12345"], "seventh": ["11", "22"]}
	}`
	w := doRequest(s, http.MethodPost, "/api/lottery/manual", body)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := store.GetResultByDate("2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, []string{"45", "11", "22"}, saved.TwoDigits)
	assert.Equal(t, 3, saved.CountNumbers)
}

func TestManualEndpointRequiresDate(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/lottery/manual", `{"prizes":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	w := doRequest(s, http.MethodGet, "/api/lottery/statistics?days=30", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"hotNumbers"`)
	assert.Contains(t, string(env.Data), `"period"`)

	// 缓存命中路径
	w = doRequest(s, http.MethodGet, "/api/lottery/statistics?days=30", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHotNumbersEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	w := doRequest(s, http.MethodGet, "/api/lottery/hot-numbers?limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	var hot []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &hot))
	require.Len(t, hot, 3)
	assert.Equal(t, "12", hot[0]["number"])
}

func TestCycleEndpointPadsSingleDigit(t *testing.T) {
	s, store := newTestServer(t)
	require.NoError(t, store.SaveDrawResult(&database.DrawResult{
		Date: "2026-08-30", TwoDigits: []string{"05"},
	}))

	w := doRequest(s, http.MethodGet, "/api/lottery/cycle/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"number":"05"`)
}

func TestCycleEndpointInvalidNumber(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/lottery/cycle/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIAnalysisRequiresHistory(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/lottery/ai-analysis", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Chưa có dữ liệu lịch sử")
}

func TestAIProvidersEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/lottery/ai-providers", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	var models []ai.ModelInfo
	require.NoError(t, json.Unmarshal(env.Data, &models))
	assert.Len(t, models, 7)
}

func TestEvaluatePredictionsFlow(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	require.NoError(t, store.SavePrediction(&database.Prediction{
		ModelKey:         "claude-opus",
		ModelID:          "test-id",
		ModelName:        "Test",
		Analysis:         "Lô [12]",
		PredictedNumbers: []string{"12", "99"},
		PredictionDate:   "2026-08-30",
		Timestamp:        time.Now(),
	}))

	w := doRequest(s, http.MethodPost, "/api/lottery/evaluate-predictions", `{"date":"2026-08-30"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hitCount":1`)
	assert.Contains(t, w.Body.String(), `"isWin":true`)

	// 评估后进入模型统计
	w = doRequest(s, http.MethodGet, "/api/lottery/model-statistics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalDays":1`)

	w = doRequest(s, http.MethodGet, "/api/lottery/model-statistics/claude-opus", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, http.MethodGet, "/api/lottery/model-statistics/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvaluatePredictionsMissingResult(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/lottery/evaluate-predictions", `{"date":"2026-01-01"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Không tìm thấy kết quả")
}

func TestEvaluatePredictionsNoPredictions(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	w := doRequest(s, http.MethodPost, "/api/lottery/evaluate-predictions", `{"date":"2026-08-30"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Không có dự đoán")
}

func TestPendingEvaluationsEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	require.NoError(t, store.SavePrediction(&database.Prediction{
		ModelKey:         "glm",
		PredictedNumbers: []string{"11"},
		PredictionDate:   "2026-08-30",
		Timestamp:        time.Now(),
	}))

	w := doRequest(s, http.MethodGet, "/api/lottery/pending-evaluations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"glm"`)
}

func TestAutoEvaluateEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedDraws(t, store)

	require.NoError(t, store.SavePrediction(&database.Prediction{
		ModelKey:         "gemini",
		PredictedNumbers: []string{"12"},
		PredictionDate:   "2026-08-30",
		Timestamp:        time.Now(),
	}))

	w := doRequest(s, http.MethodPost, "/api/lottery/auto-evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Đã đánh giá 1 ngày")

	pending, err := store.GetPendingPredictions()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestClearPredictionCacheEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/lottery/clear-prediction-cache", `{"modelKey":"glm"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Đã xóa cache của glm")

	w = doRequest(s, http.MethodPost, "/api/lottery/clear-prediction-cache", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Đã xóa tất cả cache hôm nay")
}
