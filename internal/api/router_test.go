package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor-education/internal/config"
	"investor-education/internal/data"
	"investor-education/internal/learnhub"
	"investor-education/internal/market"
	"investor-education/internal/model"
	"investor-education/internal/session"
	"investor-education/internal/simulator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedPrices map[string]float64

func (f fixedPrices) History(_ context.Context, symbol string, _ int) (model.PriceHistory, error) {
	px, ok := f[symbol]
	if !ok {
		return model.PriceHistory{}, &market.APIError{StatusCode: http.StatusNotFound, Code: "UNKNOWN_SYMBOL", Message: "no chart data for " + symbol}
	}
	return model.PriceHistory{
		Symbol: symbol,
		Bars:   []model.PriceBar{{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Close: px}},
	}, nil
}

type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	return lang + ": " + text, nil
}

type testServer struct {
	router *gin.Engine
	store  *data.JSONStore
	sess   *session.Session
}

// newTestServer lets tickets carry a price so the examples stay deterministic.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Portfolio.AllowPriceOverride = true
	return newTestServerWith(t, cfg)
}

func newTestServerWith(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	store := data.NewJSONStore(t.TempDir())
	sess, err := session.New(model.DefaultStartingCash, store, nil)
	require.NoError(t, err)
	sim := simulator.New(sess, fixedPrices{"INFY.NS": 130, "TCS.NS": 3500}, cfg.Portfolio, cfg.Market, nil)
	hub := learnhub.New(learnhub.NewFetcher(time.Second, 0, nil), echoTranslator{}, 0, nil)

	return &testServer{
		router: NewRouter(Deps{
			Session:        sess,
			Simulator:      sim,
			LearnHub:       hub,
			AllowedOrigins: []string{"http://localhost:5173"},
		}),
		store: store,
		sess:  sess,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWorkedExampleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/portfolio/orders", map[string]any{
		"symbol": "INFY.NS", "side": "buy", "qty": 10, "price": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[struct {
		Trade model.Trade `json:"trade"`
		Cash  float64     `json:"cash"`
	}](t, rec)
	assert.Equal(t, 10, order.Trade.Qty)
	assert.Equal(t, 99000.0, order.Cash)

	rec = s.do(t, http.MethodPost, "/api/v1/portfolio/orders", map[string]any{
		"symbol": "infy.ns", "side": "SELL", "qty": 5, "price": 120,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ov := decode[simulator.Overview](t, rec)
	assert.Equal(t, 99600.0, ov.Cash)
	assert.Equal(t, 100250.0, ov.TotalValue)
	require.Len(t, ov.Holdings, 1)
	assert.Equal(t, 150.0, ov.Holdings[0].UnrealizedPNL)
}

func TestOrderAtMarketPrice(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/portfolio/orders", map[string]any{
		"symbol": "TCS.NS", "side": "buy", "qty": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 93000.0, s.sess.Portfolio().Cash)
}

func TestOrderPriceRejectedByDefault(t *testing.T) {
	s := newTestServerWith(t, config.Default())
	rec := s.do(t, http.MethodPost, "/api/v1/portfolio/orders", map[string]any{
		"symbol": "INFY.NS", "side": "buy", "qty": 10, "price": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "INVALID_ORDER", decode[errorBody](t, rec).Error.Code)
	assert.Empty(t, s.sess.Portfolio().History)

	rec = s.do(t, http.MethodPost, "/api/v1/portfolio/orders", map[string]any{
		"symbol": "INFY.NS", "side": "buy", "qty": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 98700.0, s.sess.Portfolio().Cash)
}

func TestOrderErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"insufficient funds", map[string]any{"symbol": "TCS.NS", "side": "buy", "qty": 100, "price": 3500}, http.StatusConflict, "INSUFFICIENT_FUNDS"},
		{"insufficient holdings", map[string]any{"symbol": "TCS.NS", "side": "sell", "qty": 1, "price": 3500}, http.StatusConflict, "INSUFFICIENT_HOLDINGS"},
		{"bad side", map[string]any{"symbol": "TCS.NS", "side": "hold", "qty": 1}, http.StatusBadRequest, "INVALID_ORDER"},
		{"zero qty", map[string]any{"symbol": "TCS.NS", "side": "buy", "qty": 0}, http.StatusBadRequest, "INVALID_ORDER"},
		{"qty too large", map[string]any{"symbol": "TCS.NS", "side": "buy", "qty": 10001, "price": 1}, http.StatusBadRequest, "INVALID_ORDER"},
		{"missing symbol", map[string]any{"side": "buy", "qty": 1}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown symbol at market", map[string]any{"symbol": "NOPE", "side": "buy", "qty": 1}, http.StatusBadGateway, "UNKNOWN_SYMBOL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(t, http.MethodPost, "/api/v1/portfolio/orders", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Error.Code)

			p := s.sess.Portfolio()
			assert.Equal(t, 100000.0, p.Cash)
			assert.Empty(t, p.History)
		})
	}
}

func TestHistoryAndCSV(t *testing.T) {
	s := newTestServer(t)
	_, err := s.sess.PlaceOrder(model.Order{Symbol: "INFY.NS", Qty: 10, Price: 100, At: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/v1/portfolio/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[struct {
		Trades []simulator.LedgerRow `json:"trades"`
	}](t, rec)
	require.Len(t, hist.Trades, 1)
	assert.Equal(t, 99000.0, hist.Trades[0].CashAfter)

	rec = s.do(t, http.MethodGet, "/api/v1/portfolio/history.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trade_history.csv")
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ts", "symbol", "qty", "price"},
		{"2025-01-02T03:04:05Z", "INFY.NS", "10", "100"},
	}, rows)
}

func TestQuotes(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/market/quotes?symbols=INFY.NS,tcs.ns", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decode[struct {
		Quotes []simulator.Quote `json:"quotes"`
	}](t, rec)
	require.Len(t, q.Quotes, 2)
	assert.Equal(t, "TCS.NS", q.Quotes[1].Symbol)

	rec = s.do(t, http.MethodGet, "/api/v1/market/quotes?symbols=A,B,C,D,E,F,G", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOO_MANY_SYMBOLS", decode[errorBody](t, rec).Error.Code)
}

func TestLessons(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/lessons/orders/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/lessons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Lessons []struct {
			Key       string `json:"key"`
			Completed bool   `json:"completed"`
		} `json:"lessons"`
		Completed int `json:"completed"`
		Total     int `json:"total"`
	}](t, rec)
	assert.Equal(t, 7, list.Total)
	assert.Equal(t, 1, list.Completed)
	assert.True(t, list.Lessons[4].Completed)

	rec = s.do(t, http.MethodGet, "/api/v1/lessons/orders?format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec)["html"], "<h1>Order Types</h1>")

	rec = s.do(t, http.MethodGet, "/api/v1/lessons/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/lessons/nope/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizLeaderboardAndCertificate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/quiz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Explanation")
	assert.NotContains(t, rec.Body.String(), `"answer"`)

	rec = s.do(t, http.MethodGet, "/api/v1/certificate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/quiz", map[string]any{
		"answers": []any{1, 2, 1, 1, nil},
		"name":    "Asha",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[map[string]any](t, rec)
	assert.Equal(t, 4.0, out["score"])
	assert.Equal(t, true, out["new_best"])

	rec = s.do(t, http.MethodGet, "/api/v1/leaderboard", nil)
	assert.JSONEq(t, `{"entries":[{"name":"Asha","score":4}]}`, rec.Body.String())

	board, err := s.store.LoadLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.LeaderboardEntry{{Name: "Asha", Score: 4}}, board)

	rec = s.do(t, http.MethodGet, "/api/v1/certificate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "completed the quiz with score 4.")
}

func TestRiskAndDashboard(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/risk/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unprofiled", decode[map[string]any](t, rec)["current_profile"])

	rec = s.do(t, http.MethodPost, "/api/v1/risk", map[string]any{"answers": []any{2, 2, nil, 1}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":5,"profile":"Balanced","recommendation":"Add Portfolio Diversification and Order Types."}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[map[string]any](t, rec)
	assert.Equal(t, "Balanced", d["risk_profile"])
	assert.Equal(t, "Start with basics and risk assessment lessons first.", d["strengths"])
	assert.Equal(t, []any{}, d["badges"])
}

func TestLearn(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/learn", map[string]any{"text": "Diversify.", "lang": "ta"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[learnhub.Result](t, rec)
	assert.True(t, res.Summarized)
	assert.Equal(t, "ta: Diversify.", res.Translated)

	rec = s.do(t, http.MethodPost, "/api/v1/learn", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_INPUT", decode[errorBody](t, rec).Error.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/learn", map[string]any{"url": "http://127.0.0.1:0/", "lang": "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "FETCH_ERROR", decode[errorBody](t, rec).Error.Code)
}

func TestSessionSave(t *testing.T) {
	s := newTestServer(t)
	_, err := s.sess.PlaceOrder(model.Order{Symbol: "INFY.NS", Qty: 1, Price: 100})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/v1/session/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := s.store.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99900.0, doc.Portfolio.Cash)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/portfolio/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))

	sess, err := session.New(model.DefaultStartingCash, nil, nil)
	require.NoError(t, err)
	cfg := config.Default()
	router := NewRouter(Deps{
		Session:   sess,
		Simulator: simulator.New(sess, fixedPrices{}, cfg.Portfolio, cfg.Market, nil),
		StaticDir: dir,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lessons/basics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := s.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "kaboom", body.Error.Message)
}
