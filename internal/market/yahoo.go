package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"

	"investor-education/internal/model"
)

const defaultYahooURL = "https://query2.finance.yahoo.com"

// YahooSource reads daily closes from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL string
	Client  *http.Client
	log     *zap.Logger
}

// NewYahooSource creates a chart client. If baseURL is empty the public endpoint is used.
func NewYahooSource(baseURL string, timeout time.Duration, logger *zap.Logger) *YahooSource {
	if baseURL == "" {
		baseURL = defaultYahooURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YahooSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// APIError is a non-200 answer from the chart API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

func (y *YahooSource) History(ctx context.Context, symbol string, days int) (model.PriceHistory, error) {
	if symbol == "" {
		return model.PriceHistory{}, fmt.Errorf("symbol is required")
	}
	if days <= 0 {
		return model.PriceHistory{}, fmt.Errorf("days must be > 0")
	}

	u, err := url.Parse(y.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return model.PriceHistory{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("range", fmt.Sprintf("%dd", days))
	q.Set("interval", "1d")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.PriceHistory{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := y.Client.Do(req)
	if err != nil {
		y.log.Warn("yahoo: request failed", zap.String("symbol", symbol), zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return model.PriceHistory{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	y.log.Debug("yahoo: response", zap.String("symbol", symbol), zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.PriceHistory{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN_SYMBOL",
			Message:    fmt.Sprintf("no chart data for %s", symbol),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return model.PriceHistory{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return model.PriceHistory{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return model.PriceHistory{}, fmt.Errorf("failed to decode response: %w", err)
	}
	bars, err := parseChart(jobj)
	if err != nil {
		return model.PriceHistory{}, fmt.Errorf("%s: %w", symbol, err)
	}
	return model.PriceHistory{Symbol: symbol, Bars: bars}, nil
}

const (
	timestampPath = "$.chart.result[0].timestamp"
	closePath     = "$.chart.result[0].indicators.quote[0].close"
)

// parseChart pairs timestamps with closes. Null closes (halted days) are skipped.
func parseChart(jobj any) ([]model.PriceBar, error) {
	jts, err := jsonpath.Get(timestampPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", timestampPath, err)
	}
	jcl, err := jsonpath.Get(closePath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", closePath, err)
	}
	stamps, ok := jts.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list", timestampPath)
	}
	closes, ok := jcl.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list", closePath)
	}

	n := min(len(stamps), len(closes))
	bars := make([]model.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		ts, ok := stamps[i].(float64)
		if !ok {
			continue
		}
		cl, ok := closes[i].(float64)
		if !ok || math.IsNaN(cl) || cl <= 0 {
			continue
		}
		bars = append(bars, model.PriceBar{
			Date:  time.Unix(int64(ts), 0).UTC(),
			Close: cl,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no closes in chart response")
	}
	return bars, nil
}
