package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"investor-education/internal/config"
	"investor-education/internal/data"
	"investor-education/internal/model"
)

// Source returns up to days daily closes for one symbol, oldest first.
type Source interface {
	History(ctx context.Context, symbol string, days int) (model.PriceHistory, error)
}

// NewFromConfig builds the configured source. Real sources always fall back to synthetic
// data and are wrapped in a TTL cache.
func NewFromConfig(cfg config.MarketConfig, logger *zap.Logger) (Source, error) {
	synthetic := NewSyntheticSource()

	var primary Source
	switch strings.ToLower(cfg.Source) {
	case "synthetic":
		return synthetic, nil
	case "yahoo", "":
		primary = NewYahooSource("", cfg.Timeout, logger)
	case "file":
		primary = NewFileSource(cfg.PricesFile)
	default:
		return nil, fmt.Errorf("unsupported market source: %q", cfg.Source)
	}
	return NewCached(NewFallback(primary, synthetic, logger), cfg.CacheTTL), nil
}

// Fallback serves from Primary and degrades to Secondary on any error or empty series.
type Fallback struct {
	Primary   Source
	Secondary Source
	log       *zap.Logger
}

func NewFallback(primary, secondary Source, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{Primary: primary, Secondary: secondary, log: logger}
}

func (f *Fallback) History(ctx context.Context, symbol string, days int) (model.PriceHistory, error) {
	h, err := f.Primary.History(ctx, symbol, days)
	if err == nil && len(h.Bars) > 0 {
		return h, nil
	}
	if err == nil {
		err = fmt.Errorf("no data for %s", symbol)
	}
	f.log.Warn("market: primary source failed, using fallback",
		zap.String("symbol", symbol), zap.Error(err))
	return f.Secondary.History(ctx, symbol, days)
}

// Cached memoizes histories per symbol and window.
type Cached struct {
	src   Source
	cache *data.Cache[model.PriceHistory]
}

// NewCached wraps src. A non-positive ttl disables caching.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{src: src, cache: data.NewCache[model.PriceHistory](ttl)}
}

func (c *Cached) History(ctx context.Context, symbol string, days int) (model.PriceHistory, error) {
	key := data.CacheKey(symbol, fmt.Sprint(days))
	if h, ok := c.cache.Get(key); ok {
		return h, nil
	}
	h, err := c.src.History(ctx, symbol, days)
	if err != nil {
		return model.PriceHistory{}, err
	}
	c.cache.Set(key, h)
	return h, nil
}

// Close stops the cache cleanup goroutine.
func (c *Cached) Close() error {
	c.cache.Close()
	return nil
}

// LatestPrices returns the last close of each symbol. Symbols without data are omitted,
// so the ledger values them at average cost.
func LatestPrices(ctx context.Context, src Source, symbols []string, days int) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		h, err := src.History(ctx, sym, days)
		if err != nil {
			continue
		}
		if px, ok := h.Last(); ok {
			prices[sym] = px
		}
	}
	return prices
}
