package market

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"investor-education/internal/model"
)

// SyntheticSource generates a deterministic random walk per symbol for offline demos.
type SyntheticSource struct {
	now func() time.Time
}

func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{now: time.Now}
}

func (s *SyntheticSource) History(_ context.Context, symbol string, days int) (model.PriceHistory, error) {
	if days <= 0 {
		days = 1
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	seed := h.Sum32()

	rng := rand.New(rand.NewSource(int64(seed % 1000)))
	price := 100 + float64(seed%500)

	today := s.now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.PriceBar, days)
	for i := 0; i < days; i++ {
		ret := 0.001 + 0.02*rng.NormFloat64()
		price *= 1 + ret
		bars[i] = model.PriceBar{
			Date:  today.AddDate(0, 0, i-days+1),
			Close: price,
		}
	}
	return model.PriceHistory{Symbol: symbol, Bars: bars, Synthetic: true}, nil
}
