package market

import (
	"context"
	"fmt"

	"investor-education/internal/data"
	"investor-education/internal/model"
)

// FileSource serves closes from the offline snapshot written by update-prices.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) History(_ context.Context, symbol string, days int) (model.PriceHistory, error) {
	snap, err := data.LoadPriceSnapshot(f.Path)
	if err != nil {
		return model.PriceHistory{}, err
	}
	h, ok := snap.Prices[symbol]
	if !ok {
		return model.PriceHistory{}, fmt.Errorf("symbol %s not in snapshot", symbol)
	}
	h.Symbol = symbol
	h.Bars = h.Tail(days)
	return h, nil
}
