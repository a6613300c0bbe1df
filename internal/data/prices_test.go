package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor-education/internal/model"
)

func TestPriceSnapshotSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prices.json")
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	snap := &PriceSnapshot{
		UpdatedAt: "2025-03-04T00:00:00Z",
		Prices: map[string]model.PriceHistory{
			"TCS.NS":  {Symbol: "TCS.NS", Bars: []model.PriceBar{{Date: day, Close: 3500.5}}},
			"INFY.NS": {Symbol: "INFY.NS", Bars: []model.PriceBar{{Date: day, Close: 1500}}},
		},
	}
	require.NoError(t, SavePriceSnapshot(snap, path))

	got, err := LoadPriceSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, []string{"INFY.NS", "TCS.NS"}, got.Symbols())
}

func TestLoadPriceSnapshotMissing(t *testing.T) {
	_, err := LoadPriceSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestGetDefaultPricesPath(t *testing.T) {
	t.Setenv("PRICES_FILE", "")
	assert.Equal(t, "./data/prices.json", GetDefaultPricesPath())
	t.Setenv("PRICES_FILE", "/tmp/p.json")
	assert.Equal(t, "/tmp/p.json", GetDefaultPricesPath())
}
