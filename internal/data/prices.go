package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"investor-education/internal/model"
)

// PriceSnapshot is an offline copy of recent closes, refreshed by cmd/update-prices.
type PriceSnapshot struct {
	UpdatedAt string                        `json:"updated_at"` // ISO 8601 timestamp
	Prices    map[string]model.PriceHistory `json:"prices"`
}

// Symbols returns the snapshot's symbols in sorted order.
func (s *PriceSnapshot) Symbols() []string {
	out := make([]string, 0, len(s.Prices))
	for sym := range s.Prices {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// LoadPriceSnapshot loads a snapshot from a JSON file
func LoadPriceSnapshot(filePath string) (*PriceSnapshot, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prices file: %w", err)
	}

	var snap PriceSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse prices file: %w", err)
	}
	if snap.Prices == nil {
		snap.Prices = map[string]model.PriceHistory{}
	}

	return &snap, nil
}

// SavePriceSnapshot saves a snapshot to a JSON file
func SavePriceSnapshot(snap *PriceSnapshot, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write prices file: %w", err)
	}

	return nil
}

// GetDefaultPricesPath returns the default path for the prices file
func GetDefaultPricesPath() string {
	if path := os.Getenv("PRICES_FILE"); path != "" {
		return path
	}
	return "./data/prices.json"
}
