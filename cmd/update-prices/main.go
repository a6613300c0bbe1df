package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"investor-education/internal/data"
	"investor-education/internal/logging"
	"investor-education/internal/market"
	"investor-education/internal/model"
)

// defaultSymbols seeds a fresh snapshot with large NSE names.
var defaultSymbols = []string{"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "ITC.NS", "SBIN.NS"}

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "Comma-separated symbols (default: symbols already in the snapshot, or a built-in list)")
		outputPath  = flag.String("output", "", "Output file path (default: ./data/prices.json)")
		seedFile    = flag.String("seed", "", "Path to an existing snapshot to update")
		days        = flag.Int("days", 120, "Number of days of closes to keep")
		timeout     = flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	)
	flag.Parse()

	logger := logging.NewConsole("info")
	defer logger.Sync()

	if *outputPath == "" {
		*outputPath = data.GetDefaultPricesPath()
	}
	seedPath := *seedFile
	if seedPath == "" {
		seedPath = *outputPath
	}

	snap := &data.PriceSnapshot{Prices: map[string]model.PriceHistory{}}
	if existing, err := data.LoadPriceSnapshot(seedPath); err == nil {
		snap = existing
		fmt.Printf("Loaded %d symbols from %s\n", len(snap.Prices), seedPath)
	}

	symbols := splitSymbols(*symbolsFlag)
	if len(symbols) == 0 {
		symbols = snap.Symbols()
	}
	if len(symbols) == 0 {
		symbols = defaultSymbols
	}

	src := market.NewYahooSource("", *timeout, logger)
	ctx := context.Background()

	fmt.Printf("Fetching %d days of closes for %d symbols...\n", *days, len(symbols))
	updated := 0
	for _, sym := range symbols {
		h, err := src.History(ctx, sym, *days)
		if err != nil {
			// Keep whatever the snapshot already had for this symbol.
			fmt.Printf("  ⚠️  Warning: failed to fetch %s: %v\n", sym, err)
			continue
		}
		snap.Prices[h.Symbol] = h
		updated++
		last, _ := h.Last()
		fmt.Printf("  ✓ %s: %d closes, last %.2f\n", h.Symbol, len(h.Bars), last)
	}
	fmt.Printf("Successfully updated %d/%d symbols\n", updated, len(symbols))

	snap.UpdatedAt = time.Now().Format(time.RFC3339)
	if err := data.SavePriceSnapshot(snap, *outputPath); err != nil {
		log.Fatalf("Failed to save prices: %v", err)
	}
	fmt.Printf("Saved %d symbols to %s\n", len(snap.Prices), *outputPath)
}

func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if sym := model.NormalizeSymbol(p); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
