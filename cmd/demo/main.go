package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"investor-education/internal/model"
	"investor-education/internal/simulator"
)

// Demo:
// - Start a paper portfolio with 100,000 cash
// - Buy 10 @ 100, sell 5 @ 120
// - Value the remaining position at 130
// - Show that rejected orders leave the portfolio untouched
func main() {
	symbol := flag.String("symbol", "INFY.NS", "Symbol to trade")
	cash := flag.Float64("cash", model.DefaultStartingCash, "Starting cash")
	outCSV := flag.String("out", "", "Optional path to write the trade history CSV (e.g. results/trade_history.csv)")
	flag.Parse()

	p, err := model.NewPortfolio(*cash)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Start: cash=%.2f\n", p.Cash)

	steps := []model.Order{
		{Symbol: *symbol, Qty: 10, Price: 100},
		{Symbol: *symbol, Qty: -5, Price: 120},
	}
	for _, o := range steps {
		t, err := p.ApplyOrder(o)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-4s %3d %s @ %.2f -> cash=%.2f\n", t.Side(), abs(t.Qty), t.Symbol, t.Price, p.Cash)
	}

	prices := map[string]float64{model.NormalizeSymbol(*symbol): 130}
	for _, r := range p.Holdings(prices) {
		fmt.Printf("Holding %s qty=%d avg=%.2f market=%.2f pnl=%.2f\n", r.Symbol, r.Qty, r.AvgCost, r.Market, r.UnrealizedPNL)
	}
	fmt.Printf("Mark to market @130: %.2f\n", p.MarkToMarket(prices))

	rejected := []model.Order{
		{Symbol: *symbol, Qty: -50, Price: 130},
		{Symbol: "TCS.NS", Qty: 1000, Price: 3500},
	}
	for _, o := range rejected {
		_, err := p.ApplyOrder(o)
		switch {
		case errors.Is(err, model.ErrInsufficientHoldings):
			fmt.Printf("Rejected sell of %d %s: %v\n", -o.Qty, o.Symbol, err)
		case errors.Is(err, model.ErrInsufficientFunds):
			fmt.Printf("Rejected buy of %d %s: %v\n", o.Qty, o.Symbol, err)
		default:
			fmt.Printf("Unexpected result: %v\n", err)
		}
	}
	fmt.Printf("After rejections: cash=%.2f trades=%d\n", p.Cash, len(p.History))

	for _, row := range simulator.BuildLedger(p) {
		fmt.Printf("  #%d %s %-4s %d @ %.2f cash_after=%.2f position=%d\n",
			row.Index, row.Symbol, row.Side, row.Qty, row.Price, row.CashAfter, row.PositionQty)
	}

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		f, err := os.Create(*outCSV)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := simulator.WriteTradesCSV(f, p.History); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d trades to %s\n", len(p.History), *outCSV)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
