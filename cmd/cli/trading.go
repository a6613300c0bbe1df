package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"investor-education/internal/model"
	"investor-education/internal/simulator"
)

var tradingCommands = []subcommands.Command{
	&orderCmd{side: model.SideBuy},
	&orderCmd{side: model.SideSell},
	&portfolioCmd{},
	&historyCmd{},
	&exportCmd{},
	&quoteCmd{},
}

// orderCmd places a buy or sell ticket against the paper portfolio.
type orderCmd struct {
	side  model.Side
	qty   int
	price float64
}

func (c *orderCmd) Name() string { return strings.ToLower(string(c.side)) }
func (c *orderCmd) Synopsis() string {
	return fmt.Sprintf("%s shares in the paper portfolio", strings.ToLower(string(c.side)))
}
func (c *orderCmd) Usage() string {
	return fmt.Sprintf(`%s -q <qty> [-p <price>] <symbol>

  Places a %s order. Without -p the order fills at the latest close.
`, c.Name(), c.side)
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.qty, "q", 1, "number of shares")
	f.Float64Var(&c.price, "p", 0, "price per share (0 = latest close)")
}

func (c *orderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one symbol")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	trade, err := a.sim.PlaceOrder(ctx, simulator.Ticket{Symbol: f.Arg(0), Side: c.side, Qty: c.qty, Price: c.price})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Order rejected: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %d %s @ %s. Cash: %s\n", trade.Side(), abs(trade.Qty), trade.Symbol,
		a.money(trade.Price), a.money(a.sess.Portfolio().Cash))
	return subcommands.ExitSuccess
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show cash, holdings and total value at latest closes" }
func (*portfolioCmd) Usage() string    { return "portfolio\n" }
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	ov := a.sim.Overview(ctx)
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio\n\n**Cash:** %s  \n**Total value:** %s\n\n", ov.CashDisplay, ov.TotalDisplay)
	if len(ov.Holdings) == 0 {
		b.WriteString("No holdings yet.\n")
	} else {
		b.WriteString("| Symbol | Qty | Avg cost | Market | Value | Unrealized P&L |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for _, r := range ov.Holdings {
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f |\n",
				r.Symbol, r.Qty, r.AvgCost, r.Market, r.MarketValue, r.UnrealizedPNL)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list trades with running cash and position" }
func (*historyCmd) Usage() string    { return "history\n" }
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	rows := a.sim.History()
	var b strings.Builder
	b.WriteString("# Trade history\n\n")
	if len(rows) == 0 {
		b.WriteString("No trades yet.\n")
	} else {
		b.WriteString("| # | Time | Symbol | Side | Qty | Price | Cash after | Position |\n")
		b.WriteString("|---:|---|---|---|---:|---:|---:|---:|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %.2f | %.2f | %d |\n",
				r.Index, r.Timestamp.Local().Format("2006-01-02 15:04"), r.Symbol, r.Side, r.Qty, r.Price, r.CashAfter, r.PositionQty)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type exportCmd struct {
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the trade history as CSV" }
func (*exportCmd) Usage() string {
	return `export [-o <file>]

  Writes ts,symbol,qty,price rows. Use -o - for stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", simulator.TradesFilename, "output CSV path")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	trades := a.sim.Trades()
	if c.out == "-" {
		if err := simulator.WriteTradesCSV(os.Stdout, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := os.MkdirAll(filepath.Dir(c.out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	f, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer f.Close()
	if err := simulator.WriteTradesCSV(f, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %d trades to %s\n", len(trades), c.out)
	return subcommands.ExitSuccess
}

type quoteCmd struct {
	bars int
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show the latest close for up to six symbols" }
func (*quoteCmd) Usage() string {
	return `quote [-n <bars>] <symbol>...

  Prints the latest close and the most recent daily closes.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.bars, "n", 5, "number of recent closes to list")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "expected at least one symbol")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	quotes, err := a.sim.Quote(ctx, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	b.WriteString("# Quotes\n\n| Symbol | Last | Recent closes |\n|---|---:|---|\n")
	for _, q := range quotes {
		bars := q.Bars
		if c.bars >= 0 && len(bars) > c.bars {
			bars = bars[len(bars)-c.bars:]
		}
		closes := make([]string, len(bars))
		for i, bar := range bars {
			closes[i] = fmt.Sprintf("%.2f", bar.Close)
		}
		last := a.money(q.Last)
		if q.Synthetic {
			last += " (simulated)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", q.Symbol, last, strings.Join(closes, " "))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
