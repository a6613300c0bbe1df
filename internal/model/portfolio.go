package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultStartingCash is the paper money a fresh portfolio starts with.
const DefaultStartingCash = 100000.0

var (
	// ErrInsufficientFunds rejects a buy whose cost exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientHoldings rejects a sell of more shares than are held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrInvalidOrder rejects malformed orders (empty symbol, zero quantity, bad price).
	ErrInvalidOrder = errors.New("invalid order")
)

// Position is an open holding of one symbol.
// JSON keys match the persisted state document.
type Position struct {
	Qty     int     `json:"qty"`
	AvgCost float64 `json:"avg"`
}

// Trade is one accepted order. Qty is signed: positive = buy, negative = sell.
type Trade struct {
	Timestamp time.Time `json:"ts"`
	Symbol    string    `json:"symbol"`
	Qty       int       `json:"qty"`
	Price     float64   `json:"price"`
}

// Side reports whether the trade was a buy or a sell.
func (t Trade) Side() Side { return SideFromQty(t.Qty) }

// Portfolio is the paper-trading ledger: cash, open positions and an append-only history.
//
// Invariants (held by ApplyOrder):
// - Cash >= 0
// - every Position in Positions has Qty > 0
type Portfolio struct {
	Cash      float64              `json:"cash"`
	Positions map[string]*Position `json:"positions"`
	History   []Trade              `json:"history"`
}

func NewPortfolio(cash float64) (*Portfolio, error) {
	p := &Portfolio{
		Cash:      cash,
		Positions: map[string]*Position{},
		History:   []Trade{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the ledger invariants. It is used on construction and after loading
// a persisted document.
func (p *Portfolio) Validate() error {
	if math.IsNaN(p.Cash) || math.IsInf(p.Cash, 0) || p.Cash < 0 {
		return errors.New("cash must be a finite value >= 0")
	}
	for sym, pos := range p.Positions {
		if pos == nil {
			return fmt.Errorf("position %s is empty", sym)
		}
		if pos.Qty <= 0 {
			return fmt.Errorf("position %s must have qty > 0", sym)
		}
		if pos.AvgCost < 0 {
			return fmt.Errorf("position %s must have avg cost >= 0", sym)
		}
	}
	return nil
}

// Normalize fills nil containers left by older or hand-edited documents.
func (p *Portfolio) Normalize() {
	if p.Positions == nil {
		p.Positions = map[string]*Position{}
	}
	if p.History == nil {
		p.History = []Trade{}
	}
}

// Clone returns a deep copy.
func (p *Portfolio) Clone() *Portfolio {
	out := &Portfolio{
		Cash:      p.Cash,
		Positions: make(map[string]*Position, len(p.Positions)),
		History:   make([]Trade, len(p.History)),
	}
	for sym, pos := range p.Positions {
		cp := *pos
		out.Positions[sym] = &cp
	}
	copy(out.History, p.History)
	return out
}

// Order is a request to change a position by Qty shares at Price.
// Positive Qty buys, negative Qty sells.
type Order struct {
	Symbol string
	Qty    int
	Price  float64
	// At is the trade timestamp; zero means now (UTC).
	At time.Time
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ApplyOrder applies one order to the ledger. On any error the portfolio is left untouched.
//
// Buys move the average cost to the weighted mean of the old basis and the new cost.
// Sells leave the average cost alone; only cash moves.
func (p *Portfolio) ApplyOrder(o Order) (Trade, error) {
	p.Normalize()

	sym := NormalizeSymbol(o.Symbol)
	if sym == "" {
		return Trade{}, fmt.Errorf("%w: symbol is required", ErrInvalidOrder)
	}
	if o.Qty == 0 {
		return Trade{}, fmt.Errorf("%w: qty must be non-zero", ErrInvalidOrder)
	}
	if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) || o.Price <= 0 {
		return Trade{}, fmt.Errorf("%w: price must be > 0", ErrInvalidOrder)
	}

	cost := float64(o.Qty) * o.Price
	if o.Qty > 0 && p.Cash < cost {
		return Trade{}, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, cost, p.Cash)
	}

	held := 0
	avg := 0.0
	if pos, ok := p.Positions[sym]; ok {
		held = pos.Qty
		avg = pos.AvgCost
	}
	newQty := held + o.Qty
	if newQty < 0 {
		return Trade{}, fmt.Errorf("%w: hold %d %s, cannot sell %d", ErrInsufficientHoldings, held, sym, -o.Qty)
	}

	if o.Qty > 0 {
		avg = (avg*float64(held) + cost) / float64(newQty)
	}
	// cost is negative for sells, so this credits cash.
	p.Cash -= cost

	if newQty == 0 {
		delete(p.Positions, sym)
	} else {
		p.Positions[sym] = &Position{Qty: newQty, AvgCost: avg}
	}

	at := o.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	t := Trade{Timestamp: at, Symbol: sym, Qty: o.Qty, Price: o.Price}
	p.History = append(p.History, t)
	return t, nil
}

// MarkToMarket values the portfolio at the given prices.
// Symbols missing from prices are valued at their average cost.
func (p *Portfolio) MarkToMarket(prices map[string]float64) float64 {
	value := p.Cash
	for sym, pos := range p.Positions {
		value += float64(pos.Qty) * effectivePrice(prices, sym, pos)
	}
	return value
}

// HoldingRow is a display row for one open position.
type HoldingRow struct {
	Symbol        string
	Qty           int
	AvgCost       float64
	Market        float64
	MarketValue   float64
	UnrealizedPNL float64
}

// Holdings returns one row per position, sorted by symbol.
func (p *Portfolio) Holdings(prices map[string]float64) []HoldingRow {
	syms := make([]string, 0, len(p.Positions))
	for sym := range p.Positions {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	rows := make([]HoldingRow, 0, len(syms))
	for _, sym := range syms {
		pos := p.Positions[sym]
		mkt := effectivePrice(prices, sym, pos)
		rows = append(rows, HoldingRow{
			Symbol:        sym,
			Qty:           pos.Qty,
			AvgCost:       pos.AvgCost,
			Market:        mkt,
			MarketValue:   mkt * float64(pos.Qty),
			UnrealizedPNL: (mkt - pos.AvgCost) * float64(pos.Qty),
		})
	}
	return rows
}

func effectivePrice(prices map[string]float64, sym string, pos *Position) float64 {
	if px, ok := prices[sym]; ok && px > 0 && !math.IsNaN(px) {
		return px
	}
	return pos.AvgCost
}
