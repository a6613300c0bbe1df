package simulator

import (
	"time"

	"investor-education/internal/model"
)

// LedgerRow is one trade with the account state right after it.
type LedgerRow struct {
	Index     int        `json:"index"`
	Timestamp time.Time  `json:"ts"`
	Symbol    string     `json:"symbol"`
	Side      model.Side `json:"side"`
	Qty       int        `json:"qty"`
	Price     float64    `json:"price"`
	// Value is the cash moved by the trade: negative for buys, positive for sells.
	Value       float64 `json:"value"`
	CashAfter   float64 `json:"cash_after"`
	PositionQty int     `json:"position_qty"`
}

// BuildLedger replays the trade history. The opening cash is recovered from the current
// balance, so the last row's CashAfter equals p.Cash.
func BuildLedger(p *model.Portfolio) []LedgerRow {
	cash := p.Cash
	for _, t := range p.History {
		cash += float64(t.Qty) * t.Price
	}

	held := map[string]int{}
	rows := make([]LedgerRow, 0, len(p.History))
	for i, t := range p.History {
		value := -float64(t.Qty) * t.Price
		cash += value
		held[t.Symbol] += t.Qty
		rows = append(rows, LedgerRow{
			Index:       i,
			Timestamp:   t.Timestamp,
			Symbol:      t.Symbol,
			Side:        t.Side(),
			Qty:         t.Qty,
			Price:       t.Price,
			Value:       round2(value),
			CashAfter:   round2(cash),
			PositionQty: held[t.Symbol],
		})
	}
	return rows
}
