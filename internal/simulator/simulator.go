// Package simulator is the paper-trading desk: it quotes symbols, prices tickets at the
// latest close, and reports holdings against market prices.
package simulator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"investor-education/internal/config"
	"investor-education/internal/market"
	"investor-education/internal/model"
	"investor-education/internal/session"
)

// ChartBars is how many recent closes a quote carries for charting.
const ChartBars = 60

var ErrTooManySymbols = errors.New("too many symbols")

type Simulator struct {
	session     *session.Session
	market      market.Source
	maxSymbols  int
	maxOrderQty int
	allowPrice  bool
	historyDays int
	currency    string
	log         *zap.Logger
}

func New(sess *session.Session, src market.Source, pc config.PortfolioConfig, mc config.MarketConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{
		session:     sess,
		market:      src,
		maxSymbols:  pc.MaxSymbols,
		maxOrderQty: pc.MaxOrderQty,
		allowPrice:  pc.AllowPriceOverride,
		historyDays: mc.HistoryDays,
		currency:    pc.Currency,
		log:         logger,
	}
	if s.maxSymbols <= 0 {
		s.maxSymbols = 6
	}
	if s.maxOrderQty <= 0 {
		s.maxOrderQty = 10000
	}
	if s.historyDays <= 0 {
		s.historyDays = 120
	}
	if s.currency == "" {
		s.currency = "INR"
	}
	return s
}

type Quote struct {
	Symbol    string           `json:"symbol"`
	Last      float64          `json:"last"`
	Bars      []model.PriceBar `json:"bars"`
	Synthetic bool             `json:"synthetic"`
}

// Quote returns the last close and recent bars for each symbol, in request order.
func (s *Simulator) Quote(ctx context.Context, symbols []string) ([]Quote, error) {
	syms := dedupe(symbols)
	if len(syms) == 0 {
		return nil, fmt.Errorf("%w: at least one symbol is required", model.ErrInvalidOrder)
	}
	if len(syms) > s.maxSymbols {
		return nil, fmt.Errorf("%w: %d requested, at most %d", ErrTooManySymbols, len(syms), s.maxSymbols)
	}

	out := make([]Quote, 0, len(syms))
	for _, sym := range syms {
		h, err := s.market.History(ctx, sym, s.historyDays)
		if err != nil {
			return nil, fmt.Errorf("quote %s: %w", sym, err)
		}
		last, ok := h.Last()
		if !ok {
			return nil, fmt.Errorf("quote %s: no data", sym)
		}
		out = append(out, Quote{
			Symbol:    sym,
			Last:      round2(last),
			Bars:      h.Tail(ChartBars),
			Synthetic: h.Synthetic,
		})
	}
	return out, nil
}

// Ticket is an order as entered by the learner: unsigned quantity plus a side.
type Ticket struct {
	Symbol string
	Side   model.Side
	Qty    int
	// Price zero means "at the latest close". Any other value is only honoured
	// when the desk allows price overrides.
	Price float64
}

// PlaceOrder validates the ticket, prices it if needed, and applies it to the session.
func (s *Simulator) PlaceOrder(ctx context.Context, t Ticket) (model.Trade, error) {
	sym := model.NormalizeSymbol(t.Symbol)
	if sym == "" {
		return model.Trade{}, fmt.Errorf("%w: symbol is required", model.ErrInvalidOrder)
	}
	if t.Side != model.SideBuy && t.Side != model.SideSell {
		return model.Trade{}, fmt.Errorf("%w: side must be BUY or SELL", model.ErrInvalidOrder)
	}
	if t.Qty < 1 || t.Qty > s.maxOrderQty {
		return model.Trade{}, fmt.Errorf("%w: qty must be between 1 and %d", model.ErrInvalidOrder, s.maxOrderQty)
	}

	if t.Price != 0 && !s.allowPrice {
		return model.Trade{}, fmt.Errorf("%w: orders fill at the latest close; price cannot be set", model.ErrInvalidOrder)
	}

	price := t.Price
	if price == 0 {
		h, err := s.market.History(ctx, sym, s.historyDays)
		if err != nil {
			return model.Trade{}, fmt.Errorf("price %s: %w", sym, err)
		}
		last, ok := h.Last()
		if !ok {
			return model.Trade{}, fmt.Errorf("price %s: no data", sym)
		}
		price = last
	}

	return s.session.PlaceOrder(model.Order{
		Symbol: sym,
		Qty:    t.Side.SignedQty(t.Qty),
		Price:  price,
	})
}

type Overview struct {
	Currency   string             `json:"currency"`
	Cash       float64            `json:"cash"`
	Holdings   []model.HoldingRow `json:"holdings"`
	TotalValue float64            `json:"total_value"`
	// Display strings, formatted for the configured currency.
	CashDisplay  string `json:"cash_display"`
	TotalDisplay string `json:"total_display"`
}

// Overview values the portfolio at the latest closes. Symbols the market cannot
// price are valued at average cost.
func (s *Simulator) Overview(ctx context.Context) Overview {
	p := s.session.Portfolio()
	syms := make([]string, 0, len(p.Positions))
	for sym := range p.Positions {
		syms = append(syms, sym)
	}
	prices := market.LatestPrices(ctx, s.market, syms, s.historyDays)

	rows := p.Holdings(prices)
	for i := range rows {
		rows[i] = roundRow(rows[i])
	}
	total := p.MarkToMarket(prices)
	return Overview{
		Currency:     s.currency,
		Cash:         round2(p.Cash),
		Holdings:     rows,
		TotalValue:   round2(total),
		CashDisplay:  FormatMoney(p.Cash, s.currency),
		TotalDisplay: FormatMoney(total, s.currency),
	}
}

// History returns the trade ledger with running cash and position.
func (s *Simulator) History() []LedgerRow {
	return BuildLedger(s.session.Portfolio())
}

// Trades returns the raw trade history.
func (s *Simulator) Trades() []model.Trade {
	return s.session.Portfolio().History
}

func dedupe(symbols []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := model.NormalizeSymbol(s)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
