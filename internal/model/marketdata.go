package model

import "time"

// PriceBar is one daily close for a symbol.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory is an ordered (oldest first) close series for one symbol.
type PriceHistory struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
	// Synthetic marks generated demo data rather than real quotes.
	Synthetic bool `json:"synthetic"`
}

// Last returns the most recent close, or false if the series is empty.
func (h PriceHistory) Last() (float64, bool) {
	if len(h.Bars) == 0 {
		return 0, false
	}
	return h.Bars[len(h.Bars)-1].Close, true
}

// Tail returns at most the last n bars.
func (h PriceHistory) Tail(n int) []PriceBar {
	if n <= 0 || n >= len(h.Bars) {
		return h.Bars
	}
	return h.Bars[len(h.Bars)-n:]
}
