package model

import (
	"fmt"
	"strings"
)

// Side is the direction of a trade.
// Keep these values stable; they are part of the API and CSV output.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func SideFromQty(qty int) Side {
	if qty < 0 {
		return SideSell
	}
	return SideBuy
}

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: side must be buy or sell, got %q", ErrInvalidOrder, s)
	}
}

// SignedQty turns an unsigned ticket quantity into the ledger's signed convention.
func (s Side) SignedQty(qty int) int {
	if qty < 0 {
		qty = -qty
	}
	if s == SideSell {
		return -qty
	}
	return qty
}
