package simulator

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"investor-education/internal/model"
)

func round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

func roundRow(r model.HoldingRow) model.HoldingRow {
	r.AvgCost = round2(r.AvgCost)
	r.Market = round2(r.Market)
	r.MarketValue = round2(r.MarketValue)
	r.UnrealizedPNL = round2(r.UnrealizedPNL)
	return r
}

// FormatMoney renders an amount with the currency's symbol and separators.
// Unknown currencies fall back to a plain two-decimal number with the code appended.
func FormatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}
