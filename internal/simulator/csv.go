package simulator

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"investor-education/internal/model"
)

// TradesFilename is the suggested name for the exported history.
const TradesFilename = "trade_history.csv"

// WriteTradesCSV writes one row per trade: timestamp, symbol, signed qty, price.
func WriteTradesCSV(out io.Writer, trades []model.Trade) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ts", "symbol", "qty", "price"}); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			fmtTime(t.Timestamp),
			t.Symbol,
			strconv.Itoa(t.Qty),
			fmtFloat(t.Price),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtFloat(x float64) string {
	return decimal.NewFromFloat(x).String()
}
