// Package education holds the fixed teaching content: lessons, the quiz bank, the risk
// questionnaire, dashboard badges, the leaderboard and the completion certificate.
package education

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var ErrUnknownLesson = errors.New("unknown lesson")

type Lesson struct {
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Takeaways []string `json:"takeaways"`
}

// Every lesson shares the same takeaways.
var takeaways = []string{
	"Keep costs low, diversify, and be long-term oriented.",
	"Use limit orders when liquidity is thin; avoid illiquid names.",
	"Backtest responsibly; past performance is not indicative of future results.",
}

var lessons = []Lesson{
	{Key: "basics", Title: "Stock Market Basics",
		Content: "Learn what stocks, exchanges, and indices are. Understand primary vs secondary markets."},
	{Key: "risk", Title: "Risk Assessment",
		Content: "Learn risk-return tradeoff, volatility, drawdowns, diversification, asset allocation."},
	{Key: "algo", Title: "Algo Trading & HFT",
		Content: "Understand basic algos, backtesting, latency, market microstructure, and risks."},
	{Key: "portfolio", Title: "Portfolio Diversification",
		Content: "Build diversified portfolios across sectors/assets and rebalance periodically."},
	{Key: "orders", Title: "Order Types",
		Content: "Market vs Limit vs Stop orders; IOC/Day; impact on execution and slippage."},
	{Key: "costs", Title: "Costs & Taxes",
		Content: "Brokerage, STT, stamp duty, GST; turnover; short vs long-term capital gains basics."},
	{Key: "psych", Title: "Investor Psychology",
		Content: "Common biases: herd behavior, loss aversion, overconfidence; set rules to mitigate."},
}

// Lessons returns the catalog in teaching order.
func Lessons() []Lesson {
	out := make([]Lesson, len(lessons))
	for i, l := range lessons {
		l.Takeaways = append([]string(nil), takeaways...)
		out[i] = l
	}
	return out
}

func FindLesson(key string) (Lesson, error) {
	for _, l := range Lessons() {
		if l.Key == key {
			return l, nil
		}
	}
	return Lesson{}, fmt.Errorf("%w: %q", ErrUnknownLesson, key)
}

// CountCompleted counts catalog lessons marked done in progress.
func CountCompleted(progress map[string]bool) int {
	n := 0
	for _, l := range lessons {
		if progress[l.Key] {
			n++
		}
	}
	return n
}

// Markdown renders a lesson as a markdown document.
func (l Lesson) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n**Key takeaways:**\n\n", l.Title, l.Content)
	for _, t := range l.Takeaways {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return b.String()
}

// HTML renders the lesson markdown for the web client.
func (l Lesson) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(l.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render lesson %s: %w", l.Key, err)
	}
	return buf.String(), nil
}

// Resource is an external reading link.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func Resources() []Resource {
	return []Resource{
		{Title: "SEBI - Investor Education", URL: "https://investor.sebi.gov.in"},
		{Title: "NISM Certifications", URL: "https://www.nism.ac.in"},
		{Title: "NSE Investor", URL: "https://www.nseindia.com/invest"},
		{Title: "BSE Investor", URL: "https://www.bseindia.com/investors"},
	}
}
