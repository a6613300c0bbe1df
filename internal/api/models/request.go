package models

// OrderRequest is a buy or sell ticket. Price is optional; zero means the latest close.
type OrderRequest struct {
	Symbol string  `json:"symbol" binding:"required"`
	Side   string  `json:"side" binding:"required"` // "buy" or "sell"
	Qty    int     `json:"qty"`
	Price  float64 `json:"price,omitempty"`
}

// QuizRequest carries one answer index per question; null means unanswered.
type QuizRequest struct {
	Answers []*int `json:"answers"`
	Name    string `json:"name,omitempty"` // leaderboard name (optional)
}

// RiskRequest carries one option index per questionnaire question; null means unanswered.
type RiskRequest struct {
	Answers []*int `json:"answers"`
}

// LearnRequest asks the Learn Hub to translate a page or pasted text.
type LearnRequest struct {
	URL       string `json:"url,omitempty"`
	Text      string `json:"text,omitempty"`
	Lang      string `json:"lang,omitempty"`      // "hi", "bn" or "ta" (default "hi")
	Summarize *bool  `json:"summarize,omitempty"` // default: true
	Sentences int    `json:"sentences,omitempty"` // 3..10, default 5
}
