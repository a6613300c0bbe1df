package models

import (
	"time"

	"investor-education/internal/education"
	"investor-education/internal/model"
	"investor-education/internal/simulator"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// OrderResponse is the filled trade and the resulting cash balance
type OrderResponse struct {
	Trade model.Trade `json:"trade"`
	Cash  float64     `json:"cash"`
}

// HistoryResponse lists trades with running balances
type HistoryResponse struct {
	Trades []simulator.LedgerRow `json:"trades"`
}

type QuotesResponse struct {
	Quotes []simulator.Quote `json:"quotes"`
}

// LessonInfo is a lesson plus the learner's completion flag
type LessonInfo struct {
	education.Lesson
	Completed bool   `json:"completed"`
	HTML      string `json:"html,omitempty"`
}

type LessonsResponse struct {
	Lessons   []LessonInfo `json:"lessons"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

type QuizResponse struct {
	Questions []education.Question `json:"questions"`
	Total     int                  `json:"total"`
}

type LeaderboardResponse struct {
	Entries []model.LeaderboardEntry `json:"entries"`
}

type RiskQuestionsResponse struct {
	Questions      []education.RiskQuestion `json:"questions"`
	CurrentProfile string                   `json:"current_profile"`
}

type CertificateResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

type ResourcesResponse struct {
	Resources []education.Resource `json:"resources"`
}

// SaveResponse confirms a session save
type SaveResponse struct {
	Status  string    `json:"status"`
	SavedAt time.Time `json:"saved_at"`
}
