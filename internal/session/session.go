// Package session owns the learner's mutable state: portfolio, lesson progress, best quiz
// score, risk profile and leaderboard. All access is serialized by one mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"investor-education/internal/data"
	"investor-education/internal/education"
	"investor-education/internal/model"
)

type Session struct {
	mu          sync.Mutex
	state       model.StateDocument
	leaderboard []model.LeaderboardEntry
	store       data.Store
	log         *zap.Logger
}

// New returns a session with default state. store may be nil for a purely in-memory session.
func New(startingCash float64, store data.Store, logger *zap.Logger) (*Session, error) {
	p, err := model.NewPortfolio(startingCash)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state: model.StateDocument{
			Progress:    map[string]bool{},
			Portfolio:   p,
			RiskProfile: model.DefaultRiskProfile,
		},
		leaderboard: []model.LeaderboardEntry{},
		store:       store,
		log:         logger,
	}, nil
}

// Load replaces the state with what the store holds. Missing documents keep the defaults.
// A state document that cannot be read or fails validation is rejected and the defaults
// are kept; the leaderboard is still loaded. The loaded leaderboard is re-ranked and capped.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	doc, err := s.store.LoadState(ctx)
	switch {
	case errors.Is(err, data.ErrNotFound):
		s.log.Info("session: no saved state, starting fresh")
	case err != nil:
		errs = append(errs, fmt.Errorf("load state: %w", err))
	default:
		if err := s.applyState(doc); err != nil {
			errs = append(errs, fmt.Errorf("load state: %w", err))
		}
	}

	board, err := s.store.LoadLeaderboard(ctx)
	switch {
	case errors.Is(err, data.ErrNotFound):
	case err != nil:
		errs = append(errs, fmt.Errorf("load leaderboard: %w", err))
	default:
		s.leaderboard = education.NormalizeLeaderboard(board)
	}
	return errors.Join(errs...)
}

func (s *Session) applyState(doc model.StateDocument) error {
	if doc.Portfolio != nil {
		doc.Portfolio.Normalize()
		if err := doc.Portfolio.Validate(); err != nil {
			return err
		}
	} else {
		doc.Portfolio = s.state.Portfolio
	}
	if doc.Progress == nil {
		doc.Progress = map[string]bool{}
	}
	if doc.RiskProfile == "" {
		doc.RiskProfile = model.DefaultRiskProfile
	}
	s.state = doc
	return nil
}

// Save writes both documents.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errors.New("session has no store")
	}
	s.mu.Lock()
	state := s.state.Clone()
	board := append([]model.LeaderboardEntry(nil), s.leaderboard...)
	s.mu.Unlock()

	if err := s.store.SaveState(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := s.store.SaveLeaderboard(ctx, board); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	s.log.Info("session: saved", zap.Int("trades", len(state.Portfolio.History)))
	return nil
}

// Snapshot returns a deep copy of the state document.
func (s *Session) Snapshot() model.StateDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Portfolio returns a deep copy of the portfolio.
func (s *Session) Portfolio() *model.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Portfolio.Clone()
}

// PlaceOrder applies one order to the ledger. Rejected orders leave the state untouched.
func (s *Session) PlaceOrder(o model.Order) (model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.state.Portfolio.ApplyOrder(o)
	if err != nil {
		s.log.Info("session: order rejected", zap.String("symbol", o.Symbol),
			zap.Int("qty", o.Qty), zap.Float64("price", o.Price), zap.Error(err))
		return model.Trade{}, err
	}
	s.log.Info("session: order filled", zap.String("symbol", t.Symbol),
		zap.String("side", string(t.Side())), zap.Int("qty", t.Qty), zap.Float64("price", t.Price))
	return t, nil
}

// CompleteLesson marks a catalog lesson done.
func (s *Session) CompleteLesson(key string) error {
	if _, err := education.FindLesson(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Progress[key] = true
	return nil
}

// QuizOutcome is a graded attempt plus its effect on the session.
type QuizOutcome struct {
	education.QuizResult
	BestScore     int                      `json:"best_score"`
	NewBest       bool                     `json:"new_best"`
	OnLeaderboard bool                     `json:"on_leaderboard"`
	Leaderboard   []model.LeaderboardEntry `json:"leaderboard"`
}

// RecordQuiz grades an attempt, updates the best score and, for a non-blank name,
// adds the score to the leaderboard and persists the leaderboard right away.
func (s *Session) RecordQuiz(ctx context.Context, answers []*int, name string) (QuizOutcome, error) {
	res := education.GradeQuiz(answers)

	s.mu.Lock()
	out := QuizOutcome{QuizResult: res}
	if res.Score > s.state.BestQuizScore {
		s.state.BestQuizScore = res.Score
		out.NewBest = true
	}
	out.BestScore = s.state.BestQuizScore
	if strings.TrimSpace(name) != "" {
		s.leaderboard = education.RankLeaderboard(s.leaderboard, name, res.Score)
		out.OnLeaderboard = true
	}
	board := append([]model.LeaderboardEntry(nil), s.leaderboard...)
	s.mu.Unlock()

	out.Leaderboard = board
	if out.OnLeaderboard && s.store != nil {
		if err := s.store.SaveLeaderboard(ctx, board); err != nil {
			return out, fmt.Errorf("save leaderboard: %w", err)
		}
	}
	return out, nil
}

// AddLeaderboardEntry ranks one score into the leaderboard and persists it.
func (s *Session) AddLeaderboardEntry(ctx context.Context, name string, score int) error {
	s.mu.Lock()
	s.leaderboard = education.RankLeaderboard(s.leaderboard, name, score)
	board := append([]model.LeaderboardEntry(nil), s.leaderboard...)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.SaveLeaderboard(ctx, board)
}

func (s *Session) Leaderboard() []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LeaderboardEntry{}, s.leaderboard...)
}

// SetRiskProfile grades the questionnaire and stores the resulting profile.
func (s *Session) SetRiskProfile(answers []*int) education.RiskResult {
	r := education.AssessRisk(answers)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RiskProfile = string(r.Profile)
	return r
}

func (s *Session) Dashboard() education.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return education.BuildDashboard(s.state.Progress, s.state.BestQuizScore, s.state.RiskProfile)
}

// Certificate returns the certificate text once the best score earns it.
func (s *Session) Certificate() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return education.Certificate(s.state.BestQuizScore)
}
