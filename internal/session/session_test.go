package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor-education/internal/data"
	"investor-education/internal/model"
)

func ip(v int) *int { return &v }

func newSession(t *testing.T) (*Session, *data.JSONStore) {
	t.Helper()
	store := data.NewJSONStore(t.TempDir())
	s, err := New(model.DefaultStartingCash, store, nil)
	require.NoError(t, err)
	return s, store
}

func TestNewDefaults(t *testing.T) {
	s, _ := newSession(t)
	snap := s.Snapshot()
	assert.Equal(t, 100000.0, snap.Portfolio.Cash)
	assert.Empty(t, snap.Portfolio.Positions)
	assert.Empty(t, snap.Progress)
	assert.Equal(t, 0, snap.BestQuizScore)
	assert.Equal(t, "Unprofiled", snap.RiskProfile)
	assert.Empty(t, s.Leaderboard())

	_, err := New(-1, nil, nil)
	assert.Error(t, err)
}

func TestLoadMissingKeepsDefaults(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 100000.0, s.Snapshot().Portfolio.Cash)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err := s.PlaceOrder(model.Order{Symbol: "infy.ns", Qty: 10, Price: 100, At: at})
	require.NoError(t, err)
	require.NoError(t, s.CompleteLesson("portfolio"))
	s.SetRiskProfile([]*int{ip(3), ip(3), ip(3)})
	_, err = s.RecordQuiz(ctx, []*int{ip(1), ip(2), ip(1), ip(1)}, "Asha")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))

	restored, err := New(model.DefaultStartingCash, store, nil)
	require.NoError(t, err)
	require.NoError(t, restored.Load(ctx))

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.Equal(t, []model.LeaderboardEntry{{Name: "Asha", Score: 4}}, restored.Leaderboard())
	assert.Equal(t, "Aggressive", restored.Snapshot().RiskProfile)
}

func TestLoadRejectsInvalidState(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t)
	require.NoError(t, store.SaveState(ctx, model.StateDocument{
		Portfolio: &model.Portfolio{Cash: -5},
	}))
	require.NoError(t, store.SaveLeaderboard(ctx, []model.LeaderboardEntry{{Name: "Ravi", Score: 3}}))

	assert.Error(t, s.Load(ctx))
	assert.Equal(t, 100000.0, s.Snapshot().Portfolio.Cash)
	assert.Equal(t, []model.LeaderboardEntry{{Name: "Ravi", Score: 3}}, s.Leaderboard())
}

func TestLoadStateWrittenByEarlierVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte(`{
  "progress": {"basics": true, "portfolio": true},
  "portfolio": {
    "cash": 99600.0,
    "positions": {"INFY.NS": {"qty": 5, "avg": 100.0}},
    "history": [
      {"ts": "2025-01-02T03:04:05.123456", "symbol": "INFY.NS", "qty": 10, "price": 100.0},
      {"ts": "2025-01-02T03:09:00", "symbol": "INFY.NS", "qty": -5, "price": 120.0}
    ]
  },
  "best_quiz_score": 4,
  "risk_profile": "Balanced"
}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard.json"),
		[]byte(`[{"name": "Asha", "score": 4}]`), 0o644))

	s, err := New(model.DefaultStartingCash, data.NewJSONStore(dir), nil)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, 99600.0, snap.Portfolio.Cash)
	assert.Equal(t, 4, snap.BestQuizScore)
	assert.Equal(t, "Balanced", snap.RiskProfile)
	assert.Equal(t, model.Position{Qty: 5, AvgCost: 100}, *snap.Portfolio.Positions["INFY.NS"])
	require.Len(t, snap.Portfolio.History, 2)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC), snap.Portfolio.History[0].Timestamp)
	assert.Equal(t, []model.LeaderboardEntry{{Name: "Asha", Score: 4}}, s.Leaderboard())
}

func TestLoadRanksLeaderboard(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t)
	board := make([]model.LeaderboardEntry, 0, 30)
	for i := 0; i < 30; i++ {
		board = append(board, model.LeaderboardEntry{Name: fmt.Sprintf("p%d", i), Score: i % 5})
	}
	require.NoError(t, store.SaveLeaderboard(ctx, board))
	require.NoError(t, s.Load(ctx))

	got := s.Leaderboard()
	require.Len(t, got, 25)
	assert.Equal(t, model.LeaderboardEntry{Name: "p4", Score: 4}, got[0])
	assert.Equal(t, 0, got[24].Score)
}

func TestLoadFillsMissingFields(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t)
	require.NoError(t, store.SaveState(ctx, model.StateDocument{BestQuizScore: 2}))
	require.NoError(t, s.Load(ctx))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.BestQuizScore)
	assert.Equal(t, "Unprofiled", snap.RiskProfile)
	assert.NotNil(t, snap.Progress)
	assert.Equal(t, 100000.0, snap.Portfolio.Cash)
}

func TestPlaceOrderRejectionLeavesState(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.PlaceOrder(model.Order{Symbol: "TCS.NS", Qty: 1000, Price: 1000})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	_, err = s.PlaceOrder(model.Order{Symbol: "TCS.NS", Qty: -1, Price: 10})
	assert.ErrorIs(t, err, model.ErrInsufficientHoldings)

	p := s.Portfolio()
	assert.Equal(t, 100000.0, p.Cash)
	assert.Empty(t, p.Positions)
	assert.Empty(t, p.History)
}

func TestPortfolioIsACopy(t *testing.T) {
	s, _ := newSession(t)
	p := s.Portfolio()
	p.Cash = 0
	assert.Equal(t, 100000.0, s.Portfolio().Cash)
}

func TestCompleteLesson(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.CompleteLesson("basics"))
	assert.Error(t, s.CompleteLesson("nope"))
	assert.Equal(t, map[string]bool{"basics": true}, s.Snapshot().Progress)
}

func TestRecordQuiz(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t)

	out, err := s.RecordQuiz(ctx, []*int{ip(1), ip(2)}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Score)
	assert.True(t, out.NewBest)
	assert.False(t, out.OnLeaderboard)
	assert.Empty(t, out.Leaderboard)
	_, err = store.LoadLeaderboard(ctx)
	assert.ErrorIs(t, err, data.ErrNotFound)

	out, err = s.RecordQuiz(ctx, []*int{ip(1)}, " Ravi ")
	require.NoError(t, err)
	assert.False(t, out.NewBest)
	assert.Equal(t, 2, out.BestScore)
	assert.True(t, out.OnLeaderboard)

	// Leaderboard entries are persisted immediately.
	board, err := store.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.LeaderboardEntry{{Name: "Ravi", Score: 1}}, board)
}

type failingStore struct{ data.Store }

func (failingStore) SaveLeaderboard(context.Context, []model.LeaderboardEntry) error {
	return errors.New("disk full")
}

func TestRecordQuizReportsPersistFailure(t *testing.T) {
	s, err := New(model.DefaultStartingCash, failingStore{}, nil)
	require.NoError(t, err)
	out, err := s.RecordQuiz(context.Background(), []*int{ip(1)}, "Asha")
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, out.BestScore)
}

func TestDashboardAndCertificate(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	_, ok := s.Certificate()
	assert.False(t, ok)

	require.NoError(t, s.CompleteLesson("portfolio"))
	_, err := s.RecordQuiz(ctx, []*int{ip(1), ip(2), ip(1), ip(1), ip(2)}, "")
	require.NoError(t, err)

	d := s.Dashboard()
	assert.Equal(t, 1, d.LessonsCompleted)
	assert.Equal(t, 5, d.BestScore)
	assert.Equal(t, []string{"Learner", "Quiz Novice", "Quiz Pro", "Diversifier"}, d.Badges)

	text, ok := s.Certificate()
	assert.True(t, ok)
	assert.Contains(t, text, "score 5.")
}

func TestConcurrentOrdersKeepInvariants(t *testing.T) {
	s, _ := newSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			qty := 10
			if i%3 == 0 {
				qty = -7
			}
			s.PlaceOrder(model.Order{Symbol: "ITC.NS", Qty: qty, Price: 450})
		}(i)
	}
	wg.Wait()

	p := s.Portfolio()
	assert.GreaterOrEqual(t, p.Cash, 0.0)
	held := 0
	for _, tr := range p.History {
		held += tr.Qty
	}
	if pos, ok := p.Positions["ITC.NS"]; ok {
		assert.Equal(t, held, pos.Qty)
		assert.Greater(t, pos.Qty, 0)
	} else {
		assert.Equal(t, 0, held)
	}
}
