package data

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"investor-education/internal/model"
)

// ErrNotFound reports that a persisted document does not exist yet.
var ErrNotFound = errors.New("document not found")

const (
	stateDoc       = "state"
	leaderboardDoc = "leaderboard"
)

// Store persists the two learner documents: the state document and the leaderboard.
type Store interface {
	LoadState(ctx context.Context) (model.StateDocument, error)
	SaveState(ctx context.Context, doc model.StateDocument) error
	LoadLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	SaveLeaderboard(ctx context.Context, entries []model.LeaderboardEntry) error
	Close() error
}

// OpenStore opens the store for the configured driver ("json" or "sqlite") rooted at dir.
func OpenStore(driver, dir string) (Store, error) {
	switch driver {
	case "", "json":
		return NewJSONStore(dir), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "state.db"))
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}
