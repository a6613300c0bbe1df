package education

import (
	"sort"
	"strings"

	"investor-education/internal/model"
)

// LeaderboardSize caps the stored leaderboard.
const LeaderboardSize = 25

// RankLeaderboard appends one entry, sorts by score descending and keeps the top
// LeaderboardSize. Equal scores keep their arrival order. A blank name becomes "Anonymous".
func RankLeaderboard(board []model.LeaderboardEntry, name string, score int) []model.LeaderboardEntry {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Anonymous"
	}
	out := make([]model.LeaderboardEntry, 0, len(board)+1)
	out = append(out, board...)
	out = append(out, model.LeaderboardEntry{Name: name, Score: score})
	return NormalizeLeaderboard(out)
}

// NormalizeLeaderboard returns a copy of board sorted by score descending (stable) and
// capped to LeaderboardSize. It never returns nil.
func NormalizeLeaderboard(board []model.LeaderboardEntry) []model.LeaderboardEntry {
	out := append([]model.LeaderboardEntry{}, board...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}
