package model

// DefaultRiskProfile is the profile of a learner who has not taken the questionnaire.
const DefaultRiskProfile = "Unprofiled"

// StateDocument is the persisted learner state (state.json).
type StateDocument struct {
	Progress      map[string]bool `json:"progress"`
	Portfolio     *Portfolio      `json:"portfolio"`
	BestQuizScore int             `json:"best_quiz_score"`
	RiskProfile   string          `json:"risk_profile"`
}

// LeaderboardEntry is one quiz result on the leaderboard (leaderboard.json).
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Clone returns a deep copy.
func (d StateDocument) Clone() StateDocument {
	out := d
	out.Progress = make(map[string]bool, len(d.Progress))
	for k, v := range d.Progress {
		out.Progress[k] = v
	}
	if d.Portfolio != nil {
		out.Portfolio = d.Portfolio.Clone()
	}
	return out
}
