package education

type RiskProfile string

const (
	Conservative RiskProfile = "Conservative"
	Balanced     RiskProfile = "Balanced"
	Aggressive   RiskProfile = "Aggressive"
)

type RiskQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Weights []int    `json:"-"`
}

var riskQuestions = []RiskQuestion{
	{Prompt: "Time horizon for investments?", Options: []string{"<1 year", "1-3 years", "3-5 years", "5+ years"}, Weights: []int{0, 1, 2, 3}},
	{Prompt: "How do you react to 10% drop?", Options: []string{"Sell all", "Sell some", "Hold", "Buy more"}, Weights: []int{0, 1, 2, 3}},
	{Prompt: "Primary goal?", Options: []string{"Capital preservation", "Income", "Growth", "Aggressive growth"}, Weights: []int{0, 1, 2, 3}},
	{Prompt: "Experience level?", Options: []string{"New", "Some", "Experienced", "Expert"}, Weights: []int{0, 1, 2, 3}},
}

var recommendations = map[RiskProfile]string{
	Conservative: "Start with Basics, Risk Assessment, and Costs & Taxes.",
	Balanced:     "Add Portfolio Diversification and Order Types.",
	Aggressive:   "Explore Algo/HFT concepts carefully and Investor Psychology.",
}

func RiskQuestions() []RiskQuestion {
	return append([]RiskQuestion(nil), riskQuestions...)
}

// ClassifyRisk maps a questionnaire score to a profile.
func ClassifyRisk(score int) RiskProfile {
	switch {
	case score <= 3:
		return Conservative
	case score <= 7:
		return Balanced
	default:
		return Aggressive
	}
}

type RiskResult struct {
	Score          int         `json:"score"`
	Profile        RiskProfile `json:"profile"`
	Recommendation string      `json:"recommendation"`
}

// AssessRisk sums option weights; unanswered or out-of-range answers add nothing.
func AssessRisk(answers []*int) RiskResult {
	score := 0
	for i, q := range riskQuestions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if a := *answers[i]; a >= 0 && a < len(q.Weights) {
			score += q.Weights[a]
		}
	}
	p := ClassifyRisk(score)
	return RiskResult{Score: score, Profile: p, Recommendation: recommendations[p]}
}
