package education

import "fmt"

// badgeRule awards a badge when its predicate holds for the learner's progress and best score.
type badgeRule struct {
	Name  string
	Award func(progress map[string]bool, best int) bool
}

var badgeRules = []badgeRule{
	{"Learner", func(p map[string]bool, _ int) bool { return CountCompleted(p) >= 1 }},
	{"Quiz Novice", func(_ map[string]bool, best int) bool { return best >= 2 }},
	{"Quiz Pro", func(_ map[string]bool, best int) bool { return best >= 4 }},
	{"Diversifier", func(p map[string]bool, _ int) bool { return p["portfolio"] }},
}

// Badges evaluates every rule in order.
func Badges(progress map[string]bool, best int) []string {
	out := []string{}
	for _, r := range badgeRules {
		if r.Award(progress, best) {
			out = append(out, r.Name)
		}
	}
	return out
}

// Strengths describes the learner's level from the best score out of total.
func Strengths(best, total int) string {
	if total == 0 {
		return "No quiz attempts yet."
	}
	ratio := float64(best) / float64(total)
	switch {
	case ratio >= 0.8:
		return "Strong grasp. Consider advanced topics: options basics, ETFs."
	case ratio >= 0.5:
		return "Decent understanding. Review risk, orders, psychology."
	default:
		return "Start with basics and risk assessment lessons first."
	}
}

type Dashboard struct {
	LessonsCompleted int      `json:"lessons_completed"`
	TotalLessons     int      `json:"total_lessons"`
	BestScore        int      `json:"best_score"`
	TotalQuestions   int      `json:"total_questions"`
	Strengths        string   `json:"strengths"`
	Badges           []string `json:"badges"`
	RiskProfile      string   `json:"risk_profile"`
	CertificateReady bool     `json:"certificate_ready"`
}

func BuildDashboard(progress map[string]bool, best int, riskProfile string) Dashboard {
	return Dashboard{
		LessonsCompleted: CountCompleted(progress),
		TotalLessons:     len(lessons),
		BestScore:        best,
		TotalQuestions:   QuizTotal(),
		Strengths:        Strengths(best, QuizTotal()),
		Badges:           Badges(progress, best),
		RiskProfile:      riskProfile,
		CertificateReady: best >= CertificateScore,
	}
}

// CertificateScore is the best quiz score that earns a certificate.
const CertificateScore = 4

// Certificate returns the plain-text certificate, or false if it is not earned yet.
func Certificate(best int) (string, bool) {
	if best < CertificateScore {
		return "", false
	}
	return fmt.Sprintf("Certificate of Completion\n\nThis certifies that the user completed the quiz with score %d.", best), true
}
