package education

import "fmt"

type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      int      `json:"-"`
	Explanation string   `json:"-"`
}

var quiz = []Question{
	{
		Prompt:      "Which of these best describes diversification?",
		Options:     []string{"Putting all money in one stock", "Spreading investments across assets", "Timing the market", "Day trading daily"},
		Answer:      1,
		Explanation: "Diversification reduces unsystematic risk by spreading exposure.",
	},
	{
		Prompt:      "Higher expected return usually comes with…",
		Options:     []string{"Lower risk", "No risk", "Higher risk", "Guaranteed profit"},
		Answer:      2,
		Explanation: "Risk-return tradeoff: higher return potential requires higher risk.",
	},
	{
		Prompt:      "HFT strategies are most sensitive to…",
		Options:     []string{"Long-term fundamentals", "Transaction latency", "P/E ratio", "Dividend yield"},
		Answer:      1,
		Explanation: "HFT depends on low latency infrastructure and microstructure.",
	},
	{
		Prompt:      "A limit order will…",
		Options:     []string{"Execute at any price immediately", "Execute at your specified price or better", "Never execute", "Always execute worse than market"},
		Answer:      1,
		Explanation: "Limit orders control execution price but may miss fills.",
	},
	{
		Prompt:      "What helps reduce impact of behavioral biases?",
		Options:     []string{"Impulse trading", "No plan", "Rules-based approach", "Chasing hot tips"},
		Answer:      2,
		Explanation: "Rules and checklists reduce impulsive decisions.",
	},
}

// QuizQuestions returns the question bank without answers being serialized.
func QuizQuestions() []Question {
	return append([]Question(nil), quiz...)
}

// QuizTotal is the maximum quiz score.
func QuizTotal() int { return len(quiz) }

type AnswerFeedback struct {
	Question    int    `json:"question"` // 1-based
	Answered    bool   `json:"answered"`
	Correct     bool   `json:"correct"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
}

type QuizResult struct {
	Score    int              `json:"score"`
	Total    int              `json:"total"`
	Feedback []AnswerFeedback `json:"feedback"`
}

// GradeQuiz scores answers positionally. A nil or out-of-range answer counts as
// not answered; missing trailing answers are treated the same.
func GradeQuiz(answers []*int) QuizResult {
	res := QuizResult{Total: len(quiz), Feedback: make([]AnswerFeedback, len(quiz))}
	for i, q := range quiz {
		fb := AnswerFeedback{Question: i + 1}
		var choice *int
		if i < len(answers) {
			choice = answers[i]
		}
		switch {
		case choice == nil || *choice < 0 || *choice >= len(q.Options):
			fb.Message = fmt.Sprintf("Question %d not answered", i+1)
		case *choice == q.Answer:
			res.Score++
			fb.Answered, fb.Correct = true, true
			fb.Explanation = q.Explanation
			fb.Message = fmt.Sprintf("Q%d: Correct! %s", i+1, q.Explanation)
		default:
			fb.Answered = true
			fb.Explanation = q.Explanation
			fb.Message = fmt.Sprintf("Q%d: Incorrect. Correct: %s. %s", i+1, q.Options[q.Answer], q.Explanation)
		}
		res.Feedback[i] = fb
	}
	return res
}
