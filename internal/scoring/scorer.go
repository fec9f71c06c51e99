package scoring

import (
	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
)

// Scorer scores a submitted answer map against a question set.
// Implementations must be pure: same input, same output, no side effects.
type Scorer interface {
	Score(questions []testseries.Question, answers result.AnswerMap) Result
}

// Result is the outcome of scoring one attempt. Score is a 0-100 percentage.
type Result struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
}

// MultipleChoice awards one point per question whose selected option equals
// the correct one. Unanswered questions never score.
type MultipleChoice struct{}

// Compile-time check: MultipleChoice satisfies the Scorer interface.
var _ Scorer = MultipleChoice{}

func (MultipleChoice) Score(questions []testseries.Question, answers result.AnswerMap) Result {
	return Score(questions, answers)
}

// Score is the package-level form of MultipleChoice.Score.
func Score(questions []testseries.Question, answers result.AnswerMap) Result {
	if len(questions) == 0 {
		return Result{}
	}

	correct := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			correct++
		}
	}

	return Result{
		Score:          RoundDiv(correct*100, len(questions)),
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
	}
}

// RoundDiv divides two non-negative integers rounding half up.
// A zero denominator yields 0.
func RoundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
