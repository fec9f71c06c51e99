package testsession

import (
	"fmt"
	"time"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
)

// QuestionView is a question as shown to the test taker: no correct answer.
type QuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// View is a read-only snapshot of a session, safe to hand to a client.
type View struct {
	ID               string                `json:"id"`
	Test             testseries.TestSeries `json:"test"`
	Questions        []QuestionView        `json:"questions"`
	CurrentQuestion  int                   `json:"currentQuestion"`
	Answers          result.AnswerMap      `json:"answers"`
	RemainingSeconds int                   `json:"remainingSeconds"`
	StartedAt        time.Time             `json:"startedAt"`
	State            State                 `json:"state"`
	Submitting       bool                  `json:"submitting"`
}

func (s *Session) View() View {
	questions := make([]QuestionView, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = QuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		}
	}

	return View{
		ID:               s.ID,
		Test:             s.Test,
		Questions:        questions,
		CurrentQuestion:  s.current,
		Answers:          s.answers.Clone(),
		RemainingSeconds: s.remaining,
		StartedAt:        s.startedAt,
		State:            s.state,
		Submitting:       s.submitting,
	}
}

// FormatRemaining renders seconds as m:ss, the way the countdown is displayed.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
