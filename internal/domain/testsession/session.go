package testsession

import (
	"errors"
	"math"
	"time"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/id"
	"github.com/testdeck/backend/internal/scoring"
)

var (
	ErrNoQuestions      = errors.New("no questions available for this test")
	ErrNotInProgress    = errors.New("session is not in progress")
	ErrSubmitInProgress = errors.New("session submission already in progress")
	ErrUnknownQuestion  = errors.New("question is not part of this session")
	ErrInvalidOption    = errors.New("option index out of range")
	ErrTimeUp           = errors.New("time is up, the test can only be submitted")
)

type State string

const (
	StateIdle       State = "idle"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
)

// Session is one user's attempt at a test series. It is not safe for
// concurrent use; callers serialise access.
type Session struct {
	ID        string
	Test      testseries.TestSeries
	Questions []testseries.Question

	current    int
	answers    result.AnswerMap
	remaining  int
	startedAt  time.Time
	state      State
	submitting bool
	timedOut   bool
}

// Draft is a scored attempt ready to be persisted. It has no id or owner yet.
type Draft struct {
	TestID string
	scoring.Result
	TimeTaken int
	Answers   result.AnswerMap
	TimedOut  bool
}

// Start begins an attempt. It fails with ErrNoQuestions, and creates no
// session, when the test has no questions.
func Start(test testseries.TestSeries, questions []testseries.Question, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	qs := make([]testseries.Question, len(questions))
	copy(qs, questions)

	remaining := test.Duration * 60
	if remaining < 0 {
		remaining = 0
	}

	return &Session{
		ID:        id.GenerateID(),
		Test:      test,
		Questions: qs,
		current:   0,
		answers:   result.AnswerMap{},
		remaining: remaining,
		startedAt: now,
		state:     StateInProgress,
	}, nil
}

func (s *Session) State() State {
	if s == nil {
		return StateIdle
	}
	return s.state
}

func (s *Session) Current() int          { return s.current }
func (s *Session) RemainingSeconds() int { return s.remaining }
func (s *Session) StartedAt() time.Time  { return s.startedAt }
func (s *Session) Submitting() bool      { return s.submitting }

// Answers returns a copy of the answer map.
func (s *Session) Answers() result.AnswerMap {
	return s.answers.Clone()
}

// SelectAnswer records or overwrites the chosen option for a question.
// It never moves the current question pointer.
func (s *Session) SelectAnswer(questionID string, option int) error {
	if err := s.requireActive(); err != nil {
		return err
	}

	q, ok := s.question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.HasOption(option) {
		return ErrInvalidOption
	}

	s.answers[questionID] = option
	return nil
}

// GoTo moves the current question pointer, clamping index into range.
func (s *Session) GoTo(index int) error {
	if err := s.requireActive(); err != nil {
		return err
	}

	switch {
	case index < 0:
		index = 0
	case index > len(s.Questions)-1:
		index = len(s.Questions) - 1
	}
	s.current = index
	return nil
}

// Tick advances the countdown by one second, never below zero. It reports
// true exactly once: on the first tick that finds the session in progress
// with no time left. The caller must then submit.
func (s *Session) Tick() bool {
	if s.state != StateInProgress {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	// a pending submit holds the expiry back; if that submit is aborted the
	// next tick reports it
	if s.remaining == 0 && !s.timedOut && !s.submitting {
		s.timedOut = true
		return true
	}
	return false
}

// BeginSubmit scores the attempt and marks the session as submitting so a
// second submit is rejected until CompleteSubmit or AbortSubmit is called.
func (s *Session) BeginSubmit(now time.Time, scorer scoring.Scorer) (Draft, error) {
	if s.state != StateInProgress {
		return Draft{}, ErrNotInProgress
	}
	if s.submitting {
		return Draft{}, ErrSubmitInProgress
	}
	s.submitting = true

	return Draft{
		TestID:    s.Test.ID,
		Result:    scorer.Score(s.Questions, s.answers),
		TimeTaken: minutesTaken(s.startedAt, now),
		Answers:   s.answers.Clone(),
		TimedOut:  s.timedOut,
	}, nil
}

// CompleteSubmit ends the session after its result has been persisted.
func (s *Session) CompleteSubmit() {
	s.submitting = false
	s.state = StateSubmitted
}

// AbortSubmit returns the session to in-progress after a failed persist so
// the answers are kept and the submit can be retried.
func (s *Session) AbortSubmit() {
	s.submitting = false
}

func (s *Session) requireActive() error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if s.submitting {
		return ErrSubmitInProgress
	}
	if s.timedOut {
		return ErrTimeUp
	}
	return nil
}

func (s *Session) question(questionID string) (testseries.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return testseries.Question{}, false
}

// minutesTaken rounds the elapsed time to whole seconds, then to whole
// minutes, half up.
func minutesTaken(start, end time.Time) int {
	elapsed := end.Sub(start)
	if elapsed < 0 {
		return 0
	}
	seconds := int(math.Round(elapsed.Seconds()))
	return scoring.RoundDiv(seconds, 60)
}
