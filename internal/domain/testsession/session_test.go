package testsession_test

import (
	"errors"
	"testing"
	"time"

	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/scoring"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func createTest(duration int) testseries.TestSeries {
	return testseries.TestSeries{ID: "7", Title: "Algebra", Subject: "Math", Duration: duration}
}

func createQuestions() []testseries.Question {
	return []testseries.Question{
		{ID: "q1", Question: "1+1?", Options: []string{"1", "2", "3"}, CorrectAnswer: 1},
		{ID: "q2", Question: "2+2?", Options: []string{"4", "5"}, CorrectAnswer: 0},
		{ID: "q3", Question: "3+3?", Options: []string{"5", "6"}, CorrectAnswer: 1},
	}
}

func startSession(t *testing.T, duration int) *testsession.Session {
	t.Helper()
	s, err := testsession.Start(createTest(duration), createQuestions(), t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestStart_NoQuestions(t *testing.T) {
	s, err := testsession.Start(createTest(30), nil, t0)

	if !errors.Is(err, testsession.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s.State() != testsession.StateIdle {
		t.Errorf("expected idle state, got %q", s.State())
	}
}

func TestStart_InitialState(t *testing.T) {
	s := startSession(t, 30)

	if s.State() != testsession.StateInProgress {
		t.Errorf("expected in_progress, got %q", s.State())
	}
	if s.RemainingSeconds() != 1800 {
		t.Errorf("expected 1800 seconds, got %d", s.RemainingSeconds())
	}
	if s.Current() != 0 {
		t.Errorf("expected current question 0, got %d", s.Current())
	}
	if len(s.Answers()) != 0 {
		t.Errorf("expected empty answers, got %v", s.Answers())
	}
	if !s.StartedAt().Equal(t0) {
		t.Errorf("expected start %v, got %v", t0, s.StartedAt())
	}
}

func TestSelectAnswer_UpsertAndIdempotent(t *testing.T) {
	s := startSession(t, 30)

	if err := s.SelectAnswer("q1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SelectAnswer("q1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Answers(); len(got) != 1 || got["q1"] != 2 {
		t.Errorf("expected {q1:2}, got %v", got)
	}

	if err := s.SelectAnswer("q1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Answers(); got["q1"] != 1 {
		t.Errorf("expected overwrite to 1, got %d", got["q1"])
	}

	if s.Current() != 0 {
		t.Errorf("expected answer selection not to move the pointer, got %d", s.Current())
	}
}

func TestSelectAnswer_Rejections(t *testing.T) {
	s := startSession(t, 30)

	if err := s.SelectAnswer("nope", 0); !errors.Is(err, testsession.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
	if err := s.SelectAnswer("q2", 5); !errors.Is(err, testsession.ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
	if len(s.Answers()) != 0 {
		t.Error("expected no answers after rejected selections")
	}
}

func TestAnswers_ReturnsCopy(t *testing.T) {
	s := startSession(t, 30)
	_ = s.SelectAnswer("q1", 1)

	got := s.Answers()
	got["q1"] = 0

	if s.Answers()["q1"] != 1 {
		t.Error("expected mutation of the returned map not to leak into the session")
	}
}

func TestGoTo_Clamps(t *testing.T) {
	s := startSession(t, 30)

	tests := []struct {
		index int
		want  int
	}{
		{1, 1},
		{2, 2},
		{10, 2},
		{-3, 0},
	}

	for _, tt := range tests {
		if err := s.GoTo(tt.index); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Current() != tt.want {
			t.Errorf("GoTo(%d): expected %d, got %d", tt.index, tt.want, s.Current())
		}
	}
}

func TestTick_MonotonicAndFloored(t *testing.T) {
	s := startSession(t, 1)

	prev := s.RemainingSeconds()
	for i := 0; i < 100; i++ {
		s.Tick()
		if s.RemainingSeconds() > prev {
			t.Fatalf("remaining increased from %d to %d", prev, s.RemainingSeconds())
		}
		if s.RemainingSeconds() < 0 {
			t.Fatalf("remaining went negative: %d", s.RemainingSeconds())
		}
		prev = s.RemainingSeconds()
	}
	if s.RemainingSeconds() != 0 {
		t.Errorf("expected 0 remaining, got %d", s.RemainingSeconds())
	}
}

func TestTick_ExpiresExactlyOnce(t *testing.T) {
	s := startSession(t, 30)
	_ = s.SelectAnswer("q1", 1)

	expirations := 0
	expiredAt := -1
	for i := 1; i <= 1800; i++ {
		if s.Tick() {
			expirations++
			expiredAt = i
		}
	}
	for i := 0; i < 10; i++ {
		if s.Tick() {
			expirations++
		}
	}

	if s.RemainingSeconds() != 0 {
		t.Errorf("expected 0 remaining, got %d", s.RemainingSeconds())
	}
	if expirations != 1 || expiredAt != 1800 {
		t.Fatalf("expected one expiry on tick 1800, got %d (last at %d)", expirations, expiredAt)
	}

	draft, err := s.BeginSubmit(t0.Add(30*time.Minute), scoring.MultipleChoice{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !draft.TimedOut {
		t.Error("expected draft to be marked as timed out")
	}
	if draft.CorrectAnswers != 1 || draft.TotalQuestions != 3 || draft.Score != 33 {
		t.Errorf("expected 1/3 (33), got %+v", draft.Result)
	}
	if draft.TimeTaken != 30 {
		t.Errorf("expected 30 minutes, got %d", draft.TimeTaken)
	}
}

func TestTick_ZeroDurationExpiresOnFirstTick(t *testing.T) {
	s := startSession(t, 0)

	if !s.Tick() {
		t.Error("expected first tick of a zero-duration session to expire")
	}
	if s.Tick() {
		t.Error("expected no second expiry")
	}
}

func TestTimeUp_OnlySubmitAllowed(t *testing.T) {
	s := startSession(t, 0)
	_ = s.SelectAnswer("q1", 1)
	s.Tick()

	if err := s.SelectAnswer("q2", 0); !errors.Is(err, testsession.ErrTimeUp) {
		t.Errorf("expected ErrTimeUp from SelectAnswer, got %v", err)
	}
	if err := s.GoTo(2); !errors.Is(err, testsession.ErrTimeUp) {
		t.Errorf("expected ErrTimeUp from GoTo, got %v", err)
	}

	draft, err := s.BeginSubmit(t0, scoring.MultipleChoice{})
	if err != nil {
		t.Fatalf("expected submit after time up, got %v", err)
	}
	s.AbortSubmit()
	if err := s.SelectAnswer("q2", 0); !errors.Is(err, testsession.ErrTimeUp) {
		t.Errorf("expected ErrTimeUp after a failed submit, got %v", err)
	}
	if len(draft.Answers) != 1 {
		t.Errorf("expected the answer given before time up, got %v", draft.Answers)
	}
}

func TestTick_ExpiryHeldWhileSubmitting(t *testing.T) {
	s := startSession(t, 0)
	if _, err := s.BeginSubmit(t0, scoring.MultipleChoice{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Tick() {
		t.Error("expected no expiry while a submit is pending")
	}

	s.AbortSubmit()
	if !s.Tick() {
		t.Error("expected expiry on the first tick after an aborted submit")
	}
	if s.Tick() {
		t.Error("expected no second expiry")
	}
}

func TestSubmit_Lifecycle(t *testing.T) {
	s := startSession(t, 30)
	_ = s.SelectAnswer("q1", 1)
	_ = s.SelectAnswer("q2", 0)

	draft, err := s.BeginSubmit(t0.Add(7*time.Minute+31*time.Second), scoring.MultipleChoice{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.TestID != "7" {
		t.Errorf("expected test id 7, got %q", draft.TestID)
	}
	if draft.Score != 67 || draft.CorrectAnswers != 2 {
		t.Errorf("expected 2/3 (67), got %+v", draft.Result)
	}
	if draft.TimeTaken != 8 {
		t.Errorf("expected 8 minutes, got %d", draft.TimeTaken)
	}
	if draft.TimedOut {
		t.Error("expected manual submit not to be marked timed out")
	}

	if _, err := s.BeginSubmit(t0, scoring.MultipleChoice{}); !errors.Is(err, testsession.ErrSubmitInProgress) {
		t.Errorf("expected ErrSubmitInProgress on double submit, got %v", err)
	}
	if err := s.SelectAnswer("q3", 1); !errors.Is(err, testsession.ErrSubmitInProgress) {
		t.Errorf("expected answers to be locked while submitting, got %v", err)
	}

	s.CompleteSubmit()

	if s.State() != testsession.StateSubmitted {
		t.Errorf("expected submitted, got %q", s.State())
	}
	if err := s.GoTo(1); !errors.Is(err, testsession.ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress after submit, got %v", err)
	}
	if s.Tick() {
		t.Error("expected ticks after submit to be ignored")
	}
}

func TestSubmit_AbortKeepsAnswers(t *testing.T) {
	s := startSession(t, 30)
	_ = s.SelectAnswer("q1", 1)

	if _, err := s.BeginSubmit(t0, scoring.MultipleChoice{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.AbortSubmit()

	if s.State() != testsession.StateInProgress {
		t.Errorf("expected in_progress after abort, got %q", s.State())
	}
	if s.Answers()["q1"] != 1 {
		t.Error("expected answers to survive an aborted submit")
	}
	if _, err := s.BeginSubmit(t0, scoring.MultipleChoice{}); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestSubmit_TimeTakenNeverNegative(t *testing.T) {
	s := startSession(t, 30)

	draft, err := s.BeginSubmit(t0.Add(-time.Minute), scoring.MultipleChoice{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.TimeTaken != 0 {
		t.Errorf("expected 0 minutes, got %d", draft.TimeTaken)
	}
}

func TestDraft_AnswersAreSnapshot(t *testing.T) {
	s := startSession(t, 30)
	_ = s.SelectAnswer("q1", 1)

	draft, _ := s.BeginSubmit(t0, scoring.MultipleChoice{})
	s.AbortSubmit()
	_ = s.SelectAnswer("q1", 0)

	if draft.Answers["q1"] != 1 {
		t.Errorf("expected draft answers to be a snapshot, got %v", draft.Answers)
	}
}

func TestView_HidesCorrectAnswers(t *testing.T) {
	s := startSession(t, 2)
	_ = s.SelectAnswer("q2", 1)
	_ = s.GoTo(1)

	v := s.View()

	if len(v.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(v.Questions))
	}
	if v.CurrentQuestion != 1 || v.RemainingSeconds != 120 {
		t.Errorf("unexpected view position: %+v", v)
	}
	if v.Answers["q2"] != 1 {
		t.Errorf("expected answer to be visible, got %v", v.Answers)
	}
	if v.State != testsession.StateInProgress {
		t.Errorf("expected in_progress, got %q", v.State)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1800, "30:00"},
		{65, "1:05"},
		{0, "0:00"},
		{-4, "0:00"},
	}
	for _, tt := range tests {
		if got := testsession.FormatRemaining(tt.seconds); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
