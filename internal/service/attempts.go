package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/scoring"
)

var (
	ErrNoActiveSession = errors.New("no active test session")
	ErrTestNotFound    = errors.New("test not found")
)

// Catalog is what the attempt runner needs from the catalog cache.
type Catalog interface {
	Test(testID string) (testseries.TestSeries, bool)
	Questions(testID string) []testseries.Question
	PersistResult(ctx context.Context, draft testsession.Draft, userID string) (result.TestResult, error)
}

// Outcome is the last submission of a user's attempt. Error is set when a
// forced submit could not be persisted; the session is then still active.
type Outcome struct {
	Result    result.TestResult `json:"result"`
	TestTitle string            `json:"testTitle"`
	TimedOut  bool              `json:"timedOut"`
	Error     string            `json:"error,omitempty"`
	At        time.Time         `json:"at"`
}

type attempt struct {
	mu      sync.Mutex
	session *testsession.Session

	stop     chan struct{}
	stopOnce sync.Once
}

func (a *attempt) halt() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// AttemptService runs test sessions: at most one per user, each with its own
// countdown goroutine that forces a submit when the time is up.
type AttemptService struct {
	catalog Catalog
	scorer  scoring.Scorer
	logger  *slog.Logger
	tick    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	attempts map[string]*attempt // userID → active attempt
	last     map[string]Outcome  // userID → last submission
	wg       sync.WaitGroup
}

// NewAttemptService creates an AttemptService. tick is the countdown
// period; one tick takes one second off the clock.
func NewAttemptService(c Catalog, scorer scoring.Scorer, tick time.Duration, logger *slog.Logger) *AttemptService {
	if tick <= 0 {
		tick = time.Second
	}
	return &AttemptService{
		catalog:  c,
		scorer:   scorer,
		logger:   logger,
		tick:     tick,
		now:      time.Now,
		attempts: make(map[string]*attempt),
		last:     make(map[string]Outcome),
	}
}

// Start begins an attempt at testID. A session the user already had running
// is abandoned without being persisted.
func (s *AttemptService) Start(userID, testID string) (testsession.View, error) {
	test, ok := s.catalog.Test(testID)
	if !ok {
		return testsession.View{}, ErrTestNotFound
	}

	session, err := testsession.Start(test, s.catalog.Questions(testID), s.now())
	if err != nil {
		return testsession.View{}, err
	}

	view := session.View()
	a := &attempt{session: session, stop: make(chan struct{})}

	s.mu.Lock()
	if old, ok := s.attempts[userID]; ok {
		old.halt()
		s.logger.Info("previous session abandoned", "user_id", userID, "session_id", old.session.ID)
	}
	s.attempts[userID] = a
	s.wg.Add(1)
	s.mu.Unlock()

	go s.countdown(userID, a)

	s.logger.Info("session started",
		"user_id", userID,
		"test_id", testID,
		"session_id", session.ID,
		"questions", len(session.Questions),
	)
	return view, nil
}

// Current returns the user's active session.
func (s *AttemptService) Current(userID string) (testsession.View, error) {
	a, err := s.active(userID)
	if err != nil {
		return testsession.View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.View(), nil
}

func (s *AttemptService) Answer(userID, questionID string, option int) (testsession.View, error) {
	a, err := s.active(userID)
	if err != nil {
		return testsession.View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.SelectAnswer(questionID, option); err != nil {
		return testsession.View{}, err
	}
	return a.session.View(), nil
}

func (s *AttemptService) Navigate(userID string, index int) (testsession.View, error) {
	a, err := s.active(userID)
	if err != nil {
		return testsession.View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.GoTo(index); err != nil {
		return testsession.View{}, err
	}
	return a.session.View(), nil
}

// Submit scores and persists the user's attempt. When persisting fails the
// session stays active with its answers so the submit can be retried.
func (s *AttemptService) Submit(ctx context.Context, userID string) (Outcome, error) {
	a, err := s.active(userID)
	if err != nil {
		return Outcome{}, err
	}
	return s.submit(ctx, userID, a)
}

// Abandon drops the user's active session. Nothing is persisted.
func (s *AttemptService) Abandon(userID string) error {
	s.mu.Lock()
	a, ok := s.attempts[userID]
	if ok {
		delete(s.attempts, userID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNoActiveSession
	}
	a.halt()
	s.logger.Info("session abandoned", "user_id", userID, "session_id", a.session.ID)
	return nil
}

// LastOutcome returns the user's most recent submission, manual or forced.
func (s *AttemptService) LastOutcome(userID string) (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.last[userID]
	return o, ok
}

// Forget drops everything held for a deleted user.
func (s *AttemptService) Forget(userID string) {
	s.mu.Lock()
	a, ok := s.attempts[userID]
	delete(s.attempts, userID)
	delete(s.last, userID)
	s.mu.Unlock()

	if ok {
		a.halt()
	}
}

// Close stops every countdown and waits for in-flight forced submits.
func (s *AttemptService) Close() {
	s.mu.Lock()
	for _, a := range s.attempts {
		a.halt()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *AttemptService) active(userID string) (*attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return a, nil
}

// countdown ticks the session once per period. It uses context.Background
// for the forced submit because no request is waiting on it.
func (s *AttemptService) countdown(userID string, a *attempt) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			expired := a.session.Tick()
			a.mu.Unlock()

			if !expired {
				continue
			}

			s.logger.Info("session time is up, submitting", "user_id", userID, "session_id", a.session.ID)
			_, err := s.submit(context.Background(), userID, a)
			switch {
			case errors.Is(err, testsession.ErrSubmitInProgress):
				// the manual submit that won the race owns the outcome
				s.logger.Debug("forced submit skipped, submit already pending",
					"user_id", userID,
					"session_id", a.session.ID,
				)
			case err != nil:
				s.logger.Error("forced submit failed",
					"user_id", userID,
					"session_id", a.session.ID,
					"error", err,
				)
			}
		}
	}
}

func (s *AttemptService) submit(ctx context.Context, userID string, a *attempt) (Outcome, error) {
	a.mu.Lock()
	draft, err := a.session.BeginSubmit(s.now(), s.scorer)
	title := a.session.Test.Title
	a.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}

	// the record store call runs without the attempt lock; the submitting
	// flag keeps the session read-only meanwhile
	stored, err := s.catalog.PersistResult(ctx, draft, userID)

	a.mu.Lock()
	if err != nil {
		a.session.AbortSubmit()
		a.mu.Unlock()

		if draft.TimedOut {
			s.mu.Lock()
			s.last[userID] = Outcome{TestTitle: title, TimedOut: true, Error: err.Error(), At: s.now()}
			s.mu.Unlock()
		}
		return Outcome{}, fmt.Errorf("submit session: %w", err)
	}
	a.session.CompleteSubmit()
	a.mu.Unlock()

	outcome := Outcome{
		Result:    stored,
		TestTitle: title,
		TimedOut:  draft.TimedOut,
		At:        stored.CompletedAt,
	}

	s.mu.Lock()
	if s.attempts[userID] == a {
		delete(s.attempts, userID)
	}
	s.last[userID] = outcome
	s.mu.Unlock()

	a.halt()

	s.logger.Info("session submitted",
		"user_id", userID,
		"test_id", stored.TestID,
		"result_id", stored.ID,
		"score", stored.Score,
		"timed_out", draft.TimedOut,
	)
	return outcome, nil
}
