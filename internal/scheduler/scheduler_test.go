package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) RefreshCatalog(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 20*time.Millisecond, discard())

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.calls.Load() < 2 {
		t.Errorf("expected at least 2 refreshes, got %d", r.calls.Load())
	}
}

func TestScheduler_Disabled(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 0, discard())

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if r.calls.Load() != 0 {
		t.Errorf("expected no refreshes, got %d", r.calls.Load())
	}
}

func TestRefresh_ErrorIsLoggedNotFatal(t *testing.T) {
	r := &countingRefresher{err: errors.New("down")}
	s := New(r, time.Hour, discard())

	s.refresh()

	if r.calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", r.calls.Load())
	}
}
