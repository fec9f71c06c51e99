package worker_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/testdeck/backend/internal/worker"
)

func TestPool_SubmitAndResults(t *testing.T) {
	p := worker.NewPool[int](3, 10)
	defer p.Close()

	for i := 0; i < 10; i++ {
		n := i
		p.Submit(string(rune('a'+i)), func() int { return n * n })
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += (<-p.Results()).Output
	}
	if sum != 285 {
		t.Errorf("expected 285, got %d", sum)
	}
}

func TestCollect(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")

	out := worker.Collect(2, map[string]worker.Job[error]{
		"r1": func() error { calls.Add(1); return nil },
		"r2": func() error { calls.Add(1); return boom },
		"r3": func() error { calls.Add(1); return nil },
	})

	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	if !errors.Is(out["r2"], boom) {
		t.Errorf("expected r2 to fail, got %v", out["r2"])
	}
	if out["r1"] != nil || out["r3"] != nil {
		t.Errorf("expected r1 and r3 to succeed, got %v, %v", out["r1"], out["r3"])
	}
}

func TestCollect_Empty(t *testing.T) {
	out := worker.Collect(4, map[string]worker.Job[error]{})
	if len(out) != 0 {
		t.Errorf("expected no results, got %d", len(out))
	}
}
