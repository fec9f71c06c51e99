package result_test

import (
	"testing"

	"github.com/testdeck/backend/internal/domain/result"
)

func TestAnswerMap_CloneIsIndependent(t *testing.T) {
	original := result.AnswerMap{"q1": 2}
	clone := original.Clone()
	clone["q1"] = 0
	clone["q2"] = 1

	if original["q1"] != 2 {
		t.Errorf("expected original answer to stay 2, got %d", original["q1"])
	}
	if len(original) != 1 {
		t.Errorf("expected original to keep 1 entry, got %d", len(original))
	}
}

func TestForUser_PreservesOrder(t *testing.T) {
	results := []result.TestResult{
		{ID: "r1", UserID: "u1"},
		{ID: "r2", UserID: "u2"},
		{ID: "r3", UserID: "u1"},
	}

	got := result.ForUser(results, "u1")
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "r3" {
		t.Errorf("expected [r1 r3], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestDistinctTests(t *testing.T) {
	results := []result.TestResult{
		{TestID: "1"}, {TestID: "1"}, {TestID: "2"},
	}
	if got := result.DistinctTests(results); got != 2 {
		t.Errorf("expected 2 distinct tests, got %d", got)
	}
	if got := result.DistinctTests(nil); got != 0 {
		t.Errorf("expected 0 for no results, got %d", got)
	}
}
