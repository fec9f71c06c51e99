package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/user"
	"github.com/testdeck/backend/internal/recordstore"
	"github.com/testdeck/backend/internal/worker"
)

const deleteWorkers = 4

// AdminStore is the part of the record store the admin views work on.
type AdminStore interface {
	ListUsers(ctx context.Context, filter recordstore.UserFilter) ([]user.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListTestResults(ctx context.Context, filter recordstore.ResultFilter) ([]result.TestResult, error)
	DeleteTestResult(ctx context.Context, id string) error
}

// AdminCatalog is the part of the catalog cache the admin views work on.
type AdminCatalog interface {
	TestSeries() []testseries.TestSeries
	ForgetUser(ctx context.Context, userID string)
}

// TokenRevoker signs out every session of an account.
type TokenRevoker interface {
	RevokeUser(userID string)
}

// ResultLine is one result as listed on the admin dashboard.
type ResultLine struct {
	result.TestResult
	TestTitle string `json:"testTitle"`
}

// UserStats is one user's completion summary.
type UserStats struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Completed int          `json:"completed"`
	Remaining int          `json:"remaining"`
	Results   []ResultLine `json:"results"`
}

// DeleteReport describes a cascading user delete. FailedResults lists result
// ids that could not be removed; the user itself is gone either way.
type DeleteReport struct {
	UserID         string   `json:"userId"`
	ResultsDeleted int      `json:"resultsDeleted"`
	FailedResults  []string `json:"failedResults"`
}

type AdminService struct {
	store    AdminStore
	catalog  AdminCatalog
	attempts *AttemptService
	tokens   TokenRevoker
	logger   *slog.Logger
}

func NewAdminService(store AdminStore, c AdminCatalog, attempts *AttemptService, tokens TokenRevoker, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:    store,
		catalog:  c,
		attempts: attempts,
		tokens:   tokens,
		logger:   logger,
	}
}

// UserStats lists every account with the "user" role, with the number of
// distinct tests completed and what is left of the catalog.
func (s *AdminService) UserStats(ctx context.Context) ([]UserStats, error) {
	users, err := s.store.ListUsers(ctx, recordstore.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	results, err := s.store.ListTestResults(ctx, recordstore.ResultFilter{})
	if err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}

	catalog := s.catalog.TestSeries()

	stats := make([]UserStats, 0, len(users))
	for _, u := range users {
		if u.Role != user.RoleUser {
			continue
		}

		mine := result.ForUser(results, u.ID)
		completed := result.DistinctTests(mine)
		remaining := len(catalog) - completed
		if remaining < 0 {
			remaining = 0
		}

		lines := make([]ResultLine, 0, len(mine))
		for _, r := range mine {
			title := "Test-" + r.TestID
			if t, ok := testseries.Find(catalog, r.TestID); ok {
				title = t.Title
			}
			lines = append(lines, ResultLine{TestResult: r, TestTitle: title})
		}

		stats = append(stats, UserStats{
			ID:        u.ID,
			Email:     u.Email,
			Completed: completed,
			Remaining: remaining,
			Results:   lines,
		})
	}
	return stats, nil
}

// DeleteUser removes the account, signs out its tokens and drops its active
// session, then deletes each of its results. Results are
// deleted in parallel on a worker pool; a failed result delete is reported
// but does not undo the account deletion.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) (DeleteReport, error) {
	results, err := s.store.ListTestResults(ctx, recordstore.ResultFilter{UserID: userID})
	if err != nil {
		return DeleteReport{}, fmt.Errorf("list results of user: %w", err)
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return DeleteReport{}, fmt.Errorf("delete user: %w", err)
	}

	// no new session or submit may start for the account past this point
	if s.tokens != nil {
		s.tokens.RevokeUser(userID)
	}
	if s.attempts != nil {
		s.attempts.Forget(userID)
	}

	jobs := make(map[string]worker.Job[error], len(results))
	for _, r := range results {
		resultID := r.ID
		jobs[resultID] = func() error {
			return s.store.DeleteTestResult(ctx, resultID)
		}
	}

	report := DeleteReport{UserID: userID, FailedResults: []string{}}
	for resultID, err := range worker.Collect(deleteWorkers, jobs) {
		if err != nil {
			s.logger.Error("failed to delete result of deleted user",
				"user_id", userID,
				"result_id", resultID,
				"error", err,
			)
			report.FailedResults = append(report.FailedResults, resultID)
			continue
		}
		report.ResultsDeleted++
	}
	sort.Strings(report.FailedResults)

	s.catalog.ForgetUser(ctx, userID)

	s.logger.Info("user deleted",
		"user_id", userID,
		"results_deleted", report.ResultsDeleted,
		"results_failed", len(report.FailedResults),
	)
	return report, nil
}
