// Package recordstore defines the persistence contract for users, the test
// series catalog and submitted test results. Implementations live in
// internal/store (SQL) and internal/recordstore/httpstore (REST).
package recordstore

import (
	"context"
	"errors"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/user"
)

var (
	ErrNotFound = errors.New("not found")
)

// UserFilter narrows ListUsers. Empty fields match everything.
type UserFilter struct {
	Email string
}

// ResultFilter narrows ListTestResults. Empty fields match everything.
type ResultFilter struct {
	UserID string
}

// Store is the record store. Results are listed in the order they were created.
type Store interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListTestSeries(ctx context.Context) ([]testseries.TestSeries, error)

	ListTestResults(ctx context.Context, filter ResultFilter) ([]result.TestResult, error)
	CreateTestResult(ctx context.Context, r result.TestResult) (result.TestResult, error)
	DeleteTestResult(ctx context.Context, id string) error
}

// SnapshotStore keeps opaque blobs under well-known keys.
// Load reports found=false when nothing is stored under key.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, key string) (data []byte, found bool, err error)
	SaveSnapshot(ctx context.Context, key string, data []byte) error
	DeleteSnapshot(ctx context.Context, key string) error
}
