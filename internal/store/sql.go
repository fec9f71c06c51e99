package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/user"
	"github.com/testdeck/backend/internal/recordstore"
)

// SQLStore is the relational record store. The same queries run on SQLite
// and Postgres; placeholders are rebound per driver.
type SQLStore struct {
	db     *sqlx.DB
	driver Driver
}

var (
	_ recordstore.Store         = (*SQLStore)(nil)
	_ recordstore.SnapshotStore = (*SQLStore)(nil)
)

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		schema = schemaSQLite
		if dsn == "" {
			dsn = "file:testdeck.db?_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		schema = schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/testdeck?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriver, driver)
	}

	db, err := sqlx.ConnectContext(ctx, drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent submits
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLStore) ListUsers(ctx context.Context, filter recordstore.UserFilter) ([]user.User, error) {
	query := "SELECT id, email, password_hash, role, created_at FROM users"
	var args []any
	if filter.Email != "" {
		query += " WHERE email = ?"
		args = append(args, user.NormalizeEmail(filter.Email))
	}
	query += " ORDER BY created_at, id"

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, user.User{
			ID:           r.ID,
			Email:        r.Email,
			PasswordHash: r.PasswordHash,
			Role:         user.Role(r.Role),
			CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		})
	}
	return users, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = user.NormalizeEmail(u.Email)

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at)
		 VALUES (:id, :email, :password_hash, :role, :created_at)`,
		userRow{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         string(u.Role),
			CreatedAt:    u.CreatedAt.UnixMilli(),
		},
	)
	if err != nil {
		return user.User{}, err
	}
	// millisecond precision, as stored
	u.CreatedAt = time.UnixMilli(u.CreatedAt.UnixMilli()).UTC()
	return u, nil
}

func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ============================================================================
// Test series
// ============================================================================

func (s *SQLStore) ListTestSeries(ctx context.Context) ([]testseries.TestSeries, error) {
	var rows []testSeriesRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, title, subject, duration, total_questions, difficulty FROM test_series ORDER BY id",
	)
	if err != nil {
		return nil, err
	}

	out := make([]testseries.TestSeries, 0, len(rows))
	for _, r := range rows {
		out = append(out, testseries.TestSeries{
			ID:             r.ID,
			Title:          r.Title,
			Subject:        r.Subject,
			Duration:       r.Duration,
			TotalQuestions: r.TotalQuestions,
			Difficulty:     testseries.Difficulty(r.Difficulty),
		})
	}
	return out, nil
}

// SeedTestSeries inserts catalog entries whose id is not stored yet and
// returns how many were added. Existing rows are left untouched.
func (s *SQLStore) SeedTestSeries(ctx context.Context, catalog []testseries.TestSeries) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, t := range catalog {
		res, err := tx.NamedExecContext(ctx,
			`INSERT INTO test_series (id, title, subject, duration, total_questions, difficulty)
			 VALUES (:id, :title, :subject, :duration, :total_questions, :difficulty)
			 ON CONFLICT (id) DO NOTHING`,
			testSeriesRow{
				ID:             t.ID,
				Title:          t.Title,
				Subject:        t.Subject,
				Duration:       t.Duration,
				TotalQuestions: t.TotalQuestions,
				Difficulty:     string(t.Difficulty),
			},
		)
		if err != nil {
			return 0, fmt.Errorf("seed test series %s: %w", t.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ============================================================================
// Test results
// ============================================================================

func (s *SQLStore) ListTestResults(ctx context.Context, filter recordstore.ResultFilter) ([]result.TestResult, error) {
	query := `SELECT id, test_id, user_id, score, total_questions, correct_answers,
	                 time_taken, completed_at, answers
	          FROM test_results`
	var args []any
	if filter.UserID != "" {
		query += " WHERE user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY seq"

	var rows []testResultRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	out := make([]result.TestResult, 0, len(rows))
	for _, r := range rows {
		answers := result.AnswerMap{}
		if r.Answers != "" {
			if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
				return nil, fmt.Errorf("decode answers of result %s: %w", r.ID, err)
			}
		}
		out = append(out, result.TestResult{
			ID:             r.ID,
			TestID:         r.TestID,
			UserID:         r.UserID,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			TimeTaken:      r.TimeTaken,
			CompletedAt:    time.UnixMilli(r.CompletedAt).UTC(),
			Answers:        answers,
		})
	}
	return out, nil
}

func (s *SQLStore) CreateTestResult(ctx context.Context, r result.TestResult) (result.TestResult, error) {
	if r.Answers == nil {
		r.Answers = result.AnswerMap{}
	}
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return result.TestResult{}, err
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO test_results
		   (id, test_id, user_id, score, total_questions, correct_answers, time_taken, completed_at, answers)
		 VALUES
		   (:id, :test_id, :user_id, :score, :total_questions, :correct_answers, :time_taken, :completed_at, :answers)`,
		testResultRow{
			ID:             r.ID,
			TestID:         r.TestID,
			UserID:         r.UserID,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			TimeTaken:      r.TimeTaken,
			CompletedAt:    r.CompletedAt.UnixMilli(),
			Answers:        string(answers),
		},
	)
	if err != nil {
		return result.TestResult{}, err
	}
	r.CompletedAt = time.UnixMilli(r.CompletedAt.UnixMilli()).UTC()
	return r, nil
}

func (s *SQLStore) DeleteTestResult(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM test_results WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ============================================================================
// Snapshots
// ============================================================================

func (s *SQLStore) LoadSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM snapshots WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLStore) SaveSnapshot(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(data), time.Now().UnixMilli(),
	)
	return err
}

// DeleteSnapshot is a no-op when nothing is stored under key.
func (s *SQLStore) DeleteSnapshot(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM snapshots WHERE key = ?"), key)
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
