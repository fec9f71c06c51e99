package store

import (
	"errors"

	"github.com/testdeck/backend/internal/recordstore"
)

var (
	ErrNotFound = recordstore.ErrNotFound
	ErrDriver   = errors.New("unsupported database driver")
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	CreatedAt    int64  `db:"created_at"`
}

type testSeriesRow struct {
	ID             string `db:"id"`
	Title          string `db:"title"`
	Subject        string `db:"subject"`
	Duration       int    `db:"duration"`
	TotalQuestions int    `db:"total_questions"`
	Difficulty     string `db:"difficulty"`
}

type testResultRow struct {
	ID             string `db:"id"`
	TestID         string `db:"test_id"`
	UserID         string `db:"user_id"`
	Score          int    `db:"score"`
	TotalQuestions int    `db:"total_questions"`
	CorrectAnswers int    `db:"correct_answers"`
	TimeTaken      int    `db:"time_taken"`
	CompletedAt    int64  `db:"completed_at"` // unix millis
	Answers        string `db:"answers"`      // JSON object
}
