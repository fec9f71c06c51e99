package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/report"
	"github.com/testdeck/backend/internal/service"
)

func TestWriteUserStats(t *testing.T) {
	completed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	stats := []service.UserStats{
		{
			ID: "u1", Email: "a@example.com", Completed: 1, Remaining: 2,
			Results: []service.ResultLine{
				{TestResult: result.TestResult{ID: "r1", TestID: "1", Score: 80, CorrectAnswers: 4, TotalQuestions: 5, TimeTaken: 7, CompletedAt: completed}, TestTitle: "Algebra"},
			},
		},
		{ID: "u2", Email: "b@example.com", Remaining: 3, Results: []service.ResultLine{}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteUserStats(&buf, stats))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	users, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"User ID", "Email", "Completed", "Remaining", "Attempts"}, users[0])
	assert.Equal(t, []string{"u1", "a@example.com", "1", "2", "1"}, users[1])
	assert.Equal(t, []string{"u2", "b@example.com", "0", "3", "0"}, users[2])

	results, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"a@example.com", "Algebra", "80", "4", "5", "7", "2026-03-04T05:06:07Z"}, results[1])
}
