package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/recordstore"
	"github.com/testdeck/backend/internal/scoring"
	"github.com/testdeck/backend/internal/seed"
)

type fakeRecords struct {
	mu        sync.Mutex
	series    []testseries.TestSeries
	results   []result.TestResult
	seriesErr error
	listErr   error
	createErr error
}

func (f *fakeRecords) ListTestSeries(ctx context.Context) ([]testseries.TestSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	return append([]testseries.TestSeries{}, f.series...), nil
}

func (f *fakeRecords) ListTestResults(ctx context.Context, filter recordstore.ResultFilter) ([]result.TestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]result.TestResult{}, f.results...), nil
}

func (f *fakeRecords) CreateTestResult(ctx context.Context, r result.TestResult) (result.TestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return result.TestResult{}, f.createErr
	}
	f.results = append(f.results, r)
	return r, nil
}

type memSnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: map[string][]byte{}}
}

func (m *memSnapshots) LoadSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memSnapshots) SaveSnapshot(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memSnapshots) DeleteSnapshot(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memSnapshots) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func testCatalog() []testseries.TestSeries {
	return []testseries.TestSeries{
		{ID: "1", Title: "Algebra", Subject: "Math", Duration: 30, TotalQuestions: 2},
		{ID: "2", Title: "Optics", Subject: "Physics", Duration: 20, TotalQuestions: 1},
	}
}

func testSeed() *seed.Document {
	return &seed.Document{
		TestSeries: testCatalog(),
		Questions: map[string][]testseries.Question{
			"1": {
				{ID: "q1", Question: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: 1},
				{ID: "q2", Question: "2+2?", Options: []string{"4", "5"}, CorrectAnswer: 0},
			},
		},
	}
}

func seedFunc(doc *seed.Document, err error) SeedFunc {
	return func() (*seed.Document, error) { return doc, err }
}

func newCache(records *fakeRecords, snaps *memSnapshots, load SeedFunc) *Cache {
	c := New(records, snaps, load, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.now = func() time.Time { return time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC) }
	return c
}

func makeDraft(testID string, score int) testsession.Draft {
	return testsession.Draft{
		TestID:    testID,
		Result:    scoring.Result{Score: score, CorrectAnswers: 1, TotalQuestions: 2},
		TimeTaken: 3,
		Answers:   result.AnswerMap{"q1": 1},
	}
}

func TestHydrate_FromSeedAndRecords(t *testing.T) {
	records := &fakeRecords{
		results: []result.TestResult{{ID: "r1", TestID: "1", UserID: "u1", Score: 80}},
	}
	snaps := newMemSnapshots()
	c := newCache(records, snaps, seedFunc(testSeed(), nil))

	c.Hydrate(context.Background())

	assert.False(t, c.Degraded())
	assert.Len(t, c.TestSeries(), 2)
	assert.Len(t, c.Questions("1"), 2)
	assert.Empty(t, c.Questions("2"))
	assert.Equal(t, 1, c.Progress("u1").CompletedTests)
	assert.Equal(t, 80, c.Progress("u1").AverageScore)
	assert.True(t, c.HasAttempted("u1", "1"))
	assert.False(t, c.HasAttempted("u1", "2"))
	assert.True(t, snaps.has(SnapshotKey))
}

func TestHydrate_RecordStoreCatalogWins(t *testing.T) {
	records := &fakeRecords{series: []testseries.TestSeries{{ID: "9", Title: "Remote", Subject: "Art"}}}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))

	c.Hydrate(context.Background())

	series := c.TestSeries()
	require.Len(t, series, 1)
	assert.Equal(t, "9", series[0].ID)
}

func TestHydrate_SnapshotPreferred(t *testing.T) {
	snaps := newMemSnapshots()
	raw, _ := json.Marshal(map[string]any{
		"testSeries":  []testseries.TestSeries{{ID: "5", Title: "Cached", Subject: "History"}},
		"questions":   map[string]any{},
		"testResults": []result.TestResult{{ID: "r", TestID: "5", UserID: "u2", Score: 40}},
	})
	snaps.data[SnapshotKey] = raw

	records := &fakeRecords{series: testCatalog()}
	c := newCache(records, snaps, seedFunc(nil, errors.New("must not be read")))

	c.Hydrate(context.Background())

	series := c.TestSeries()
	require.Len(t, series, 1)
	assert.Equal(t, "Cached", series[0].Title)
	assert.Equal(t, 40, c.Progress("u2").AverageScore)
}

func TestHydrate_DegradesToEmpty(t *testing.T) {
	records := &fakeRecords{seriesErr: errors.New("down"), listErr: errors.New("down")}
	c := newCache(records, newMemSnapshots(), seedFunc(nil, errors.New("missing")))

	c.Hydrate(context.Background())

	assert.True(t, c.Degraded())
	assert.Empty(t, c.TestSeries())
	p := c.Progress("anyone")
	assert.Equal(t, 0, p.TotalTests)
	assert.Empty(t, p.RecentScores)
}

func TestPersistResult_Success(t *testing.T) {
	records := &fakeRecords{}
	snaps := newMemSnapshots()
	c := newCache(records, snaps, seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	stored, err := c.PersistResult(context.Background(), makeDraft("1", 50), "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, 2026, stored.CompletedAt.Year())
	assert.Equal(t, result.AnswerMap{"q1": 1}, stored.Answers)

	p := c.Progress("u1")
	assert.Equal(t, 1, p.CompletedTests)
	assert.Equal(t, 50, p.AverageScore)
	require.Len(t, p.RecentScores, 1)
	assert.Equal(t, "Algebra", p.RecentScores[0].Test)

	assert.Len(t, c.Results("u1"), 1)
	assert.Empty(t, c.Results("u2"))

	raw, found, _ := snaps.LoadSnapshot(context.Background(), SnapshotKey)
	require.True(t, found)
	assert.Contains(t, string(raw), stored.ID)
}

func TestPersistResult_FailureLeavesCacheUntouched(t *testing.T) {
	records := &fakeRecords{createErr: errors.New("connection refused")}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	_, err := c.PersistResult(context.Background(), makeDraft("1", 50), "u1")

	assert.ErrorIs(t, err, ErrPersistFailed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, c.Results("u1"))
	assert.Equal(t, 0, c.Progress("u1").CompletedTests)
}

func TestPersistResult_Concurrent(t *testing.T) {
	records := &fakeRecords{}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			testID := "1"
			if i%2 == 0 {
				testID = "2"
			}
			_, err := c.PersistResult(context.Background(), makeDraft(testID, 100), "u1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Results("u1"), 20)
	assert.Equal(t, 2, c.Progress("u1").CompletedTests)
	// 20 attempts of 100 over 2 distinct tests
	assert.Equal(t, 1000, c.Progress("u1").AverageScore)
}

func TestReset_RehydratesFromSources(t *testing.T) {
	records := &fakeRecords{}
	snaps := newMemSnapshots()
	c := newCache(records, snaps, seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	_, err := c.PersistResult(context.Background(), makeDraft("1", 70), "u1")
	require.NoError(t, err)

	require.NoError(t, c.Reset(context.Background()))

	// the record store kept the result, so it survives a reset
	assert.Len(t, c.Results("u1"), 1)
	assert.True(t, snaps.has(SnapshotKey))
}

func TestRefreshCatalog(t *testing.T) {
	records := &fakeRecords{results: []result.TestResult{{ID: "r1", TestID: "3", UserID: "u1", Score: 90}}}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())
	assert.Equal(t, "Test-3", c.Progress("u1").RecentScores[0].Test)

	records.mu.Lock()
	records.series = append(testCatalog(), testseries.TestSeries{ID: "3", Title: "Poetry", Subject: "Literature"})
	records.mu.Unlock()

	require.NoError(t, c.RefreshCatalog(context.Background()))

	assert.Len(t, c.TestSeries(), 3)
	p := c.Progress("u1")
	assert.Equal(t, 3, p.TotalTests)
	assert.Equal(t, "Poetry", p.RecentScores[0].Test)
	assert.Equal(t, []string{"Literature"}, p.StrongSubjects)
}

func TestRefreshCatalog_ErrorKeepsCatalog(t *testing.T) {
	records := &fakeRecords{}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	records.mu.Lock()
	records.seriesErr = errors.New("down")
	records.mu.Unlock()

	assert.Error(t, c.RefreshCatalog(context.Background()))
	assert.Len(t, c.TestSeries(), 2)
}

func TestForgetUser(t *testing.T) {
	records := &fakeRecords{results: []result.TestResult{
		{ID: "a", TestID: "1", UserID: "u1", Score: 10},
		{ID: "b", TestID: "1", UserID: "u2", Score: 20},
	}}
	c := newCache(records, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	c.ForgetUser(context.Background(), "u1")

	assert.Empty(t, c.Results("u1"))
	assert.Equal(t, 0, c.Progress("u1").CompletedTests)
	assert.Len(t, c.Results("u2"), 1)
}

func TestExport(t *testing.T) {
	c := newCache(&fakeRecords{}, newMemSnapshots(), seedFunc(testSeed(), nil))
	c.Hydrate(context.Background())

	raw, err := c.Export()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "testSeries")
	assert.Contains(t, decoded, "questions")
	assert.Contains(t, decoded, "testResults")
	assert.Contains(t, decoded, "userProgress")
	assert.Contains(t, string(raw), "\n  \"testSeries\"")
}
