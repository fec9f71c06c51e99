// Package catalog keeps the process-wide view of the test catalog, the
// question banks, every submitted result and the derived per-user progress.
// The view is hydrated once at startup, written through to the record store
// on every submission, and snapshotted so a restart does not need the seed.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/testdeck/backend/internal/domain/progress"
	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/id"
	"github.com/testdeck/backend/internal/recordstore"
	"github.com/testdeck/backend/internal/seed"
)

// SnapshotKey is the key the cached structure is stored under.
const SnapshotKey = "testSeriesData"

var ErrPersistFailed = errors.New("failed to save test result")

// Records is the part of the record store the cache reads and writes.
type Records interface {
	ListTestSeries(ctx context.Context) ([]testseries.TestSeries, error)
	ListTestResults(ctx context.Context, filter recordstore.ResultFilter) ([]result.TestResult, error)
	CreateTestResult(ctx context.Context, r result.TestResult) (result.TestResult, error)
}

// SeedFunc returns the static seed document.
type SeedFunc func() (*seed.Document, error)

type data struct {
	TestSeries   []testseries.TestSeries          `json:"testSeries"`
	Questions    map[string][]testseries.Question `json:"questions"`
	TestResults  []result.TestResult              `json:"testResults"`
	UserProgress map[string]progress.Summary      `json:"userProgress"`
}

func emptyData() data {
	return data{
		TestSeries:   []testseries.TestSeries{},
		Questions:    map[string][]testseries.Question{},
		TestResults:  []result.TestResult{},
		UserProgress: map[string]progress.Summary{},
	}
}

type Cache struct {
	records   Records
	snapshots recordstore.SnapshotStore
	loadSeed  SeedFunc
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	data     data
	degraded bool
}

func New(records Records, snapshots recordstore.SnapshotStore, loadSeed SeedFunc, logger *slog.Logger) *Cache {
	return &Cache{
		records:   records,
		snapshots: snapshots,
		loadSeed:  loadSeed,
		logger:    logger,
		now:       time.Now,
		data:      emptyData(),
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

// Hydrate loads the cache. A stored snapshot wins; otherwise the catalog is
// built from the record store and the seed document, and snapshotted.
// Failures never abort startup: with no usable source the cache is empty
// and Degraded reports true.
func (c *Cache) Hydrate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked(ctx)
}

// Reset discards the snapshot and hydrates again from the sources.
// Results already written to the record store are kept there.
func (c *Cache) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.snapshots.DeleteSnapshot(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	c.hydrateLocked(ctx)
	return nil
}

func (c *Cache) hydrateLocked(ctx context.Context) {
	if d, ok := c.loadSnapshot(ctx); ok {
		c.data = d
		c.degraded = false
		c.logger.Info("catalog hydrated from snapshot",
			"test_series", len(d.TestSeries),
			"results", len(d.TestResults),
		)
		return
	}

	d := emptyData()

	doc, err := c.loadSeed()
	if err != nil {
		c.logger.Warn("seed document unavailable", "error", err)
		doc = nil
	}

	series, err := c.records.ListTestSeries(ctx)
	if err != nil {
		c.logger.Warn("failed to list test series from record store", "error", err)
	}
	if len(series) == 0 && doc != nil {
		series = doc.TestSeries
	}
	if series != nil {
		d.TestSeries = series
	}

	if doc != nil && doc.Questions != nil {
		d.Questions = doc.Questions
	}

	results, err := c.records.ListTestResults(ctx, recordstore.ResultFilter{})
	if err != nil {
		c.logger.Warn("failed to list test results from record store", "error", err)
		if doc != nil {
			results = doc.TestResults
		}
	}
	if results != nil {
		d.TestResults = results
	}

	c.degraded = len(d.TestSeries) == 0 && doc == nil
	if c.degraded {
		c.logger.Warn("no catalog source available, serving an empty catalog")
	}

	d.UserProgress = recomputeAll(d.TestResults, d.TestSeries)
	c.data = d
	c.saveSnapshotLocked(ctx)

	c.logger.Info("catalog hydrated",
		"test_series", len(d.TestSeries),
		"question_banks", len(d.Questions),
		"results", len(d.TestResults),
	)
}

func (c *Cache) loadSnapshot(ctx context.Context) (data, bool) {
	raw, found, err := c.snapshots.LoadSnapshot(ctx, SnapshotKey)
	if err != nil {
		c.logger.Warn("failed to load snapshot", "error", err)
		return data{}, false
	}
	if !found {
		return data{}, false
	}

	d := emptyData()
	if err := json.Unmarshal(raw, &d); err != nil {
		c.logger.Warn("discarding unreadable snapshot", "error", err)
		return data{}, false
	}
	if d.TestSeries == nil {
		d.TestSeries = []testseries.TestSeries{}
	}
	if d.Questions == nil {
		d.Questions = map[string][]testseries.Question{}
	}
	if d.TestResults == nil {
		d.TestResults = []result.TestResult{}
	}
	if d.UserProgress == nil {
		d.UserProgress = recomputeAll(d.TestResults, d.TestSeries)
	}
	return d, true
}

func (c *Cache) saveSnapshotLocked(ctx context.Context) {
	raw, err := json.Marshal(c.data)
	if err != nil {
		c.logger.Error("failed to encode snapshot", "error", err)
		return
	}
	if err := c.snapshots.SaveSnapshot(ctx, SnapshotKey, raw); err != nil {
		c.logger.Error("failed to save snapshot", "error", err)
	}
}

// Degraded reports whether the last hydration found no catalog source.
func (c *Cache) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// ============================================================================
// Writes
// ============================================================================

// PersistResult stores a scored attempt for userID. The cache changes only
// after the record store accepted the result; on failure the returned error
// wraps ErrPersistFailed and nothing local is touched.
func (c *Cache) PersistResult(ctx context.Context, draft testsession.Draft, userID string) (result.TestResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := result.TestResult{
		ID:             id.GenerateID(),
		TestID:         draft.TestID,
		UserID:         userID,
		Score:          draft.Score,
		TotalQuestions: draft.TotalQuestions,
		CorrectAnswers: draft.CorrectAnswers,
		TimeTaken:      draft.TimeTaken,
		CompletedAt:    c.now().UTC(),
		Answers:        draft.Answers.Clone(),
	}

	stored, err := c.records.CreateTestResult(ctx, r)
	if err != nil {
		return result.TestResult{}, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	c.data.TestResults = append(c.data.TestResults, stored)
	c.data.UserProgress[userID] = progress.Recompute(
		result.ForUser(c.data.TestResults, userID),
		c.data.TestSeries,
	)
	c.saveSnapshotLocked(ctx)

	return stored, nil
}

// RefreshCatalog re-reads the test series from the record store. An empty
// or failed read leaves the current catalog in place.
func (c *Cache) RefreshCatalog(ctx context.Context) error {
	series, err := c.records.ListTestSeries(ctx)
	if err != nil {
		return fmt.Errorf("list test series: %w", err)
	}
	if len(series) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.TestSeries = series
	c.data.UserProgress = recomputeAll(c.data.TestResults, series)
	c.degraded = false
	c.saveSnapshotLocked(ctx)
	return nil
}

// ForgetUser drops a deleted user's results and progress from the cache.
func (c *Cache) ForgetUser(ctx context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.data.TestResults[:0:0]
	for _, r := range c.data.TestResults {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	c.data.TestResults = kept
	delete(c.data.UserProgress, userID)
	c.saveSnapshotLocked(ctx)
}

// ============================================================================
// Reads
// ============================================================================

func (c *Cache) TestSeries() []testseries.TestSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]testseries.TestSeries(nil), c.data.TestSeries...)
}

func (c *Cache) Test(testID string) (testseries.TestSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return testseries.Find(c.data.TestSeries, testID)
}

// Questions returns the question bank of a test, empty when it has none.
func (c *Cache) Questions(testID string) []testseries.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]testseries.Question(nil), c.data.Questions[testID]...)
}

// Results returns one user's results in submission order.
func (c *Cache) Results(userID string) []result.TestResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return result.ForUser(c.data.TestResults, userID)
}

func (c *Cache) Progress(userID string) progress.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.data.UserProgress[userID]; ok {
		return s
	}
	return progress.Empty(len(c.data.TestSeries))
}

func (c *Cache) HasAttempted(userID, testID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.data.TestResults {
		if r.UserID == userID && r.TestID == testID {
			return true
		}
	}
	return false
}

// Export renders the whole cached structure as indented JSON.
func (c *Cache) Export() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.MarshalIndent(c.data, "", "  ")
}

func recomputeAll(results []result.TestResult, catalog []testseries.TestSeries) map[string]progress.Summary {
	byUser := make(map[string][]result.TestResult)
	for _, r := range results {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := make(map[string]progress.Summary, len(byUser))
	for userID, rs := range byUser {
		out[userID] = progress.Recompute(rs, catalog)
	}
	return out
}
