package progress

import (
	"sort"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/scoring"
)

const (
	maxRecentScores  = 5
	maxRankedSubject = 3
)

// RecentScore is one entry of the dashboard's recent-scores chart.
type RecentScore struct {
	Test  string `json:"test"`
	Score int    `json:"score"`
}

// Summary is a user's progress, derived entirely from their results and the
// catalog. It has no lifecycle of its own.
type Summary struct {
	TotalTests     int           `json:"totalTests"`
	CompletedTests int           `json:"completedTests"`
	AverageScore   int           `json:"averageScore"`
	StrongSubjects []string      `json:"strongSubjects"`
	WeakSubjects   []string      `json:"weakSubjects"`
	RecentScores   []RecentScore `json:"recentScores"`
}

// Empty returns the zeroed summary for a user with no results.
func Empty(totalTests int) Summary {
	return Summary{
		TotalTests:     totalTests,
		StrongSubjects: []string{},
		WeakSubjects:   []string{},
		RecentScores:   []RecentScore{},
	}
}

// Remaining is the number of catalog tests the user has not completed yet.
func (s Summary) Remaining() int {
	if r := s.TotalTests - s.CompletedTests; r > 0 {
		return r
	}
	return 0
}

// Recompute derives a Summary from one user's results, in submission order.
//
// AverageScore sums every attempt's score but divides by the number of
// distinct tests, so retaken tests push the average up. Dashboards built on
// this number depend on it, so it is kept as is.
func Recompute(results []result.TestResult, catalog []testseries.TestSeries) Summary {
	if len(results) == 0 {
		return Empty(len(catalog))
	}

	byID := make(map[string]testseries.TestSeries, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	completed := result.DistinctTests(results)

	total := 0
	for _, r := range results {
		total += r.Score
	}
	average := scoring.RoundDiv(total, completed)

	start := len(results) - maxRecentScores
	if start < 0 {
		start = 0
	}
	recent := make([]RecentScore, 0, len(results)-start)
	for _, r := range results[start:] {
		label := "Test-" + r.TestID
		if t, ok := byID[r.TestID]; ok {
			label = t.Title
		}
		recent = append(recent, RecentScore{Test: label, Score: r.Score})
	}

	strong, weak := rankSubjects(results, byID, average)

	return Summary{
		TotalTests:     len(catalog),
		CompletedTests: completed,
		AverageScore:   average,
		StrongSubjects: strong,
		WeakSubjects:   weak,
		RecentScores:   recent,
	}
}

type subjectScore struct {
	name  string
	sum   int
	count int
}

func (s subjectScore) mean() float64 {
	return float64(s.sum) / float64(s.count)
}

// rankSubjects sorts subjects by mean score, best first. Ties keep the order
// in which the subject first appeared in results. A subject exactly at the
// overall average counts as strong.
func rankSubjects(results []result.TestResult, byID map[string]testseries.TestSeries, average int) (strong, weak []string) {
	index := make(map[string]int)
	var subjects []subjectScore

	for _, r := range results {
		t, ok := byID[r.TestID]
		if !ok {
			continue
		}
		i, seen := index[t.Subject]
		if !seen {
			i = len(subjects)
			index[t.Subject] = i
			subjects = append(subjects, subjectScore{name: t.Subject})
		}
		subjects[i].sum += r.Score
		subjects[i].count++
	}

	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].mean() > subjects[j].mean()
	})

	strong = []string{}
	weak = []string{}
	for _, s := range subjects {
		if s.mean() >= float64(average) {
			strong = append(strong, s.name)
		} else {
			weak = append(weak, s.name)
		}
	}

	if len(strong) > maxRankedSubject {
		strong = strong[:maxRankedSubject]
	}
	if len(weak) > maxRankedSubject {
		weak = weak[len(weak)-maxRankedSubject:]
	}
	return strong, weak
}
