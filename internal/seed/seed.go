// Package seed reads the static seed document: the test series catalog, the
// question banks keyed by test id, and optionally a set of prior results.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/id"
)

type Document struct {
	TestSeries  []testseries.TestSeries
	Questions   map[string][]testseries.Question
	TestResults []result.TestResult
}

type document struct {
	TestSeries []struct {
		ID             id.Flex `json:"id"`
		Title          string  `json:"title"`
		Subject        string  `json:"subject"`
		Duration       int     `json:"duration"`
		TotalQuestions int     `json:"totalQuestions"`
		Difficulty     string  `json:"difficulty"`
	} `json:"testSeries"`
	Questions map[string][]struct {
		ID            id.Flex  `json:"id"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correctAnswer"`
	} `json:"questions"`
	TestResults []struct {
		ID             id.Flex          `json:"id"`
		TestID         id.Flex          `json:"testId"`
		UserID         id.Flex          `json:"userId"`
		Score          int              `json:"score"`
		TotalQuestions int              `json:"totalQuestions"`
		CorrectAnswers int              `json:"correctAnswers"`
		TimeTaken      int              `json:"timeTaken"`
		CompletedAt    string           `json:"completedAt"`
		Answers        result.AnswerMap `json:"answers"`
	} `json:"testResults"`
}

// Load reads the seed document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed document: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a seed document. A test series without a declared question
// count gets the size of its question bank.
func Decode(r io.Reader) (*Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed document: %w", err)
	}

	doc := &Document{
		TestSeries:  make([]testseries.TestSeries, 0, len(raw.TestSeries)),
		Questions:   make(map[string][]testseries.Question, len(raw.Questions)),
		TestResults: make([]result.TestResult, 0, len(raw.TestResults)),
	}

	for testID, qs := range raw.Questions {
		bank := make([]testseries.Question, 0, len(qs))
		for _, q := range qs {
			bank = append(bank, testseries.Question{
				ID:            string(q.ID),
				Question:      q.Question,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
			})
		}
		doc.Questions[testID] = bank
	}

	for _, t := range raw.TestSeries {
		ts := testseries.TestSeries{
			ID:             string(t.ID),
			Title:          t.Title,
			Subject:        t.Subject,
			Duration:       t.Duration,
			TotalQuestions: t.TotalQuestions,
			Difficulty:     testseries.Difficulty(t.Difficulty),
		}
		if err := ts.Validate(); err != nil {
			return nil, fmt.Errorf("test series %q: %w", ts.ID, err)
		}
		if ts.TotalQuestions == 0 {
			ts.TotalQuestions = len(doc.Questions[ts.ID])
		}
		doc.TestSeries = append(doc.TestSeries, ts)
	}

	for _, r := range raw.TestResults {
		tr := result.TestResult{
			ID:             string(r.ID),
			TestID:         string(r.TestID),
			UserID:         string(r.UserID),
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			TimeTaken:      r.TimeTaken,
			Answers:        r.Answers,
		}
		if tr.Answers == nil {
			tr.Answers = result.AnswerMap{}
		}
		if t, err := time.Parse(time.RFC3339Nano, r.CompletedAt); err == nil {
			tr.CompletedAt = t.UTC()
		}
		doc.TestResults = append(doc.TestResults, tr)
	}

	return doc, nil
}
