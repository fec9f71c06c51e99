package testseries

import (
	"errors"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// TestSeries is a timed multiple-choice test in the catalog.
// Duration is expressed in minutes.
type TestSeries struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Duration       int        `json:"duration"`
	TotalQuestions int        `json:"totalQuestions"`
	Difficulty     Difficulty `json:"difficulty"`
}

// Question belongs to exactly one TestSeries. CorrectAnswer indexes Options.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// HasOption reports whether index points at one of the question's options.
func (q Question) HasOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

// Validate checks the catalog entry before it is seeded into a store.
func (t TestSeries) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("test series id cannot be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("test series title cannot be empty")
	}
	if t.Duration < 0 {
		return errors.New("test series duration cannot be negative")
	}
	return nil
}

// Find returns the entry with the given id from a catalog slice.
func Find(catalog []TestSeries, id string) (TestSeries, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return TestSeries{}, false
}
