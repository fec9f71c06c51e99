package result

import "time"

// AnswerMap maps a question id to the selected option index.
type AnswerMap map[string]int

// Clone returns an independent copy so a stored result never aliases a
// live session's answers.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// TestResult is created once per submitted attempt and never modified.
// TimeTaken is in whole minutes.
type TestResult struct {
	ID             string    `json:"id"`
	TestID         string    `json:"testId"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	TimeTaken      int       `json:"timeTaken"`
	CompletedAt    time.Time `json:"completedAt"`
	Answers        AnswerMap `json:"answers"`
}

// ForUser keeps the results owned by userID, preserving their order.
func ForUser(results []TestResult, userID string) []TestResult {
	var out []TestResult
	for _, r := range results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// DistinctTests counts the distinct test ids among results.
func DistinctTests(results []TestResult) int {
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		seen[r.TestID] = struct{}{}
	}
	return len(seen)
}
