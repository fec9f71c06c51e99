// Package httpstore is a record store backed by a json-server style REST API:
// one collection per resource, query-string equality filters, numeric or
// string ids.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/testdeck/backend/internal/domain/result"
	"github.com/testdeck/backend/internal/domain/testseries"
	"github.com/testdeck/backend/internal/domain/user"
	"github.com/testdeck/backend/internal/id"
	"github.com/testdeck/backend/internal/recordstore"
)

const (
	usersPath       = "/users"
	testSeriesPath  = "/testSeries"
	testResultsPath = "/testResults"
)

// Store talks to the REST record store at baseURL.
type Store struct {
	baseURL string
	client  *http.Client
}

var _ recordstore.Store = (*Store)(nil)

// StatusError is returned when the record store answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("record store %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap maps 404 to recordstore.ErrNotFound so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return recordstore.ErrNotFound
	}
	return nil
}

func New(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ============================================================================
// Wire types
// ============================================================================

type userDoc struct {
	ID        id.Flex `json:"id"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

type testSeriesDoc struct {
	ID             id.Flex `json:"id"`
	Title          string  `json:"title"`
	Subject        string  `json:"subject"`
	Duration       int     `json:"duration"`
	TotalQuestions int     `json:"totalQuestions"`
	Difficulty     string  `json:"difficulty"`
}

type testResultDoc struct {
	ID             id.Flex          `json:"id"`
	TestID         id.Flex          `json:"testId"`
	UserID         id.Flex          `json:"userId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers int              `json:"correctAnswers"`
	TimeTaken      int              `json:"timeTaken"`
	CompletedAt    string           `json:"completedAt"`
	Answers        result.AnswerMap `json:"answers"`
}

func (d userDoc) toDomain() user.User {
	u := user.User{
		ID:           string(d.ID),
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         user.Role(d.Role),
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		u.CreatedAt = t.UTC()
	}
	return u
}

func (d testResultDoc) toDomain() result.TestResult {
	r := result.TestResult{
		ID:             string(d.ID),
		TestID:         string(d.TestID),
		UserID:         string(d.UserID),
		Score:          d.Score,
		TotalQuestions: d.TotalQuestions,
		CorrectAnswers: d.CorrectAnswers,
		TimeTaken:      d.TimeTaken,
		Answers:        d.Answers,
	}
	if r.Answers == nil {
		r.Answers = result.AnswerMap{}
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CompletedAt); err == nil {
		r.CompletedAt = t.UTC()
	}
	return r
}

// ============================================================================
// Users
// ============================================================================

func (s *Store) ListUsers(ctx context.Context, filter recordstore.UserFilter) ([]user.User, error) {
	q := url.Values{}
	if filter.Email != "" {
		q.Set("email", user.NormalizeEmail(filter.Email))
	}

	var docs []userDoc
	if err := s.do(ctx, http.MethodGet, usersPath, q, nil, &docs); err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	in := userDoc{
		ID:        id.Flex(u.ID),
		Email:     user.NormalizeEmail(u.Email),
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
	}

	var out userDoc
	if err := s.do(ctx, http.MethodPost, usersPath, nil, in, &out); err != nil {
		return user.User{}, err
	}
	return out.toDomain(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, usersPath+"/"+url.PathEscape(id), nil, nil, nil)
}

// ============================================================================
// Test series
// ============================================================================

func (s *Store) ListTestSeries(ctx context.Context) ([]testseries.TestSeries, error) {
	var docs []testSeriesDoc
	if err := s.do(ctx, http.MethodGet, testSeriesPath, nil, nil, &docs); err != nil {
		return nil, err
	}

	out := make([]testseries.TestSeries, 0, len(docs))
	for _, d := range docs {
		out = append(out, testseries.TestSeries{
			ID:             string(d.ID),
			Title:          d.Title,
			Subject:        d.Subject,
			Duration:       d.Duration,
			TotalQuestions: d.TotalQuestions,
			Difficulty:     testseries.Difficulty(d.Difficulty),
		})
	}
	return out, nil
}

// ============================================================================
// Test results
// ============================================================================

func (s *Store) ListTestResults(ctx context.Context, filter recordstore.ResultFilter) ([]result.TestResult, error) {
	q := url.Values{}
	if filter.UserID != "" {
		q.Set("userId", filter.UserID)
	}

	var docs []testResultDoc
	if err := s.do(ctx, http.MethodGet, testResultsPath, q, nil, &docs); err != nil {
		return nil, err
	}

	out := make([]result.TestResult, 0, len(docs))
	for _, d := range docs {
		r := d.toDomain()
		// json-server matches query values loosely; filter again on the string form
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) CreateTestResult(ctx context.Context, r result.TestResult) (result.TestResult, error) {
	if r.Answers == nil {
		r.Answers = result.AnswerMap{}
	}
	in := testResultDoc{
		ID:             id.Flex(r.ID),
		TestID:         id.Flex(r.TestID),
		UserID:         id.Flex(r.UserID),
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		TimeTaken:      r.TimeTaken,
		CompletedAt:    r.CompletedAt.UTC().Format(time.RFC3339Nano),
		Answers:        r.Answers,
	}

	var out testResultDoc
	if err := s.do(ctx, http.MethodPost, testResultsPath, nil, in, &out); err != nil {
		return result.TestResult{}, err
	}
	return out.toDomain(), nil
}

func (s *Store) DeleteTestResult(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, testResultsPath+"/"+url.PathEscape(id), nil, nil, nil)
}

// ============================================================================
// Transport
// ============================================================================

// do sends one request. in, when non-nil, is encoded as the JSON body; out,
// when non-nil, receives the decoded JSON response.
func (s *Store) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("record store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode record store response: %w", err)
	}
	return nil
}
