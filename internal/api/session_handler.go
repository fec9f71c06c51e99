package api

import (
	"net/http"
	"strings"

	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartSessionRequest struct {
	TestID string `json:"test_id"`
}

type SelectAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Option     *int   `json:"option"`
}

type NavigateRequest struct {
	Index int `json:"index"`
}

// SessionResponse is the active session plus its countdown as displayed.
type SessionResponse struct {
	testsession.View
	TimeLeft string `json:"timeLeft"`
}

// SubmitResponse summarises a submitted attempt.
type SubmitResponse struct {
	ResultID       string `json:"resultId"`
	TestID         string `json:"testId"`
	TestTitle      string `json:"testTitle"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeTaken      int    `json:"timeTaken"`
	TimedOut       bool   `json:"timedOut"`
}

func toSessionResponse(v testsession.View) SessionResponse {
	return SessionResponse{View: v, TimeLeft: testsession.FormatRemaining(v.RemainingSeconds)}
}

func toSubmitResponse(o service.Outcome) SubmitResponse {
	return SubmitResponse{
		ResultID:       o.Result.ID,
		TestID:         o.Result.TestID,
		TestTitle:      o.TestTitle,
		Score:          o.Result.Score,
		CorrectAnswers: o.Result.CorrectAnswers,
		TotalQuestions: o.Result.TotalQuestions,
		TimeTaken:      o.Result.TimeTaken,
		TimedOut:       o.TimedOut,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startSession begins a timed attempt.
// @Summary      Start a test
// @Description  Starts a timed session on a test. A session the caller already had running is abandoned.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      StartSessionRequest  true  "Test to take"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse  "test not found"
// @Failure      422   {object}  ErrorResponse  "no questions available"
// @Router       /sessions [post]
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TestID) == "" {
		respondError(w, http.StatusBadRequest, "test_id is required")
		return
	}

	view, err := h.attempts.Start(claims(r).UserID(), req.TestID)
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(view))
}

// currentSession returns the caller's active session.
// @Summary      Current session
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  ErrorResponse  "no active test session"
// @Router       /sessions/current [get]
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.attempts.Current(claims(r).UserID())
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(view))
}

// selectAnswer records the chosen option for a question.
// @Summary      Answer a question
// @Description  Records or overwrites the selected option of one question.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SelectAnswerRequest  true  "Selected option"
// @Success      200   {object}  SessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "session is not in progress or its time is up"
// @Router       /sessions/current/answers [put]
func (h *Handler) selectAnswer(w http.ResponseWriter, r *http.Request) {
	var req SelectAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == "" || req.Option == nil {
		respondError(w, http.StatusBadRequest, "question_id and option are required")
		return
	}

	view, err := h.attempts.Answer(claims(r).UserID(), req.QuestionID, *req.Option)
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(view))
}

// navigate moves to another question. Out-of-range indexes are clamped.
// @Summary      Go to question
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      NavigateRequest  true  "Question index"
// @Success      200   {object}  SessionResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /sessions/current/navigate [post]
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.attempts.Navigate(claims(r).UserID(), req.Index)
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(view))
}

// submitSession scores and stores the attempt.
// @Summary      Submit the test
// @Description  Scores the session and records the result. If the result cannot be stored the session is kept and the submit can be retried.
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SubmitResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse  "submission already in progress"
// @Failure      502  {object}  ErrorResponse  "failed to save test result"
// @Router       /sessions/current/submit [post]
func (h *Handler) submitSession(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.attempts.Submit(r.Context(), claims(r).UserID())
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSubmitResponse(outcome))
}

// abandonSession drops the active session without recording anything.
// @Summary      Abandon the test
// @Tags         Sessions
// @Security     BearerAuth
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /sessions/current [delete]
func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, r, h.attempts.Abandon(claims(r).UserID())) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lastAttempt returns the caller's latest submission, including one forced
// by the timer.
// @Summary      Last attempt
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.Outcome
// @Failure      404  {object}  ErrorResponse
// @Router       /attempts/last [get]
func (h *Handler) lastAttempt(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.attempts.LastOutcome(claims(r).UserID())
	if !ok {
		respondError(w, http.StatusNotFound, "no submitted attempt")
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
