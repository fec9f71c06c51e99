// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/testdeck/backend/internal/auth"
	"github.com/testdeck/backend/internal/catalog"
	"github.com/testdeck/backend/internal/domain/testsession"
	"github.com/testdeck/backend/internal/recordstore"
	"github.com/testdeck/backend/internal/service"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	auth     *auth.Service
	catalog  *catalog.Cache
	attempts *service.AttemptService
	admin    *service.AdminService
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(authSvc *auth.Service, c *catalog.Cache, attempts *service.AttemptService, admin *service.AdminService, logger *slog.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		catalog:  c,
		attempts: attempts,
		admin:    admin,
		logger:   logger,
	}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleError maps service errors to HTTP responses. Returns true if an
// error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	var status int
	switch {
	case errors.Is(err, auth.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrAdminSignupDisabled):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, testsession.ErrNoQuestions):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, testsession.ErrUnknownQuestion),
		errors.Is(err, testsession.ErrInvalidOption):
		status = http.StatusBadRequest
	case errors.Is(err, testsession.ErrNotInProgress),
		errors.Is(err, testsession.ErrSubmitInProgress),
		errors.Is(err, testsession.ErrTimeUp):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrTestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, recordstore.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
		return true
	case errors.Is(err, catalog.ErrPersistFailed):
		h.logger.Error("persist failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusBadGateway, catalog.ErrPersistFailed.Error())
		return true
	default:
		h.logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
		return true
	}

	respondError(w, status, err.Error())
	return true
}
