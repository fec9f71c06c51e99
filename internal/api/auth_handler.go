package api

import (
	"net/http"
	"time"

	"github.com/testdeck/backend/internal/auth"
	"github.com/testdeck/backend/internal/domain/user"
)

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is an account as returned to clients. The password hash is
// never included.
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      user.Role  `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u user.User) UserResponse {
	resp := UserResponse{ID: u.ID, Email: u.Email, Role: u.Role}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = &u.CreatedAt
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// register creates an account.
// @Summary      Register
// @Description  Creates an account. Emails are unique, compared case-insensitively.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account to create"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse  "admin self-registration disabled"
// @Failure      409   {object}  ErrorResponse  "email already registered"
// @Router       /auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

// login exchanges credentials for a bearer token.
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse  "invalid email or password"
// @Router       /auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.auth.Login(r.Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if h.handleError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      toUserResponse(sess.User),
	})
}

// logout revokes the caller's token.
// @Summary      Log out
// @Tags         Auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(claims(r))
	w.WriteHeader(http.StatusNoContent)
}

// me returns the caller's identity as carried by the token.
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	c := claims(r)
	respondJSON(w, http.StatusOK, UserResponse{ID: c.UserID(), Email: c.Email, Role: c.Role})
}
