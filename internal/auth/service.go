// Package auth handles accounts: registration, password login, bearer
// tokens and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/testdeck/backend/internal/domain/user"
	"github.com/testdeck/backend/internal/recordstore"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAdminSignupDisabled = errors.New("admin self-registration is disabled")
	ErrValidation          = errors.New("validation failed")
)

// Users is the part of the record store accounts live in.
type Users interface {
	ListUsers(ctx context.Context, filter recordstore.UserFilter) ([]user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

type Service struct {
	users       Users
	hasher      Hasher
	tokens      *TokenService
	validate    *validator.Validate
	adminSignup bool
	logger      *slog.Logger

	// serialises the exists-then-create sequence of Register
	registerMu sync.Mutex
}

func NewService(users Users, hasher Hasher, tokens *TokenService, adminSignup bool, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		validate:    validator.New(),
		adminSignup: adminSignup,
		logger:      logger,
	}
}

// Register creates an account. An email that is already registered, compared
// case-insensitively, fails with ErrEmailTaken and nothing is written.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.check(in); err != nil {
		return user.User{}, err
	}

	role := user.Role(in.Role)
	if role == "" {
		role = user.RoleUser
	}
	if role == user.RoleAdmin && !s.adminSignup {
		return user.User{}, ErrAdminSignupDisabled
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	existing, err := s.users.ListUsers(ctx, recordstore.UserFilter{Email: in.Email})
	if err != nil {
		return user.User{}, fmt.Errorf("look up email: %w", err)
	}
	if len(existing) > 0 {
		return user.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, *user.New(in.Email, hash, role))
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Login checks the credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.check(in); err != nil {
		return Session{}, err
	}

	users, err := s.users.ListUsers(ctx, recordstore.UserFilter{Email: in.Email})
	if err != nil {
		return Session{}, fmt.Errorf("look up email: %w", err)
	}
	if len(users) == 0 {
		return Session{}, ErrInvalidCredentials
	}

	u := users[0]
	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

// Logout revokes the token the claims were parsed from.
func (s *Service) Logout(claims *Claims) {
	s.tokens.Revoke(claims)
}

// RevokeUser signs out every session of a removed account.
func (s *Service) RevokeUser(userID string) {
	s.tokens.RevokeSubject(userID)
	s.logger.Info("user tokens revoked", "user_id", userID)
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Field())+" "+describeTag(fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + param
	default:
		return "is invalid"
	}
}
