package user

import (
	"strings"
	"time"

	"github.com/testdeck/backend/internal/id"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account. PasswordHash is a bcrypt hash, never a plaintext password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// New creates a user with a generated ID. The email is normalised so that
// duplicate checks are case-insensitive.
func New(email, passwordHash string, role Role) *User {
	if role == "" {
		role = RoleUser
	}
	return &User{
		ID:           id.GenerateID(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
