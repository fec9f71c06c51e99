package user_test

import (
	"testing"

	"github.com/testdeck/backend/internal/domain/user"
)

func TestNewUser(t *testing.T) {
	u := user.New("  Alice@Example.COM ", "hash", "")

	if u.Email != "alice@example.com" {
		t.Errorf("expected normalised email, got %q", u.Email)
	}
	if u.Role != user.RoleUser {
		t.Errorf("expected default role %q, got %q", user.RoleUser, u.Role)
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.IsAdmin() {
		t.Error("expected regular user not to be admin")
	}
}

func TestNewUser_UniqueIDs(t *testing.T) {
	a := user.New("a@b.com", "h", user.RoleUser)
	b := user.New("c@d.com", "h", user.RoleUser)

	if a.ID == b.ID {
		t.Error("expected different IDs for different users")
	}
}

func TestRole_Valid(t *testing.T) {
	if !user.RoleAdmin.Valid() || !user.RoleUser.Valid() {
		t.Error("expected known roles to be valid")
	}
	if user.Role("moderator").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
