package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/testdeck/backend/internal/domain/user"
	"github.com/testdeck/backend/internal/id"
)

const issuer = "testdeck"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Claims identify the signed-in user. Subject carries the user id and ID the
// token id used for revocation.
type Claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string { return c.Subject }

func (c *Claims) IsAdmin() bool { return c.Role == user.RoleAdmin }

// TokenService issues and verifies HS256 bearer tokens. Logged-out tokens and
// deleted accounts are remembered until their tokens would have expired anyway.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	revoked  map[string]time.Time // token id -> expiry
	subjects map[string]time.Time // user id -> expiry of the newest token it could hold
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked:  make(map[string]time.Time),
		subjects: make(map[string]time.Time),
	}
}

// Issue signs a token for u and returns it with its expiry.
func (s *TokenService) Issue(u user.User) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	claims := &Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			ID:        id.RequestID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies signature, issuer, expiry and revocation.
func (s *TokenService) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	_, gone := s.subjects[claims.Subject]
	s.mu.Unlock()
	if revoked || gone {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke invalidates the token the claims came from.
func (s *TokenService) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)

	exp := now.Add(s.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	s.revoked[claims.ID] = exp
}

// RevokeSubject invalidates every token issued to userID so far.
func (s *TokenService) RevokeSubject(userID string) {
	if userID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	s.subjects[userID] = now.Add(s.ttl)
}

func (s *TokenService) prune(now time.Time) {
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
	for sub, exp := range s.subjects {
		if now.After(exp) {
			delete(s.subjects, sub)
		}
	}
}
