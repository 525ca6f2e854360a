package ports

import (
	"context"
	"time"

	"github.com/bloodlaac/fabricat/internal/core/domain"
)

// AuthResult is returned after a successful registration or login.
type AuthResult struct {
	User        *domain.User
	AccessToken string
}

// AuthService defines the authentication use cases exposed to the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, nickname, password, icon string) (*AuthResult, error)
	Login(ctx context.Context, nickname, password string) (*AuthResult, error)
	// Refresh exchanges a still-valid token for a fresh one. It does not
	// consult the user store: a token outlives its user until expiry.
	Refresh(token string) (string, error)
}

// TokenPayload is the verified content of an access token.
type TokenPayload struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec creates and verifies self-contained signed access tokens.
type TokenCodec interface {
	Issue(subject string, now time.Time) (string, error)
	// Verify checks the signature before interpreting any claim and returns
	// domain.ErrInvalidToken for forged, malformed or expired tokens.
	Verify(token string, now time.Time) (*TokenPayload, error)
	Refresh(token string, now time.Time) (string, error)
}

// PasswordHasher provides one-way salted hashing of passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches the encoded hash. It returns
	// false for malformed hashes, never an error.
	Verify(password, hash string) bool
}
