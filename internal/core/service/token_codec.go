package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bloodlaac/fabricat/internal/core/domain"
	"github.com/bloodlaac/fabricat/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// JWTCodec issues and verifies HS256-signed access tokens carrying the user
// id as subject. Tokens are stateless: validity rests entirely on the
// signature and the expiry claim, nothing is persisted server-side.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTCodec{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for subject valid from now until now+TTL.
func (c *JWTCodec) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates token at the given instant. The signature is
// checked before any claim is interpreted; every failure mode (forged,
// malformed, expired, wrong algorithm) collapses into domain.ErrInvalidToken
// so callers cannot distinguish them.
func (c *JWTCodec) Verify(token string, now time.Time) (*ports.TokenPayload, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	payload := &ports.TokenPayload{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	return payload, nil
}

// Refresh verifies token and issues a brand-new one for the same subject with
// fresh timestamps. An expired or tampered token cannot be refreshed. The new
// issued_at is always strictly later than the old one: NumericDate is
// second-granular, so a refresh inside the issuance second stamps the new
// token one second after the original instead of repeating it.
func (c *JWTCodec) Refresh(token string, now time.Time) (string, error) {
	payload, err := c.Verify(token, now)
	if err != nil {
		return "", err
	}
	issuedAt := now
	if !issuedAt.Truncate(time.Second).After(payload.IssuedAt) {
		issuedAt = payload.IssuedAt.Add(time.Second)
	}
	return c.Issue(payload.Subject, issuedAt)
}
