package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlaac/fabricat/internal/core/domain"
	"github.com/bloodlaac/fabricat/internal/core/ports"
)

// dummyPasswordHash is verified against when a nickname is unknown, so that
// the miss path costs the same KDF evaluation as a real password check. It is
// a syntactically valid argon2id hash that matches no password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AuthService implements registration, login and token refresh.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, logger: logger}
}

// Register creates a new user and issues an access token. Nickname collisions
// surface as domain.ErrUserExists; the decision is made by the store's unique
// index, not by a pre-check, so concurrent registrations stay safe.
func (s *AuthService) Register(ctx context.Context, nickname, password, icon string) (*ports.AuthResult, error) {
	if err := validateRegistration(nickname, password, icon); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Nickname:     nickname,
		PasswordHash: hash,
		Icon:         icon,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(created.ID, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("nickname", created.Nickname).Msg("user registered")

	return &ports.AuthResult{User: created, AccessToken: token}, nil
}

// Login verifies credentials and issues an access token. Unknown nickname and
// wrong password both return domain.ErrInvalidCredentials; the unknown case
// still runs one hash verification to keep the two paths comparable in
// latency.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (*ports.AuthResult, error) {
	if nickname == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, dummyPasswordHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn().Str("nickname", nickname).Msg("failed login attempt")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user, AccessToken: token}, nil
}

// Refresh exchanges a still-valid token for a fresh one. The user store is
// not consulted: a deleted user's token keeps working until natural expiry,
// an exposure bounded by the token TTL.
func (s *AuthService) Refresh(token string) (string, error) {
	return s.codec.Refresh(token, time.Now().UTC())
}

// validateRegistration bounds field lengths in runes, matching how the
// handler's validator tags count string length.
func validateRegistration(nickname, password, icon string) error {
	switch {
	case nickname == "":
		return fmt.Errorf("%w: nickname is required", domain.ErrValidation)
	case utf8.RuneCountInString(nickname) > domain.NicknameMaxLen:
		return fmt.Errorf("%w: nickname exceeds %d characters", domain.ErrValidation, domain.NicknameMaxLen)
	case password == "":
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	case utf8.RuneCountInString(password) > domain.PasswordMaxLen:
		return fmt.Errorf("%w: password exceeds %d characters", domain.ErrValidation, domain.PasswordMaxLen)
	case utf8.RuneCountInString(icon) > domain.IconMaxLen:
		return fmt.Errorf("%w: icon exceeds %d characters", domain.ErrValidation, domain.IconMaxLen)
	}
	return nil
}
