package domain

import "errors"

var (
	// ErrValidation marks malformed caller input (empty or over-length fields).
	ErrValidation = errors.New("invalid input")
	// ErrUserExists is returned when a nickname is already taken. The unique
	// index on the user store is the authoritative check.
	ErrUserExists = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown nickname and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers forged, malformed and expired tokens uniformly.
	ErrInvalidToken = errors.New("invalid token")
	ErrStatsNotFound = errors.New("game stats not found")
)
