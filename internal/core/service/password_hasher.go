package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Default argon2id work factor (OWASP recommendation).
const (
	DefaultArgonMemoryKiB  = 64 * 1024
	DefaultArgonIterations = 1
	DefaultArgonThreads    = 4

	argonSaltLen = 16
	argonKeyLen  = 32
)

// Argon2Hasher hashes passwords with argon2id and encodes them in the PHC
// string format, so every hash carries its own algorithm tag and parameters:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Old hashes stay verifiable after the configured work factor changes.
type Argon2Hasher struct {
	memoryKiB  uint32
	iterations uint32
	threads    uint8
}

// NewArgon2Hasher creates a hasher with the given work factor. Non-positive
// values fall back to the defaults.
func NewArgon2Hasher(memoryKiB, iterations, threads int) *Argon2Hasher {
	if memoryKiB <= 0 {
		memoryKiB = DefaultArgonMemoryKiB
	}
	if iterations <= 0 {
		iterations = DefaultArgonIterations
	}
	if threads <= 0 || threads > 255 {
		threads = DefaultArgonThreads
	}
	return &Argon2Hasher{
		memoryKiB:  uint32(memoryKiB),
		iterations: uint32(iterations),
		threads:    uint8(threads),
	}
}

// Hash derives an argon2id hash with a fresh random salt. It fails only when
// the OS entropy source does.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memoryKiB, h.threads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memoryKiB, h.iterations, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify re-derives the hash using the parameters embedded in encodedHash and
// compares in constant time. Malformed hashes verify as false.
func (h *Argon2Hasher) Verify(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || threads == 0 || threads > 255 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > 1024 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
