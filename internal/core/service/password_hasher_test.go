package service

import (
	"strings"
	"testing"
)

// low work factor keeps the tests fast; the format is identical to production.
func testHasher() *Argon2Hasher {
	return NewArgon2Hasher(1024, 1, 1)
}

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected PHC argon2id format, got %q", hash)
	}
	if strings.Contains(hash, "s3cret!") {
		t.Fatalf("hash contains the plaintext password")
	}

	if !h.Verify("s3cret!", hash) {
		t.Fatalf("correct password did not verify")
	}
	if h.Verify("wrong", hash) {
		t.Fatalf("wrong password verified")
	}
	if h.Verify("", hash) {
		t.Fatalf("empty password verified")
	}
}

func TestArgon2Hasher_RandomSalt(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("first Hash: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("second Hash: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same password are identical; salt is not random")
	}
	if !h.Verify("same-password", first) || !h.Verify("same-password", second) {
		t.Fatalf("both hashes must verify against the original password")
	}
}

func TestArgon2Hasher_SelfDescribingParams(t *testing.T) {
	// A hash created with one work factor must verify under a hasher
	// configured with another: parameters are read from the hash itself.
	old := NewArgon2Hasher(1024, 1, 1)
	hash, err := old.Hash("migrate-me")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	upgraded := NewArgon2Hasher(2048, 2, 1)
	if !upgraded.Verify("migrate-me", hash) {
		t.Fatalf("hash with embedded params did not verify under new work factor")
	}
}

func TestArgon2Hasher_MalformedHashes(t *testing.T) {
	h := testHasher()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=1024,t=1,p=1$short",
		"$argon2i$v=19$m=1024,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=18$m=1024,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=0,t=0,p=0$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=1024,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$!!!",
	}
	for _, bad := range cases {
		if h.Verify("whatever", bad) {
			t.Fatalf("malformed hash verified: %q", bad)
		}
	}
}

func TestArgon2Hasher_TamperedHash(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("p@ssword")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	// Flip the last character of the derived key.
	tampered := []byte(hash)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if h.Verify("p@ssword", string(tampered)) {
		t.Fatalf("tampered hash verified")
	}
}
