package identity

import (
	"strings"
	"testing"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty string")
	}
	if !hasher.Verify(hash, "pw1") {
		t.Fatal("Verify rejected the correct password")
	}
	if hasher.Verify(hash, "wrong") {
		t.Fatal("Verify accepted an incorrect password")
	}
}

func TestBcryptHasherSaltsPerCall(t *testing.T) {
	hasher := NewBcryptHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical, salt is not random")
	}
}

func TestHashDoesNotContainPlaintext(t *testing.T) {
	hasher := NewBcryptHasher()

	const password = "correct horse battery staple"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if strings.Contains(hash, password) {
		t.Fatal("hash contains the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash is not algorithm-tagged: %q", hash)
	}
}

func TestZeroCostFallsBackToDefault(t *testing.T) {
	hasher := BcryptHasher{}

	hash, err := hasher.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !hasher.Verify(hash, "pw1") {
		t.Fatal("Verify rejected the correct password")
	}
}
