package utils

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesBcryptHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if hash == "admin123" {
		t.Error("hash must not equal the plaintext")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err1 := HashPassword("same-input")
	h2, err2 := HashPassword("same-input")
	if err1 != nil || err2 != nil {
		t.Fatalf("HashPassword() errors = %v, %v", err1, err2)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
	if !CheckPassword("same-input", h1) || !CheckPassword("same-input", h2) {
		t.Error("both hashes should verify against the original password")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, _ := HashPassword("s3cret!")

	tests := []struct {
		name      string
		candidate string
		hash      string
		want      bool
	}{
		{"exact match", "s3cret!", hash, true},
		{"wrong password", "s3cret", hash, false},
		{"case matters", "S3CRET!", hash, false},
		{"empty candidate", "", hash, false},
		{"empty hash for ldap user", "s3cret!", "", false},
		{"garbage hash", "s3cret!", "not-a-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.candidate, tt.hash); got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}
