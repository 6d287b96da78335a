package utils

import (
	"testing"
	"time"
)

const testSecret = "jwt-test-secret"

func init() {
	SetJWTSecret(testSecret)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "moderator", "user", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Username != "moderator" {
		t.Errorf("Username = %q, want %q", claims.Username, "moderator")
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want %q", claims.Role, "user")
	}
}

func TestTokenExpiry(t *testing.T) {
	token, err := GenerateToken(1, "admin", "admin", 2)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	want := time.Now().Add(2 * time.Hour)
	got := claims.ExpiresAt.Time
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("expiry %v not within a minute of %v", got, want)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "hello"},
		{"malformed segments", "a.b"},
		{"tampered signature", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoxfQ.bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestSecretRotationInvalidatesOldTokens(t *testing.T) {
	SetJWTSecret("before-rotation")
	token, err := GenerateToken(1, "admin", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetJWTSecret("after-rotation")
	defer SetJWTSecret(testSecret)

	if _, err := ParseToken(token); err == nil {
		t.Error("token signed under the old secret should no longer parse")
	}
}
