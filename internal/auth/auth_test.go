package auth

import (
	"testing"
	"time"
)

const secret = "unit-test-secret"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "testpass123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrongpassword") {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	tok, err := MakeToken("freelancer", secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "freelancer" {
		t.Errorf("username mismatch: %s", claims.Username)
	}

	// verify expiry is ~15 min from now
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 14*time.Minute || diff > 16*time.Minute {
		t.Errorf("expected ~15min expiry, got %v", diff)
	}
}

func TestTokenRejection(t *testing.T) {
	tok, _ := MakeToken("freelancer", secret)

	// wrong secret fails
	if _, err := ParseToken(tok, "wrong-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}

	// garbage token fails
	if _, err := ParseToken("not.a.token", secret); err == nil {
		t.Fatal("expected error for garbage token")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 { // 32 bytes hex = 64 chars
		t.Errorf("expected 64 char raw token, got %d", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	if HashRefreshToken(raw) != hash {
		t.Error("hash mismatch")
	}
}
