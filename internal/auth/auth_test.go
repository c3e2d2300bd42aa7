package auth

import (
	"strings"
	"testing"
	"time"
)

func testSecret() string {
	return strings.Repeat("ab", 32)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyPassword("wrong password", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	InitializeSecret(testSecret())

	token, err := GenerateSessionToken("session-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.SessionID != "session-123" {
		t.Errorf("session id = %q", claims.SessionID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	InitializeSecret(testSecret())

	token, err := GenerateSessionToken("session-123", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ValidateSessionToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	InitializeSecret(testSecret())

	token, err := GenerateSessionToken("session-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateSessionToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
