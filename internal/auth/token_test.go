package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestMintAndVerify(t *testing.T) {
	token, err := Mint(testSecret, "uid-123", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	uid, err := Verify(testSecret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if uid != "uid-123" {
		t.Errorf("user id = %q, want %q", uid, "uid-123")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := Mint(testSecret, "uid-123", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := Verify([]byte("other-secret"), token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestVerifyExpired(t *testing.T) {
	token, err := Mint(testSecret, "uid-123", -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := Verify(testSecret, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify(testSecret, "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
