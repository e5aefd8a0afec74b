package qrtoken

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer := NewSigner("qr-test-secret", 15*time.Minute, "unimark.test")

	token, expiresAt, err := signer.Sign("8c7f3a12-0001-4f00-9000-000000000001", 42, "CSC101")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if token == "" {
		t.Fatal("Sign() returned empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Errorf("Sign() expiry %v not within the configured TTL", remaining)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.SessionID != "8c7f3a12-0001-4f00-9000-000000000001" {
		t.Errorf("Verify() sessionId = %q, want the signed session id", claims.SessionID)
	}
	if claims.LecturerID != 42 {
		t.Errorf("Verify() lecturerId = %d, want 42", claims.LecturerID)
	}
	if claims.CourseCode != "CSC101" {
		t.Errorf("Verify() courseCode = %q, want CSC101", claims.CourseCode)
	}
}

func TestVerifyExpired(t *testing.T) {
	signer := NewSigner("qr-test-secret", -1*time.Minute, "unimark.test")

	token, _, err := signer.Sign("8c7f3a12-0001-4f00-9000-000000000001", 42, "CSC101")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := signer.Verify(token); !errors.Is(err, ErrExpired) {
		t.Errorf("Verify() error = %v, want ErrExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signer := NewSigner("qr-test-secret", 15*time.Minute, "unimark.test")
	other := NewSigner("identity-secret", 15*time.Minute, "unimark.test")

	token, _, err := signer.Sign("8c7f3a12-0001-4f00-9000-000000000001", 42, "CSC101")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalid) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrInvalid", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	signer := NewSigner("qr-test-secret", 15*time.Minute, "unimark.test")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJzZXNzaW9uSWQi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := signer.Verify(tt.token); !errors.Is(err, ErrInvalid) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalid", tt.token, err)
			}
		})
	}
}
