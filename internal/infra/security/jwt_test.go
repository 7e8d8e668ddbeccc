package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *CredentialCodec {
	t.Helper()

	codec, err := NewCredentialCodec("test-secret-please-rotate", "dev-ticketing-rest", 10*time.Hour)
	if err != nil {
		t.Fatalf("NewCredentialCodec returned error: %v", err)
	}
	return codec
}

func TestCredentialCodec_IssueAndVerify(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Issue("user-1", "dana.reed@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if raw == "" {
		t.Fatal("Issue returned empty token")
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Username != "dana.reed@example.com" {
		t.Fatalf("expected username to round-trip, got %s", claims.Username)
	}
}

func TestCredentialCodec_RejectsEmptySecret(t *testing.T) {
	if _, err := NewCredentialCodec("  ", "issuer", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestCredentialCodec_VerifyTamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Issue("user-1", "dana.reed@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tampered := raw[:len(raw)-2] + "xx"
	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCredentialCodec_VerifyWrongSecret(t *testing.T) {
	codec := newTestCodec(t)

	other, err := NewCredentialCodec("a-different-secret-entirely", "dev-ticketing-rest", 10*time.Hour)
	if err != nil {
		t.Fatalf("NewCredentialCodec returned error: %v", err)
	}

	raw, err := other.Issue("user-1", "dana.reed@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCredentialCodec_VerifyExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now().Add(-24 * time.Hour)
	codec.WithClock(func() time.Time { return issuedAt })

	raw, err := codec.Issue("user-1", "dana.reed@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	codec.WithClock(time.Now)
	if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCredentialCodec_VerifyGarbage(t *testing.T) {
	codec := newTestCodec(t)

	for _, raw := range []string{"", "   ", "not-a-jwt", strings.Repeat("a", 512)} {
		if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
