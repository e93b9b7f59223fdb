package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	signed, issuedAt, err := codec.Issue("7", "3", 3*time.Second)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.RoomID != "7" || claims.ClassID != "3" {
		t.Errorf("claims = %q/%q, want 7/3", claims.RoomID, claims.ClassID)
	}
	if claims.CreatedAt != issuedAt.UnixMilli() {
		t.Errorf("createdAt = %d, want %d", claims.CreatedAt, issuedAt.UnixMilli())
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	codec := NewCodec("test-secret")
	signed, _, err := codec.Issue("7", "3", 3*time.Second)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalid) {
		t.Errorf("tampered token error = %v, want ErrInvalid", err)
	}

	other := NewCodec("different-secret")
	if _, err := other.Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Errorf("wrong-key token error = %v, want ErrInvalid", err)
	}

	if _, err := codec.Verify("not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Errorf("garbage token error = %v, want ErrInvalid", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := NewCodec("test-secret")
	base := time.Now()

	codec.now = func() time.Time { return base }
	signed, _, err := codec.Issue("7", "3", 3*time.Second)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Just before expiry the token still verifies.
	codec.now = func() time.Time { return base.Add(2 * time.Second) }
	if _, err := codec.Verify(signed); err != nil {
		t.Fatalf("verify before expiry failed: %v", err)
	}

	// At and after expiry it fails with the expiry indication.
	codec.now = func() time.Time { return base.Add(4 * time.Second) }
	if _, err := codec.Verify(signed); !errors.Is(err, ErrExpired) {
		t.Errorf("expired token error = %v, want ErrExpired", err)
	}
}
