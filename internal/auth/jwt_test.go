package auth

import (
	"testing"
	"time"

	"calldesk/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:      "test-secret",
		JWTIssuer:      "calldesk-test",
		AccessTokenTTL: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("manager init failed: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := m.Verify(tok, now.Add(16*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other, err := NewManager(config.AuthConfig{JWTSecret: "different", AccessTokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager init failed: %v", err)
	}
	if _, err := other.Verify(tok, now); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestIssue_RequiresUsername(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Issue(time.Now(), ""); err == nil {
		t.Fatalf("expected error for empty username")
	}
}
