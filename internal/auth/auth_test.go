package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/orderwidget/internal/storage/memory"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("profile-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.ProfileID != "profile-1" {
		t.Errorf("expected profile-1, got %s", claims.ProfileID)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)
	expired := NewJWTManager("test-secret", -time.Minute)

	foreign, _ := other.Generate("profile-1")
	stale, _ := expired.Generate("profile-1")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIssuer(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	tokens := NewJWTManager("test-secret", time.Hour)
	issuer := NewIssuer(backend, tokens)

	id, token, err := issuer.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := issuer.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id, got)
	}

	orphan, _ := tokens.Generate("never-registered")
	if _, err := issuer.Resolve(ctx, orphan); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}
