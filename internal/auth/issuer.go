package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownProfile is returned for a valid token whose profile is gone.
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileRegistry creates and looks up anonymous profiles.
type ProfileRegistry interface {
	CreateProfile(ctx context.Context) (string, error)
	ProfileExists(ctx context.Context, profileID string) (bool, error)
}

// Issuer hands out profile tokens and resolves them back to profiles.
type Issuer struct {
	profiles ProfileRegistry
	tokens   *JWTManager
}

// NewIssuer creates an issuer backed by profiles.
func NewIssuer(profiles ProfileRegistry, tokens *JWTManager) *Issuer {
	return &Issuer{profiles: profiles, tokens: tokens}
}

// Issue registers a new profile and returns its id and token.
func (i *Issuer) Issue(ctx context.Context) (profileID, token string, err error) {
	profileID, err = i.profiles.CreateProfile(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to create profile: %w", err)
	}
	token, err = i.tokens.Generate(profileID)
	if err != nil {
		return "", "", err
	}
	slog.Info("Profile issued", "profile_id", profileID)
	return profileID, token, nil
}

// Resolve validates token and returns the profile it names. The profile
// must still exist.
func (i *Issuer) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := i.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	ok, err := i.profiles.ProfileExists(ctx, claims.ProfileID)
	if err != nil {
		return "", fmt.Errorf("failed to look up profile: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProfile, claims.ProfileID)
	}
	return claims.ProfileID, nil
}
