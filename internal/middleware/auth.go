package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/orderwidget/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ProfileIDKey is the context key for the authenticated profile ID.
	ProfileIDKey contextKey = "profile_id"

	callKey contextKey = "call"
)

// call is installed by LoggingInterceptor so interceptors further in can
// report the profile back out.
type call struct {
	profileID string
}

// GetProfileID extracts the profile ID from the context.
// Returns empty string if not found.
func GetProfileID(ctx context.Context) string {
	profileID, _ := ctx.Value(ProfileIDKey).(string)
	return profileID
}

// WithProfileID returns a copy of ctx carrying profileID.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	if c, ok := ctx.Value(callKey).(*call); ok {
		c.profileID = profileID
	}
	return context.WithValue(ctx, ProfileIDKey, profileID)
}

// RequireProfile returns an interceptor that resolves the Bearer profile
// token and adds the profile ID to the request context.
func RequireProfile(issuer *auth.Issuer) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			profileID, err := issuer.Resolve(ctx, tokenString)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUnknownProfile) {
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			return next(WithProfileID(ctx, profileID), req)
		}
	}
}
