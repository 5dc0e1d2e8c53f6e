package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/orderwidget/internal/auth"
)

// ProfileService hands out anonymous profiles.
type ProfileService struct {
	issuer *auth.Issuer
}

// NewProfileService creates a ProfileService.
func NewProfileService(issuer *auth.Issuer) *ProfileService {
	return &ProfileService{issuer: issuer}
}

// IssueProfile registers a new profile and returns {profile_id, token}.
func (s *ProfileService) IssueProfile(ctx context.Context, _ *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	profileID, token, err := s.issuer.Issue(ctx)
	if err != nil {
		slog.Error("IssueProfile failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	msg, err := toStruct(map[string]any{
		"profile_id": profileID,
		"token":      token,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}
