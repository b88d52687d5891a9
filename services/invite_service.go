package services

import (
	"context"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/runtime"
)

const (
	MsgInviteCreated  = "Invite created"
	MsgInviteMissing  = "Could not find invite code. It may have already been used."
	MsgInviteRefused  = "You cannot invite guests"
	MsgInviteNoName   = "The invitee name is required"
	MsgInviteRedeemed = "Welcome to the meeting!"
)

type InviteResult struct {
	domain.CommandResult
	Code string `json:"code,omitempty"`
	URL  string `json:"url,omitempty"`
}

type InviteService struct {
	meeting *runtime.Meeting
	tokens  *auth.TokenManager
	log     *slog.Logger
}

func NewInviteService(meeting *runtime.Meeting, tokens *auth.TokenManager, log *slog.Logger) *InviteService {
	return &InviteService{meeting: meeting, tokens: tokens, log: log}
}

func (s *InviteService) Create(_ context.Context, identity domain.Identity, name string) (InviteResult, error) {
	invite, err := s.meeting.Invites.Create(identity, name)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrValidation):
		return InviteResult{CommandResult: domain.Failed(MsgInviteNoName)}, err
	default:
		return InviteResult{CommandResult: domain.Failed(MsgInviteRefused)}, err
	}
	return InviteResult{
		CommandResult: domain.Succeeded(MsgInviteCreated),
		Code:          invite.Code,
		URL:           s.meeting.Config().InviteURL + invite.Code,
	}, nil
}

// Redeem consumes the code and signs a token for the new guest identity.
func (s *InviteService) Redeem(_ context.Context, code string) (LoginResult, error) {
	identity, err := s.meeting.Invites.Redeem(code)
	if err != nil {
		return LoginResult{CommandResult: domain.Failed(MsgInviteMissing)}, err
	}
	token, err := s.tokens.Generate(identity)
	if err != nil {
		s.log.Error("Token generation failed", "identity", identity.Login, "error", err)
		return LoginResult{CommandResult: domain.Failed(MsgUnavailable)}, err
	}
	return LoginResult{
		CommandResult: domain.Succeeded(MsgInviteRedeemed),
		Token:         token,
		Identity:      identity,
	}, nil
}
