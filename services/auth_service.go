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
	MsgLoggedIn           = "Logged in"
	MsgInvalidCredentials = "Invalid login or password"
)

type LoginResult struct {
	domain.CommandResult
	Token    string          `json:"token,omitempty"`
	Identity domain.Identity `json:"identity"`
}

// QuorumView is the quorum summary shown on the preferences page.
type QuorumView struct {
	Present  []string `json:"present"`
	Required int      `json:"required"`
	Reached  bool     `json:"reached"`
}

type Preferences struct {
	domain.Identity
	Quorum QuorumView `json:"quorum"`
}

type AuthService struct {
	meeting *runtime.Meeting
	tokens  *auth.TokenManager
	log     *slog.Logger
}

func NewAuthService(meeting *runtime.Meeting, tokens *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{meeting: meeting, tokens: tokens, log: log}
}

// Login checks the password against the roster hash and issues a session token.
// Unknown logins and wrong passwords get the same answer.
func (s *AuthService) Login(_ context.Context, login, password string) (LoginResult, error) {
	if err := auth.Validate(auth.LoginRequest{Login: login, Password: password}); err != nil {
		return LoginResult{CommandResult: domain.Failed(MsgInvalidCredentials)}, err
	}
	member, ok := s.meeting.Roster.Member(login)
	if !ok || member.PasswordHash == "" {
		return LoginResult{CommandResult: domain.Failed(MsgInvalidCredentials)}, errors.ErrInvalidCredentials
	}
	match, err := auth.ComparePassword(password, member.PasswordHash)
	if err != nil || !match {
		return LoginResult{CommandResult: domain.Failed(MsgInvalidCredentials)}, errors.ErrInvalidCredentials
	}

	identity := domain.Identity{Login: member.Login, Name: member.Name, Admin: s.meeting.Roster.IsAdmin(member.Login)}
	token, err := s.tokens.Generate(identity)
	if err != nil {
		s.log.Error("Token generation failed", "identity", login, "error", err)
		return LoginResult{CommandResult: domain.Failed(MsgUnavailable)}, err
	}
	s.log.Info("Member logged in", "identity", login, "admin", identity.Admin)
	return LoginResult{CommandResult: domain.Succeeded(MsgLoggedIn), Token: token, Identity: identity}, nil
}

func (s *AuthService) Me(identity domain.Identity) Preferences {
	present := s.meeting.Quorum.Members()
	required := domain.RequiredQuorum(s.meeting.Roster.Total())
	return Preferences{
		Identity: identity,
		Quorum: QuorumView{
			Present:  present,
			Required: required,
			Reached:  len(present) >= required,
		},
	}
}
