// Package services holds the command surfaces shared by the gRPC server and the HTTP gateway.
// Each operation answers with a domain.CommandResult carrying the user-facing text, plus an
// error whose category decides the transport status.
package services

import (
	"context"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/repositories"
	"meeting-lab/runtime"
	"meeting-lab/search"
)

type IChatService interface {
	Post(ctx context.Context, identity domain.Identity, room, body string) (domain.CommandResult, error)
	Connect(ctx context.Context, identity domain.Identity, sink contract.FrameSink) (runtime.Outcome, error)
}

type IModerationService interface {
	Moderate(ctx context.Context, identity domain.Identity, cmd domain.ModerationCommand) (domain.CommandResult, error)
}

type IProxyService interface {
	AssignProxies(ctx context.Context, identity domain.Identity, members []string) (ProxyResult, error)
}

type IInviteService interface {
	Create(ctx context.Context, identity domain.Identity, name string) (InviteResult, error)
	Redeem(ctx context.Context, code string) (LoginResult, error)
}

type IExportService interface {
	Export(ctx context.Context, identity domain.Identity) (Archive, error)
}

type IAuthService interface {
	Login(ctx context.Context, login, password string) (LoginResult, error)
	Me(identity domain.Identity) Preferences
}

type ISearchService interface {
	Search(ctx context.Context, identity domain.Identity, query search.Query) (SearchResult, error)
}

// Services groups every command surface so transports take a single value.
type Services struct {
	Chat       IChatService
	Moderation IModerationService
	Proxy      IProxyService
	Invite     IInviteService
	Export     IExportService
	Auth       IAuthService
	Search     ISearchService
}

// New wires the default implementations. index may be nil, which disables search.
func New(meeting *runtime.Meeting, audit repositories.IAuditRepository, tokens *auth.TokenManager,
	index *search.Index, log *slog.Logger) Services {
	return Services{
		Chat:       NewChatService(meeting, log),
		Moderation: NewModerationService(meeting, audit, log),
		Proxy:      NewProxyService(meeting, audit, log),
		Invite:     NewInviteService(meeting, tokens, log),
		Export:     NewExportService(meeting, log),
		Auth:       NewAuthService(meeting, tokens, log),
		Search:     NewSearchService(meeting, index),
	}
}
