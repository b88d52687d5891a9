package server

import (
	"context"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/infrastructure/grpc/api"
	"meeting-lab/runtime"
	"meeting-lab/search"
	"meeting-lab/services"
	"meeting-lab/sink"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MeetingServer maps the wire surface onto the services. Command failures come
// back as status errors whose message is the user-facing text.
type MeetingServer struct {
	services services.Services
	log      *slog.Logger
}

var _ api.MeetingServiceServer = (*MeetingServer)(nil)

func NewMeetingServer(log *slog.Logger, services services.Services) *MeetingServer {
	return &MeetingServer{services: services, log: log}
}

func (s *MeetingServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	res, err := s.services.Auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		return nil, fail(res.Message, err)
	}
	return toLoginResponse(res), nil
}

func (s *MeetingServer) RedeemInvite(ctx context.Context, req *api.RedeemRequest) (*api.LoginResponse, error) {
	if err := auth.Validate(auth.RedeemRequest{Code: req.Code}); err != nil {
		return nil, fail(services.MsgInviteMissing, err)
	}
	res, err := s.services.Invite.Redeem(ctx, req.Code)
	if err != nil {
		return nil, fail(res.Message, err)
	}
	return toLoginResponse(res), nil
}

func (s *MeetingServer) Me(ctx context.Context, _ *api.Empty) (*api.MeResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	prefs := s.services.Auth.Me(identity)
	return &api.MeResponse{
		Login: prefs.Login,
		Name:  prefs.Name,
		Admin: prefs.Admin,
		Guest: prefs.Guest,
		Quorum: api.QuorumView{
			Present:  prefs.Quorum.Present,
			Required: prefs.Quorum.Required,
			Reached:  prefs.Quorum.Reached,
		},
	}, nil
}

func (s *MeetingServer) Post(ctx context.Context, req *api.PostRequest) (*api.CommandResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.Validate(auth.PostRequest{Room: req.Room, Body: req.Body}); err != nil {
		return nil, fail(services.MsgNoRoom, err)
	}
	return command(s.services.Chat.Post(ctx, identity, req.Room, req.Body))
}

func (s *MeetingServer) Moderate(ctx context.Context, req *api.ModerateRequest) (*api.CommandResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	return command(s.services.Moderation.Moderate(ctx, identity, domain.ModerationCommand{
		Action: domain.ModerationAction(req.Action),
		Target: req.Target,
	}))
}

func (s *MeetingServer) AssignProxies(ctx context.Context, req *api.ProxyRequest) (*api.ProxyResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.Validate(auth.ProxyRequest{Members: req.Members}); err != nil {
		return nil, fail("At least one valid member is required", err)
	}
	res, err := s.services.Proxy.AssignProxies(ctx, identity, req.Members)
	if err != nil {
		return nil, fail(res.Message, err)
	}
	return &api.ProxyResponse{Success: res.Success, Message: res.Message, Accepted: res.Accepted, Invalid: res.Invalid}, nil
}

func (s *MeetingServer) CreateInvite(ctx context.Context, req *api.InviteRequest) (*api.InviteResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.services.Invite.Create(ctx, identity, req.Name)
	if err != nil {
		return nil, fail(res.Message, err)
	}
	return &api.InviteResponse{Success: res.Success, Message: res.Message, Code: res.Code, URL: res.URL}, nil
}

func (s *MeetingServer) Export(ctx context.Context, _ *api.Empty) (*api.ExportResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := s.services.Export.Export(ctx, identity)
	if err != nil {
		if errors.Is(err, errors.ErrGuest) {
			return nil, fail(services.MsgGuestExport, err)
		}
		return nil, errors.MapToGRPCError(err)
	}
	return &api.ExportResponse{Name: archive.Name, ContentType: archive.ContentType, Data: archive.Data}, nil
}

func (s *MeetingServer) Search(ctx context.Context, req *api.SearchRequest) (*api.SearchResponse, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	query := search.ParseQuery(req.Query)
	if req.Room != "" {
		query.Room = req.Room
	}
	if req.Lang != "" {
		query.Lang = req.Lang
	}
	if req.Limit > 0 {
		query.Limit = req.Limit
	}
	res, err := s.services.Search.Search(ctx, identity, query)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.SearchResponse{Total: res.Total, Hits: lo.Map(res.Hits, func(h search.Hit, _ int) api.SearchHit {
		return api.SearchHit{
			ID:        h.ID,
			Room:      h.Room,
			Sender:    h.Sender,
			RealName:  h.RealName,
			Body:      h.Body,
			Lang:      h.Lang,
			Timestamp: h.At,
			Score:     h.Score,
		}
	})}, nil
}

// Connect streams the room history then the live frames. It blocks until the
// client goes away, the server stops or the identity is banned.
func (s *MeetingServer) Connect(_ *api.ConnectRequest, stream api.MeetingService_ConnectServer) error {
	ctx := stream.Context()
	identity, err := identityFrom(ctx)
	if err != nil {
		return err
	}
	// stream.Send returns once the stream context ends, so a stalled peer is
	// released by its disconnect or the keepalive timeout.
	frames := sink.NewStreamSink(s.log, stream.Send, 0)

	outcome, err := s.services.Chat.Connect(ctx, identity, frames)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	s.log.Info("Stream ended", "identity", identity.Login, "outcome", outcome)
	if outcome == runtime.BannedOut {
		return status.Error(codes.PermissionDenied, "You have been banned from this meeting")
	}
	return nil
}

func identityFrom(ctx context.Context) (domain.Identity, error) {
	identity, ok := auth.IdentityFrom(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return identity, nil
}

func command(res domain.CommandResult, err error) (*api.CommandResponse, error) {
	if err != nil {
		return nil, fail(res.Message, err)
	}
	return &api.CommandResponse{Success: res.Success, Message: res.Message}, nil
}

// fail keeps the category of err for the status code and shows message to the user.
func fail(message string, err error) error {
	if message == "" {
		return errors.MapToGRPCError(err)
	}
	return status.Error(status.Code(errors.MapToGRPCError(err)), message)
}

func toLoginResponse(res services.LoginResult) *api.LoginResponse {
	return &api.LoginResponse{Success: res.Success, Message: res.Message, Token: res.Token, Identity: res.Identity}
}
