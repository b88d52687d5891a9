package services

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/runtime"
)

const (
	MsgSent        = "Message sent!"
	MsgNoRoom      = "Could not find room!"
	MsgEmptyBody   = "Message body cannot be empty"
	MsgBlocked     = "You are blocked from posting"
	MsgThrottled   = "You are being throttled, please wait a moment"
	MsgNotSaved    = "Message could not be saved, please try again"
	MsgUnavailable = "Oops, something went terribly wrong here!"
)

type ChatService struct {
	meeting *runtime.Meeting
	log     *slog.Logger
}

func NewChatService(meeting *runtime.Meeting, log *slog.Logger) *ChatService {
	return &ChatService{meeting: meeting, log: log}
}

func (s *ChatService) Post(ctx context.Context, identity domain.Identity, room, body string) (domain.CommandResult, error) {
	if identity.Login == "" {
		return domain.Failed(MsgUnavailable), errors.ErrUnauthorized
	}
	if !s.meeting.Gate.CanPost(identity.Login) {
		return domain.Failed(MsgBlocked), errors.ErrBlocked
	}

	_, err := s.meeting.Rooms.Post(ctx, domain.RoomID(room), identity.Login, identity.Name, body)
	switch {
	case err == nil:
		return domain.Succeeded(MsgSent), nil
	case errors.Is(err, errors.ErrRoomNotFound):
		return domain.Failed(MsgNoRoom), err
	case errors.Is(err, errors.ErrEmptyMessage):
		return domain.Failed(MsgEmptyBody), err
	case errors.Is(err, errors.ErrRateLimit):
		return domain.Failed(MsgThrottled), err
	case errors.Is(err, errors.ErrPersistence):
		return domain.Failed(MsgNotSaved), err
	default:
		s.log.Error("Unexpected post failure", "room", room, "error", err)
		return domain.Failed(MsgUnavailable), err
	}
}

// Connect credits a roster member as present in person, then runs the live session
// until it closes.
func (s *ChatService) Connect(ctx context.Context, identity domain.Identity, sink contract.FrameSink) (runtime.Outcome, error) {
	if identity.Login != "" && !identity.Guest && s.meeting.Gate.CanView(identity.Login) &&
		s.meeting.Roster.Contains(identity.Login) {
		if _, err := s.meeting.Quorum.Add(ctx, identity.Login); err != nil {
			s.log.Error("Could not credit attendee", "identity", identity.Login, "error", err)
		}
	}
	return s.meeting.NewSession(identity, sink).Run(ctx)
}
