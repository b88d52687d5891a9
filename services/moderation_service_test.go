package services

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestModerationService_Moderate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	meeting, _ := newMeeting(t)
	audit := mocks.NewMockIAuditRepository(ctrl)
	svc := NewModerationService(meeting, audit, slog.Default())
	ctx := context.Background()

	t.Run("should refuse non administrators", func(t *testing.T) {
		req := require.New(t)
		audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

		res, err := svc.Moderate(ctx, bob, domain.ModerationCommand{Action: domain.ActionBan, Target: "carol"})

		req.ErrorIs(err, errors.ErrNotAdmin)
		req.Equal(domain.Failed(MsgNotAdmin), res)
		req.True(meeting.Gate.CanView("carol"))
	})

	t.Run("should block and audit", func(t *testing.T) {
		req := require.New(t)
		audit.EXPECT().Record(gomock.Any(), "alice block carol").Return(nil)

		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionBlock, Target: "carol"})

		req.NoError(err)
		req.Equal(domain.Succeeded("User carol blocked"), res)
		req.False(meeting.Gate.CanPost("carol"))
	})

	t.Run("should answer the same when repeated", func(t *testing.T) {
		req := require.New(t)
		audit.EXPECT().Record(gomock.Any(), "alice block carol").Return(nil)

		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionBlock, Target: "carol"})

		req.NoError(err)
		req.Equal("User carol blocked", res.Message)
	})

	t.Run("should ban and unban", func(t *testing.T) {
		req := require.New(t)
		audit.EXPECT().Record(gomock.Any(), "alice ban carol").Return(nil)
		audit.EXPECT().Record(gomock.Any(), "alice unban carol").Return(nil)

		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionBan, Target: "carol"})
		req.NoError(err)
		req.Equal("User carol banned", res.Message)
		req.False(meeting.Gate.CanView("carol"))

		res, err = svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionUnban, Target: "carol"})
		req.NoError(err)
		req.Equal("User carol unbanned", res.Message)
		req.True(meeting.Gate.CanView("carol"))
	})

	t.Run("should redact a message from any room", func(t *testing.T) {
		req := require.New(t)
		message, err := meeting.Rooms.Post(ctx, "board", "bob", "Bob Marley", "spam")
		req.NoError(err)
		audit.EXPECT().Record(gomock.Any(), "alice redact "+message.ID).Return(nil)

		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionRedact, Target: message.ID})

		req.NoError(err)
		req.Equal(domain.Succeeded(MsgRedacted), res)
		history, err := meeting.Rooms.History("board")
		req.NoError(err)
		req.Empty(history)
	})

	t.Run("should report a missing message", func(t *testing.T) {
		req := require.New(t)
		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionRedact, Target: "nope"})
		req.ErrorIs(err, errors.ErrMessageNotFound)
		req.Equal(domain.Failed(MsgMessageNotFound), res)
	})

	t.Run("should refuse an unknown action", func(t *testing.T) {
		req := require.New(t)
		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: "kick", Target: "carol"})
		req.ErrorIs(err, errors.ErrUnknownAction)
		req.Equal(domain.Failed(MsgUnknownAction), res)
	})

	t.Run("should keep the action when the audit write fails", func(t *testing.T) {
		req := require.New(t)
		audit.EXPECT().Record(gomock.Any(), "alice unblock carol").Return(fmt.Errorf("disk full"))

		res, err := svc.Moderate(ctx, alice, domain.ModerationCommand{Action: domain.ActionUnblock, Target: "carol"})

		req.NoError(err)
		req.True(res.Success)
		req.True(meeting.Gate.CanPost("carol"))
	})
}
