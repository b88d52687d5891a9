package services

import (
	"context"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Send(context.Context, domain.Frame) error { return nil }

func TestChatService_Post(t *testing.T) {
	meeting, _ := newMeeting(t)
	svc := NewChatService(meeting, slog.Default())
	ctx := context.Background()

	t.Run("should post to an existing room", func(t *testing.T) {
		req := require.New(t)
		res, err := svc.Post(ctx, bob, "lobby", "hello")
		req.NoError(err)
		req.Equal(domain.Succeeded(MsgSent), res)
	})

	t.Run("should refuse an unknown room", func(t *testing.T) {
		req := require.New(t)
		res, err := svc.Post(ctx, bob, "attic", "hello")
		req.ErrorIs(err, errors.ErrRoomNotFound)
		req.Equal(domain.Failed(MsgNoRoom), res)
	})

	t.Run("should refuse an empty body", func(t *testing.T) {
		req := require.New(t)
		res, err := svc.Post(ctx, bob, "lobby", "   ")
		req.ErrorIs(err, errors.ErrEmptyMessage)
		req.Equal(MsgEmptyBody, res.Message)
	})

	t.Run("should refuse a blocked identity", func(t *testing.T) {
		req := require.New(t)
		meeting.Gate.Block("carol")
		defer meeting.Gate.Unblock("carol")

		res, err := svc.Post(ctx, domain.Identity{Login: "carol"}, "lobby", "hi")

		req.ErrorIs(err, errors.ErrBlocked)
		req.Equal(MsgBlocked, res.Message)
	})
}

func TestChatService_Post_Throttled(t *testing.T) {
	req := require.New(t)
	meeting, clock := newMeeting(t)
	svc := NewChatService(meeting, slog.Default())
	ctx := context.Background()

	// Given the room already received its five posts for this second
	for i := 0; i < 5; i++ {
		_, err := svc.Post(ctx, bob, "board", "motion")
		req.NoError(err)
	}

	// When a sixth post arrives in the same window
	res, err := svc.Post(ctx, alice, "board", "second")

	// Then it is throttled
	req.ErrorIs(err, errors.ErrRateLimit)
	req.Equal(MsgThrottled, res.Message)

	// And accepted once the window has passed
	clock.Advance(2 * time.Second)
	_, err = svc.Post(ctx, alice, "board", "second")
	req.NoError(err)
}

func TestChatService_Connect_CreditsMembers(t *testing.T) {
	req := require.New(t)
	meeting, _ := newMeeting(t)
	svc := NewChatService(meeting, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	outcome, err := svc.Connect(ctx, bob, nopSink{})
	req.NoError(err)
	req.Equal(runtime.Disconnected, outcome)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel2()
	_, err = svc.Connect(ctx2, guest, nopSink{})
	req.NoError(err)

	// Then only the roster member is credited toward quorum
	req.Equal([]string{"bob"}, meeting.Quorum.Members())
}

func TestChatService_Connect_DeniesBanned(t *testing.T) {
	req := require.New(t)
	meeting, _ := newMeeting(t)
	svc := NewChatService(meeting, slog.Default())
	meeting.Gate.Ban("bob")

	outcome, err := svc.Connect(context.Background(), bob, nopSink{})

	req.ErrorIs(err, errors.ErrBanned)
	req.Equal(runtime.Denied, outcome)
	req.Empty(meeting.Quorum.Members())
}
