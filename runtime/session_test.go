package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/repositories"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []domain.Frame
	fail   error
}

func (r *recordingSink) Send(_ context.Context, frame domain.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recordingSink) ofKind(kind domain.FrameKind) []domain.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Frame
	for _, f := range r.frames {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

type result struct {
	outcome Outcome
	err     error
}

var roster = domain.NewRoster([]domain.Member{
	{Login: "A", Name: "Alice"},
	{Login: "B", Name: "Bob"},
	{Login: "admin", Name: "Admin"},
}, []string{"admin"})

func newMeeting(t *testing.T, opts ...func(*Config)) *Meeting {
	t.Helper()
	store := newStore(t)
	config := DefaultConfig()
	config.Tick = 5 * time.Millisecond
	config.PresenceEvery = 2
	config.PresenceForceEvery = 1000
	config.MetricInterval = 0
	for _, opt := range opts {
		opt(&config)
	}
	m := NewMeeting(config, roster, Dependencies{
		Messages: repositories.NewMessageRepository(store, slog.Default()),
		Quorum:   repositories.NewQuorumRepository(store, contract.SystemClock{}),
	}, slog.Default())
	require.NoError(t, m.Boot(context.Background(), []RoomSpec{{ID: "lobby", Title: "Lobby", Topic: "General talk"}}))
	return m
}

func start(ctx context.Context, s *Session) <-chan result {
	out := make(chan result, 1)
	go func() {
		outcome, err := s.Run(ctx)
		out <- result{outcome, err}
	}()
	return out
}

func waitLive(t *testing.T, s *Session) {
	require.Eventually(t, func() bool { return s.State() == Live }, time.Second, time.Millisecond)
}

func TestSession_ViewerBeforeAndAfterPost(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Given a viewer connected before the post
	before := &recordingSink{}
	beforeSession := m.NewSession(domain.Identity{Login: "B", Name: "Bob"}, before)
	beforeDone := start(ctx, beforeSession)
	waitLive(t, beforeSession)

	// When A posts hello
	_, err := m.Rooms.Post(ctx, "lobby", "A", "Alice", "hello")
	req.NoError(err)

	// Then the early viewer receives exactly one new-message frame
	req.Eventually(func() bool { return len(before.ofKind(domain.FrameMessage)) == 1 }, time.Second, time.Millisecond)
	frame := before.ofKind(domain.FrameMessage)[0]
	req.Equal("hello", frame.Message.Body)
	req.Equal("A", frame.Message.Sender)

	// And a viewer connected afterwards sees it only in the replay
	after := &recordingSink{}
	afterSession := m.NewSession(domain.Identity{Login: "admin", Name: "Admin", Admin: true}, after)
	afterDone := start(ctx, afterSession)
	waitLive(t, afterSession)
	time.Sleep(50 * time.Millisecond)

	req.Empty(after.ofKind(domain.FrameMessage))
	history := after.ofKind(domain.FrameHistory)
	req.Len(history, 2)
	req.Equal("Welcome to the lobby channel. General talk", history[0].Message.Body)
	req.Equal("hello", history[1].Message.Body)
	req.Len(after.ofKind(domain.FrameRoom), 1)
	req.Len(before.ofKind(domain.FrameMessage), 1)

	cancel()
	req.Equal(Disconnected, (<-beforeDone).outcome)
	req.Equal(Disconnected, (<-afterDone).outcome)
	req.Zero(m.Broker.Sessions())
}

func TestSession_DeniedWhenBanned(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	m.Gate.Ban("B")

	outcome, err := m.NewSession(domain.Identity{Login: "B"}, &recordingSink{}).Run(context.Background())

	req.Equal(Denied, outcome)
	req.ErrorIs(err, errors.ErrBanned)
	req.Zero(m.Broker.Sessions())
}

func TestSession_DeniedWithoutIdentity(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)

	outcome, err := m.NewSession(domain.Identity{}, &recordingSink{}).Run(context.Background())

	req.Equal(Denied, outcome)
	req.ErrorIs(err, errors.ErrUnauthorized)
}

func TestSession_BanMidSessionCloses(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	session := m.NewSession(domain.Identity{Login: "B"}, &recordingSink{})
	done := start(context.Background(), session)
	waitLive(t, session)
	req.Equal(1, m.Broker.Sessions())

	// When B is banned while live
	m.Gate.Ban("B")

	// Then the session ends on the next tick and its outbox is gone
	select {
	case res := <-done:
		req.Equal(BannedOut, res.outcome)
		req.NoError(res.err)
	case <-time.After(time.Second):
		req.Fail("session was not closed after ban")
	}
	req.Equal(Closed, session.State())
	req.Zero(m.Broker.Sessions())
}

func TestSession_SinkFailureDisconnects(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	sink := &recordingSink{fail: fmt.Errorf("peer gone")}

	outcome, err := m.NewSession(domain.Identity{Login: "A"}, sink).Run(context.Background())

	req.Equal(Disconnected, outcome)
	req.NoError(err)
	req.Zero(m.Broker.Sessions())
}

func TestSession_PresenceSnapshot(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	m.Gate.Block("B")
	_, err := m.Quorum.Add(context.Background(), "A")
	req.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	session := m.NewSession(domain.Identity{Login: "admin", Admin: true}, sink)
	done := start(ctx, session)

	// Then the first evaluation emits a snapshot
	req.Eventually(func() bool { return len(sink.ofKind(domain.FramePresence)) >= 1 }, time.Second, time.Millisecond)
	snapshot := sink.ofKind(domain.FramePresence)[0].Presence
	req.Equal([]string{"admin"}, snapshot.Current)
	req.Equal(1, snapshot.Attendees)
	req.Equal(3, snapshot.Members)
	req.Equal(1, snapshot.Required)
	req.Equal([]string{"A"}, snapshot.Quorum)
	req.Equal([]string{"B"}, snapshot.Blocked)

	// And an unchanged attendance is not emitted again
	time.Sleep(50 * time.Millisecond)
	req.Len(sink.ofKind(domain.FramePresence), 1)

	cancel()
	<-done
	session.Close()
	req.Equal(Closed, session.State())
}

func TestSession_PresenceReemittedWhenAttendanceChanges(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	session := m.NewSession(domain.Identity{Login: "admin", Admin: true}, sink)
	done := start(ctx, session)
	req.Eventually(func() bool { return len(sink.ofKind(domain.FramePresence)) == 1 }, time.Second, time.Millisecond)

	// When A starts attending
	m.Tracker.Heartbeat("A")

	// Then a second snapshot carries the new attendee set
	req.Eventually(func() bool { return len(sink.ofKind(domain.FramePresence)) == 2 }, time.Second, time.Millisecond)
	frames := sink.ofKind(domain.FramePresence)
	req.Equal([]string{"admin"}, frames[0].Presence.Current)
	req.Equal([]string{"A", "admin"}, frames[1].Presence.Current)
	req.Equal(2, frames[1].Presence.Attendees)

	// And the new set is not repeated while it holds
	time.Sleep(50 * time.Millisecond)
	req.Len(sink.ofKind(domain.FramePresence), 2)

	cancel()
	<-done
}

func TestSession_PresenceForcedWhenUnchanged(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t, func(c *Config) { c.PresenceForceEvery = 4 })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	done := start(ctx, m.NewSession(domain.Identity{Login: "admin", Admin: true}, sink))

	// Then the same attendance is sent again on every forced tick
	req.Eventually(func() bool { return len(sink.ofKind(domain.FramePresence)) >= 3 }, time.Second, time.Millisecond)
	for _, frame := range sink.ofKind(domain.FramePresence) {
		req.Equal([]string{"admin"}, frame.Presence.Current)
	}

	cancel()
	<-done
}

func TestSession_BanOnTickSkipsQueuedMessages(t *testing.T) {
	req := require.New(t)
	m := newMeeting(t, func(c *Config) { c.Tick = time.Hour })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	session := m.NewSession(domain.Identity{Login: "B", Name: "Bob"}, sink)
	done := start(ctx, session)
	waitLive(t, session)

	// Given a message waiting in B's outbox when B gets banned
	_, err := m.Rooms.Post(ctx, "lobby", "A", "Alice", "after the replay")
	req.NoError(err)
	m.Gate.Ban("B")

	// When the next tick runs
	outcome, closed := session.tick(ctx)

	// Then the session closes without delivering the queued message
	req.True(closed)
	req.Equal(BannedOut, outcome)
	req.Empty(sink.ofKind(domain.FrameMessage))
	req.Equal(Closed, session.State())
	req.Zero(m.Broker.Sessions())

	cancel()
	<-done
}
