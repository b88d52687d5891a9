package runtime

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

type SessionState int32

const (
	Connecting SessionState = iota
	StreamingHistory
	Live
	Closed
)

func (s SessionState) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case StreamingHistory:
		return "STREAMING_HISTORY"
	case Live:
		return "LIVE"
	default:
		return "CLOSED"
	}
}

// Outcome tells how a session reached Closed.
type Outcome string

const (
	Denied       Outcome = "denied"
	Disconnected Outcome = "disconnected"
	BannedOut    Outcome = "banned"
)

// Session is the per-connection loop: history replay, then a fixed tick that
// drains the outbox, heartbeats and periodically emits presence.
// No lock is held across the tick wait or a sink write.
type Session struct {
	meeting  *Meeting
	identity domain.Identity
	sink     contract.FrameSink
	log      *slog.Logger

	state     atomic.Int32
	handle    string
	closeOnce sync.Once
	replayed  map[string]struct{}

	ticks       int
	lastPresent []string
	emitted     bool
}

func newSession(m *Meeting, identity domain.Identity, sink contract.FrameSink) *Session {
	return &Session{
		meeting:  m,
		identity: identity,
		sink:     sink,
		log:      m.log.With("identity", identity.Login),
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run drives the session until the peer goes away, ctx is cancelled or the identity is banned.
// Transport faults are not errors: they end the session with Disconnected.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	if s.identity.Login == "" {
		s.state.Store(int32(Closed))
		return Denied, errors.ErrUnauthorized
	}
	if !s.meeting.Gate.CanView(s.identity.Login) {
		s.state.Store(int32(Closed))
		s.log.Info("Session denied")
		return Denied, errors.ErrBanned
	}

	s.handle = s.meeting.Broker.Subscribe()
	s.meeting.Monitor.IncrSessionsOpened()
	defer s.Close()
	s.log.Info("Session opened", "handle", s.handle)

	s.state.Store(int32(StreamingHistory))
	if err := s.streamHistory(ctx); err != nil {
		s.log.Debug("History replay interrupted", "error", err)
		return Disconnected, nil
	}

	s.state.Store(int32(Live))
	ticker := time.NewTicker(s.meeting.config.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return Disconnected, nil
		case <-ticker.C:
			outcome, done := s.tick(ctx)
			if done {
				return outcome, nil
			}
		}
	}
}

// Close unsubscribes the outbox. Safe to call more than once and from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.state.Store(int32(Closed))
		if s.handle != "" {
			s.meeting.Broker.Unsubscribe(s.handle)
			s.meeting.Monitor.IncrSessionsClosed()
		}
		s.log.Info("Session closed")
	})
}

func (s *Session) streamHistory(ctx context.Context) error {
	s.replayed = make(map[string]struct{})
	for _, data := range s.meeting.Rooms.ListRooms() {
		if err := s.sink.Send(ctx, domain.RoomFrame(data)); err != nil {
			return err
		}
		welcome, err := s.meeting.Rooms.Welcome(data.ID)
		if err != nil {
			return err
		}
		if err := s.sink.Send(ctx, domain.HistoryFrame(welcome)); err != nil {
			return err
		}
		history, err := s.meeting.Rooms.History(data.ID)
		if err != nil {
			return err
		}
		for _, m := range history {
			s.replayed[m.ID] = struct{}{}
			if err := s.sink.Send(ctx, domain.HistoryFrame(m)); err != nil {
				return err
			}
		}
	}
	return nil
}

// tick performs one live step: ban check, drain, heartbeat, presence.
func (s *Session) tick(ctx context.Context) (Outcome, bool) {
	if !s.meeting.Gate.CanView(s.identity.Login) {
		s.log.Info("Identity banned, closing session")
		s.Close()
		return BannedOut, true
	}

	for _, m := range s.drain() {
		if err := s.sink.Send(ctx, domain.MessageFrame(m)); err != nil {
			return Disconnected, true
		}
	}

	s.meeting.Tracker.Heartbeat(s.identity.Login)

	s.ticks++
	if s.ticks%s.meeting.config.PresenceEvery != 0 {
		return "", false
	}
	current := s.meeting.Tracker.CurrentlyAttending()
	forced := s.ticks%s.meeting.config.PresenceForceEvery == 0
	if s.emitted && !forced && slices.Equal(current, s.lastPresent) {
		return "", false
	}
	s.emitted = true
	s.lastPresent = current
	if err := s.sink.Send(ctx, domain.PresenceFrame(s.meeting.Snapshot(current, s.identity.Admin))); err != nil {
		return Disconnected, true
	}
	return "", false
}

// drain skips messages already delivered by the replay: the outbox is
// registered before the history is read, so the first drain may overlap it.
func (s *Session) drain() []domain.Message {
	pending := s.meeting.Broker.Drain(s.handle)
	if s.replayed == nil {
		return pending
	}
	fresh := pending[:0]
	for _, m := range pending {
		if _, ok := s.replayed[m.ID]; !ok {
			fresh = append(fresh, m)
		}
	}
	s.replayed = nil
	return fresh
}
