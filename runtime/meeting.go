// Package runtime holds the live state of a meeting: rooms, fan-out, sessions and invites.
// Everything hangs off one Meeting value built at startup and passed by reference;
// there is no package-level state.
package runtime

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/domain/event"
	"meeting-lab/moderation"
	"meeting-lab/observability"
	"meeting-lab/presence"
	"meeting-lab/repositories"
	"meeting-lab/runtime/workers"
	"time"
)

type Config struct {
	Tick               time.Duration
	PresenceEvery      int
	PresenceForceEvery int
	PresenceTimeout    time.Duration
	Flood              FloodPolicy
	OutboxCapacity     int
	Overflow           OverflowPolicy
	InviteTTL          time.Duration
	SweepInterval      time.Duration
	MetricInterval     time.Duration
	RestartInterval    time.Duration
	SinkTimeout        time.Duration
	EventBufferSize    int
	InviteURL          string
}

func DefaultConfig() Config {
	return Config{
		Tick:               250 * time.Millisecond,
		PresenceEvery:      10,
		PresenceForceEvery: 30,
		PresenceTimeout:    presence.DefaultTimeout,
		Flood:              FloodPolicy{Max: 5, Window: time.Second},
		Overflow:           DropOldest,
		SweepInterval:      time.Minute,
		MetricInterval:     30 * time.Second,
		RestartInterval:    200 * time.Millisecond,
		SinkTimeout:        2 * time.Second,
		EventBufferSize:    256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.PresenceEvery <= 0 {
		c.PresenceEvery = d.PresenceEvery
	}
	if c.PresenceForceEvery <= 0 {
		c.PresenceForceEvery = d.PresenceForceEvery
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = d.SinkTimeout
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = d.EventBufferSize
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	return c
}

// RoomSpec is a room as declared in the meeting file.
type RoomSpec struct {
	ID    domain.RoomID
	Title string
	Topic string
}

// Dependencies are the collaborators a Meeting does not own.
type Dependencies struct {
	Messages  repositories.IMessageRepository
	Quorum    repositories.IQuorumRepository
	Clock     contract.Clock
	Moderator *moderation.Moderator
}

// Meeting is the application context shared by every service and every session.
type Meeting struct {
	Rooms   *Rooms
	Broker  *Broker
	Tracker *presence.Tracker
	Quorum  *presence.Quorum
	Gate    *moderation.Gate
	Invites *Invites
	Roster  domain.Roster
	Monitor *observability.MonitoringManager

	config     Config
	clock      contract.Clock
	events     chan event.DomainEvent
	sinks      []contract.EventSink
	supervisor *workers.Supervisor
	log        *slog.Logger
}

func NewMeeting(config Config, roster domain.Roster, deps Dependencies, log *slog.Logger) *Meeting {
	config = config.withDefaults()
	clock := deps.Clock
	if clock == nil {
		clock = contract.SystemClock{}
	}

	events := make(chan event.DomainEvent, config.EventBufferSize)
	monitor := observability.NewMonitoringManager(log)
	broker := NewBroker(config.OutboxCapacity, config.Overflow, log)
	broker.OnDrop(monitor.IncrOutboxDrops)
	rooms := NewRooms(deps.Messages, broker, events, clock, config.Flood, log).WithModerator(deps.Moderator)
	tracker := presence.NewTracker(clock, config.PresenceTimeout)
	gate := moderation.NewGate(rooms, log)

	m := &Meeting{
		Rooms:      rooms,
		Broker:     broker,
		Tracker:    tracker,
		Quorum:     presence.NewQuorum(deps.Quorum, log),
		Gate:       gate,
		Invites:    NewInvites(tracker, gate, clock, config.InviteTTL, log),
		Roster:     roster,
		Monitor:    monitor,
		config:     config,
		clock:      clock,
		events:     events,
		supervisor: workers.NewSupervisor(log).WithRestartInterval(config.RestartInterval),
		log:        log,
	}
	monitor.WithGauges(func() (int, int, int) {
		return broker.Sessions(), len(tracker.CurrentlyAttending()), m.Quorum.Size()
	})
	return m
}

// Boot creates the declared rooms, closes the registry and loads the quorum set.
func (m *Meeting) Boot(ctx context.Context, rooms []RoomSpec) error {
	for _, r := range rooms {
		if err := m.Rooms.CreateRoom(ctx, r.ID, r.Title, r.Topic); err != nil {
			return err
		}
	}
	m.Rooms.Freeze()
	if err := m.Quorum.Load(ctx); err != nil {
		return err
	}
	m.log.Info("Meeting booted", "rooms", len(rooms), "members", m.Roster.Total())
	return nil
}

// Add registers event sinks. Called before Start.
func (m *Meeting) Add(sinks ...contract.EventSink) {
	m.sinks = append(m.sinks, sinks...)
}

// Start runs the supervised workers and blocks until ctx is done or Stop is called.
func (m *Meeting) Start(ctx context.Context) {
	sinks := append([]contract.EventSink{m.Monitor}, m.sinks...)
	m.supervisor.Add(workers.NewEventFanout(m.log, m.events, m.config.SinkTimeout, sinks...))
	if m.config.InviteTTL > 0 {
		m.supervisor.Add(workers.NewInviteSweeper(m.log, m.Invites, m.clock, m.config.SweepInterval))
	}
	if m.config.MetricInterval > 0 {
		m.supervisor.Add(workers.NewTelemetryWorker(m.log, m.config.MetricInterval, m.Monitor))
	}

	m.log.Info("Starting meeting and all supervised workers")
	m.supervisor.Run(ctx)
}

func (m *Meeting) Stop() {
	m.log.Info("Requesting meeting shutdown")
	m.supervisor.Stop()
}

func (m *Meeting) Config() Config {
	return m.config
}

func (m *Meeting) Clock() contract.Clock {
	return m.clock
}

// NewSession prepares a live session for an authenticated identity.
func (m *Meeting) NewSession(identity domain.Identity, sink contract.FrameSink) *Session {
	return newSession(m, identity, sink)
}

// Snapshot builds a presence frame payload from an attendance list.
func (m *Meeting) Snapshot(current []string, admin bool) domain.PresenceSnapshot {
	snapshot := domain.PresenceSnapshot{
		Current:   current,
		Attendees: len(current),
		Seen:      m.Tracker.Seen(),
		Members:   m.Roster.Total(),
		Required:  domain.RequiredQuorum(m.Roster.Total()),
		Quorum:    m.Quorum.Members(),
	}
	if admin {
		snapshot.Blocked = m.Gate.Blocked()
		snapshot.Banned = m.Gate.Banned()
	}
	return snapshot
}
