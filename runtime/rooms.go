package runtime

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/domain/event"
	"meeting-lab/errors"
	"meeting-lab/moderation"
	"meeting-lab/repositories"
	"strings"
	"sync"
	"time"
)

// FloodPolicy bounds the posting rate of a room.
type FloodPolicy struct {
	Max    int
	Window time.Duration
}

type roomEntry struct {
	mu   sync.Mutex
	room *domain.Room
}

// Rooms is the registry of channels. Rooms are created at startup only;
// every post to a room is serialized by that room's lock so that the
// persisted order, the history order and the fan-out order agree.
type Rooms struct {
	mu         sync.RWMutex
	order      []domain.RoomID
	rooms      map[domain.RoomID]*roomEntry
	frozen     bool
	repository repositories.IMessageRepository
	broker     contract.IBroker
	moderator  *moderation.Moderator
	events     chan<- event.DomainEvent
	clock      contract.Clock
	flood      FloodPolicy
	log        *slog.Logger
}

func NewRooms(repository repositories.IMessageRepository, broker contract.IBroker,
	events chan<- event.DomainEvent, clock contract.Clock, flood FloodPolicy, log *slog.Logger) *Rooms {
	return &Rooms{
		rooms:      make(map[domain.RoomID]*roomEntry),
		repository: repository,
		broker:     broker,
		events:     events,
		clock:      clock,
		flood:      flood,
		log:        log,
	}
}

// WithModerator enables the word filter on posts.
func (r *Rooms) WithModerator(m *moderation.Moderator) *Rooms {
	r.moderator = m
	return r
}

// CreateRoom registers a room and hydrates its history from the store.
func (r *Rooms) CreateRoom(ctx context.Context, id domain.RoomID, title, topic string) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.ErrValidation
	}
	history, err := r.repository.GetMessages(ctx, id)
	if err != nil {
		return errors.Persistence("load history", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.ErrRoomsFrozen
	}
	if _, ok := r.rooms[id]; ok {
		r.log.Info("Room already exists", "room", id)
		return nil
	}
	r.rooms[id] = &roomEntry{room: domain.NewRoom(id, title, topic, history)}
	r.order = append(r.order, id)
	r.log.Info("Room created", "room", id, "history", len(history))
	return nil
}

// Freeze closes the registry to new rooms. Called when the meeting starts.
func (r *Rooms) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Post validates, persists, appends and fans out one message.
// Nothing changes in memory when the store write fails.
func (r *Rooms) Post(ctx context.Context, roomID domain.RoomID, sender, displayName, body string) (domain.Message, error) {
	entry, ok := r.entry(roomID)
	if !ok {
		return domain.Message{}, errors.ErrRoomNotFound
	}
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := r.clock.Now()
	if !entry.room.Flood.Allow(now, r.flood.Max, r.flood.Window) {
		r.log.Warn("Post throttled", "room", roomID, "identity", sender)
		r.emit(event.PostRejected{Room: roomID, Sender: sender, At: now})
		return domain.Message{}, errors.ErrRateLimit
	}

	if r.moderator != nil {
		body, _ = r.moderator.Censor(body)
	}

	at := now
	if last := entry.room.LastAt(); at.Before(last) {
		at = last
	}
	message, err := domain.NewMessage(roomID, sender, displayName, body, at)
	if err != nil {
		return domain.Message{}, err
	}

	if err := r.repository.StoreMessage(ctx, message); err != nil {
		r.log.Error("Message not persisted", "room", roomID, "error", err)
		if errors.Is(err, errors.ErrPersistence) {
			return domain.Message{}, err
		}
		return domain.Message{}, errors.Persistence("store message", err)
	}

	entry.room.Append(message)
	entry.room.Flood.Record(now)
	r.broker.Publish(message)
	r.emit(event.MessagePosted{Message: message})
	return message, nil
}

// Redact removes a message from the live history of a room. The store keeps it.
func (r *Rooms) Redact(roomID domain.RoomID, messageID string) bool {
	return r.redact(roomID, messageID, "")
}

// RedactAnywhere looks for the message in every room, in declared order.
func (r *Rooms) RedactAnywhere(by, messageID string) (domain.RoomID, bool) {
	for _, id := range r.ids() {
		if r.redact(id, messageID, by) {
			return id, true
		}
	}
	return "", false
}

func (r *Rooms) redact(roomID domain.RoomID, messageID, by string) bool {
	entry, ok := r.entry(roomID)
	if !ok {
		return false
	}
	entry.mu.Lock()
	removed := entry.room.Remove(messageID)
	entry.mu.Unlock()

	if removed {
		r.log.Info("Message redacted", "room", roomID, "message", messageID)
		r.emit(event.MessageRedacted{Room: roomID, MessageID: messageID, By: by, At: r.clock.Now()})
	}
	return removed
}

// ListRooms returns the rooms in declared order.
func (r *Rooms) ListRooms() []domain.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomData, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id].room.Data())
	}
	return out
}

// History returns a copy of a room history.
func (r *Rooms) History(roomID domain.RoomID) ([]domain.Message, error) {
	entry, ok := r.entry(roomID)
	if !ok {
		return nil, errors.ErrRoomNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.room.Messages(), nil
}

// Welcome returns the synthetic greeting of a room.
func (r *Rooms) Welcome(roomID domain.RoomID) (domain.Message, error) {
	entry, ok := r.entry(roomID)
	if !ok {
		return domain.Message{}, errors.ErrRoomNotFound
	}
	return entry.room.Welcome(), nil
}

func (r *Rooms) entry(id domain.RoomID) (*roomEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	return e, ok
}

func (r *Rooms) ids() []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.RoomID(nil), r.order...)
}

// emit never blocks the caller; a full channel drops the event.
func (r *Rooms) emit(e event.DomainEvent) {
	if r.events == nil {
		return
	}
	select {
	case r.events <- e:
	default:
		r.log.Warn("Event channel full, dropping event", "room", e.RoomID())
	}
}
