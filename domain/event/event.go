package event

import (
	"meeting-lab/domain"
	"time"
)

// DomainEvent is produced by the runtime after a state change and consumed
// by side-effect sinks (search index, counters). Losing one never breaks the core.
type DomainEvent interface {
	RoomID() domain.RoomID
	OccurredAt() time.Time
}

type MessagePosted struct {
	Message domain.Message
}

func (m MessagePosted) RoomID() domain.RoomID { return m.Message.Room }

func (m MessagePosted) OccurredAt() time.Time { return m.Message.At }

type MessageRedacted struct {
	Room      domain.RoomID
	MessageID string
	By        string
	At        time.Time
}

func (m MessageRedacted) RoomID() domain.RoomID { return m.Room }

func (m MessageRedacted) OccurredAt() time.Time { return m.At }

// PostRejected is emitted when flood control drops a post.
type PostRejected struct {
	Room   domain.RoomID
	Sender string
	At     time.Time
}

func (p PostRejected) RoomID() domain.RoomID { return p.Room }

func (p PostRejected) OccurredAt() time.Time { return p.At }
