// Package domain contains core concepts of the meeting system.
// This file defines Message records and their validation rules.
// Messages are immutable once accepted by a room.
package domain

import (
	"meeting-lab/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single chat line owned by exactly one room.
type Message struct {
	ID       string
	At       time.Time
	Room     RoomID
	Sender   string
	RealName string
	Body     string
}

// NewMessage validates the body and assigns a fresh identifier.
func NewMessage(room RoomID, sender, realName, body string, at time.Time) (Message, error) {
	if strings.TrimSpace(body) == "" {
		return Message{}, errors.ErrEmptyMessage
	}
	if strings.TrimSpace(sender) == "" {
		return Message{}, errors.ErrInvalidIdentity
	}
	return Message{
		ID:       uuid.NewString(),
		At:       at,
		Room:     room,
		Sender:   sender,
		RealName: realName,
		Body:     body,
	}, nil
}

// Seconds returns the creation time as fractional seconds since epoch.
func (m Message) Seconds() float64 {
	return ToSeconds(m.At)
}

func ToSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

func FromSeconds(s float64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(s*float64(time.Second))).UTC()
}
