package domain

import (
	"fmt"
	"time"
)

type RoomID string

// Room holds the metadata, the ordered history and the flood window of a channel.
// Access is serialized by the runtime registry.
type Room struct {
	ID       RoomID
	Title    string
	Topic    string
	messages []Message
	Flood    FloodWindow
}

func NewRoom(id RoomID, title, topic string, history []Message) *Room {
	return &Room{ID: id, Title: title, Topic: topic, messages: history}
}

// Append adds an accepted message at the tail of the history.
func (r *Room) Append(message Message) {
	r.messages = append(r.messages, message)
}

// Remove deletes the first message with the given identifier.
// It returns false when no message matches.
func (r *Room) Remove(messageID string) bool {
	for i, m := range r.messages {
		if m.ID == messageID {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Messages returns a copy of the history in insertion order.
func (r *Room) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Room) Len() int {
	return len(r.messages)
}

// LastAt is the creation time of the newest message, zero for an empty room.
func (r *Room) LastAt() time.Time {
	if len(r.messages) == 0 {
		return time.Time{}
	}
	return r.messages[len(r.messages)-1].At
}

func (r *Room) Data() RoomData {
	return RoomData{ID: r.ID, Title: r.Title, Topic: r.Topic}
}

// Welcome is the synthetic first line streamed for every room.
func (r *Room) Welcome() Message {
	return Message{
		ID:   fmt.Sprintf("welcome-%s", r.ID),
		Room: r.ID,
		Body: fmt.Sprintf("Welcome to the %s channel. %s", r.ID, r.Topic),
	}
}

type RoomData struct {
	ID    RoomID `json:"id"`
	Title string `json:"title"`
	Topic string `json:"topic"`
}
