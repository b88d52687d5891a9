package domain

type FrameKind string

const (
	FrameRoom     FrameKind = "room_data"
	FrameHistory  FrameKind = "history"
	FrameMessage  FrameKind = "message"
	FramePresence FrameKind = "presence"
)

// Frame is one record of the live stream. Exactly one payload is set, matching Kind.
type Frame struct {
	Kind     FrameKind
	Room     *RoomData
	Message  *Message
	Presence *PresenceSnapshot
}

// PresenceSnapshot is emitted periodically on the live stream.
// Blocked and Banned are only filled for administrators.
type PresenceSnapshot struct {
	Current   []string `json:"current"`
	Attendees int      `json:"attendees"`
	Seen      int      `json:"max"`
	Members   int      `json:"members"`
	Required  int      `json:"required"`
	Quorum    []string `json:"quorum"`
	Blocked   []string `json:"blocked,omitempty"`
	Banned    []string `json:"banned,omitempty"`
}

func RoomFrame(data RoomData) Frame {
	return Frame{Kind: FrameRoom, Room: &data}
}

func HistoryFrame(m Message) Frame {
	return Frame{Kind: FrameHistory, Message: &m}
}

func MessageFrame(m Message) Frame {
	return Frame{Kind: FrameMessage, Message: &m}
}

func PresenceFrame(p PresenceSnapshot) Frame {
	return Frame{Kind: FramePresence, Presence: &p}
}
