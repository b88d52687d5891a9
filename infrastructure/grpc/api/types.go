// Package api declares the meeting.v1.MeetingService wire surface: message types,
// the service descriptor and a typed client. Every message is carried as a
// google.protobuf.Struct by the default proto codec; the JSON tags serve the
// HTTP gateway.
package api

import (
	"meeting-lab/domain"
)

type Empty struct{}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RedeemRequest struct {
	Code string `json:"code"`
}

type LoginResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Token    string          `json:"token,omitempty"`
	Identity domain.Identity `json:"identity"`
}

type QuorumView struct {
	Present  []string `json:"present"`
	Required int      `json:"required"`
	Reached  bool     `json:"reached"`
}

type MeResponse struct {
	Login  string     `json:"login"`
	Name   string     `json:"name"`
	Admin  bool       `json:"admin"`
	Guest  bool       `json:"guest"`
	Quorum QuorumView `json:"quorum"`
}

type PostRequest struct {
	Room string `json:"room"`
	Body string `json:"message"`
}

// CommandResponse is the uniform answer of command calls.
type CommandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ModerateRequest struct {
	Action string `json:"action"`
	Target string `json:"target"`
}

type ProxyRequest struct {
	Members []string `json:"members"`
}

type ProxyResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Accepted []string `json:"accepted"`
	Invalid  []string `json:"invalid"`
}

type InviteRequest struct {
	Name string `json:"name"`
}

type InviteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	URL     string `json:"url,omitempty"`
}

type ExportResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Room  string `json:"room,omitempty"`
	Lang  string `json:"lang,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type SearchHit struct {
	ID        string  `json:"msgid"`
	Room      string  `json:"channel"`
	Sender    string  `json:"sender"`
	RealName  string  `json:"realname"`
	Body      string  `json:"message"`
	Lang      string  `json:"lang"`
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

type SearchResponse struct {
	Total uint64      `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

type ConnectRequest struct{}

// Message is the wire form of a chat line, shared by history and live frames.
type Message struct {
	ID        string  `json:"msgid"`
	Timestamp float64 `json:"timestamp"`
	Channel   string  `json:"channel"`
	Sender    string  `json:"sender"`
	RealName  string  `json:"realname"`
	Body      string  `json:"message"`
}

// Frame is one record of the live stream. Exactly one payload is set.
type Frame struct {
	Kind     string                   `json:"kind"`
	Room     *domain.RoomData         `json:"room_data,omitempty"`
	Message  *Message                 `json:"message,omitempty"`
	Presence *domain.PresenceSnapshot `json:"presence,omitempty"`
}

func FromFrame(f domain.Frame) *Frame {
	out := &Frame{Kind: string(f.Kind), Room: f.Room, Presence: f.Presence}
	if f.Message != nil {
		out.Message = &Message{
			ID:        f.Message.ID,
			Timestamp: f.Message.Seconds(),
			Channel:   string(f.Message.Room),
			Sender:    f.Message.Sender,
			RealName:  f.Message.RealName,
			Body:      f.Message.Body,
		}
	}
	return out
}
