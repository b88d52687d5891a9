package api

import (
	"meeting-lab/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

func (*Empty) toProto() *structpb.Struct { return fields{}.proto() }
func (*Empty) fromProto(*structpb.Struct) {}

func (*ConnectRequest) toProto() *structpb.Struct { return fields{}.proto() }
func (*ConnectRequest) fromProto(*structpb.Struct) {}

func (m *LoginRequest) toProto() *structpb.Struct {
	return fields{"login": str(m.Login), "password": str(m.Password)}.proto()
}

func (m *LoginRequest) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Login, m.Password = r.str("login"), r.str("password")
}

func (m *RedeemRequest) toProto() *structpb.Struct {
	return fields{"code": str(m.Code)}.proto()
}

func (m *RedeemRequest) fromProto(s *structpb.Struct) {
	m.Code = reader{s}.str("code")
}

func identityFields(id domain.Identity) fields {
	return fields{"login": str(id.Login), "name": str(id.Name), "admin": flag(id.Admin), "guest": flag(id.Guest)}
}

func identityOf(r reader) domain.Identity {
	return domain.Identity{Login: r.str("login"), Name: r.str("name"), Admin: r.flag("admin"), Guest: r.flag("guest")}
}

func (m *LoginResponse) toProto() *structpb.Struct {
	return fields{
		"success":  flag(m.Success),
		"message":  str(m.Message),
		"token":    str(m.Token),
		"identity": object(identityFields(m.Identity)),
	}.proto()
}

func (m *LoginResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Success = r.flag("success")
	m.Message = r.str("message")
	m.Token = r.str("token")
	m.Identity = identityOf(r.object("identity"))
}

func (m *MeResponse) toProto() *structpb.Struct {
	return fields{
		"login": str(m.Login),
		"name":  str(m.Name),
		"admin": flag(m.Admin),
		"guest": flag(m.Guest),
		"quorum": object(fields{
			"present":  list(m.Quorum.Present),
			"required": num(float64(m.Quorum.Required)),
			"reached":  flag(m.Quorum.Reached),
		}),
	}.proto()
}

func (m *MeResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Login, m.Name = r.str("login"), r.str("name")
	m.Admin, m.Guest = r.flag("admin"), r.flag("guest")
	q := r.object("quorum")
	m.Quorum = QuorumView{Present: q.list("present"), Required: q.int("required"), Reached: q.flag("reached")}
}

func (m *PostRequest) toProto() *structpb.Struct {
	return fields{"room": str(m.Room), "message": str(m.Body)}.proto()
}

func (m *PostRequest) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Room, m.Body = r.str("room"), r.str("message")
}

func (m *CommandResponse) toProto() *structpb.Struct {
	return fields{"success": flag(m.Success), "message": str(m.Message)}.proto()
}

func (m *CommandResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Success, m.Message = r.flag("success"), r.str("message")
}

func (m *ModerateRequest) toProto() *structpb.Struct {
	return fields{"action": str(m.Action), "target": str(m.Target)}.proto()
}

func (m *ModerateRequest) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Action, m.Target = r.str("action"), r.str("target")
}

func (m *ProxyRequest) toProto() *structpb.Struct {
	return fields{"members": list(m.Members)}.proto()
}

func (m *ProxyRequest) fromProto(s *structpb.Struct) {
	m.Members = reader{s}.list("members")
}

func (m *ProxyResponse) toProto() *structpb.Struct {
	return fields{
		"success":  flag(m.Success),
		"message":  str(m.Message),
		"accepted": list(m.Accepted),
		"invalid":  list(m.Invalid),
	}.proto()
}

func (m *ProxyResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Success, m.Message = r.flag("success"), r.str("message")
	m.Accepted, m.Invalid = r.list("accepted"), r.list("invalid")
}

func (m *InviteRequest) toProto() *structpb.Struct {
	return fields{"name": str(m.Name)}.proto()
}

func (m *InviteRequest) fromProto(s *structpb.Struct) {
	m.Name = reader{s}.str("name")
}

func (m *InviteResponse) toProto() *structpb.Struct {
	return fields{"success": flag(m.Success), "message": str(m.Message), "code": str(m.Code), "url": str(m.URL)}.proto()
}

func (m *InviteResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Success, m.Message = r.flag("success"), r.str("message")
	m.Code, m.URL = r.str("code"), r.str("url")
}

func (m *ExportResponse) toProto() *structpb.Struct {
	return fields{"name": str(m.Name), "content_type": str(m.ContentType), "data": blob(m.Data)}.proto()
}

func (m *ExportResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Name, m.ContentType, m.Data = r.str("name"), r.str("content_type"), r.blob("data")
}

func (m *SearchRequest) toProto() *structpb.Struct {
	return fields{"query": str(m.Query), "room": str(m.Room), "lang": str(m.Lang), "limit": num(float64(m.Limit))}.proto()
}

func (m *SearchRequest) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Query, m.Room, m.Lang, m.Limit = r.str("query"), r.str("room"), r.str("lang"), r.int("limit")
}

func (m *SearchResponse) toProto() *structpb.Struct {
	hits := make([]*structpb.Value, len(m.Hits))
	for i, h := range m.Hits {
		hits[i] = object(fields{
			"msgid":     str(h.ID),
			"channel":   str(h.Room),
			"sender":    str(h.Sender),
			"realname":  str(h.RealName),
			"message":   str(h.Body),
			"lang":      str(h.Lang),
			"timestamp": num(h.Timestamp),
			"score":     num(h.Score),
		})
	}
	return fields{
		"total": num(float64(m.Total)),
		"hits":  structpb.NewListValue(&structpb.ListValue{Values: hits}),
	}.proto()
}

func (m *SearchResponse) fromProto(s *structpb.Struct) {
	r := reader{s}
	m.Total = uint64(r.num("total"))
	m.Hits = nil
	for _, v := range r.value("hits").GetListValue().GetValues() {
		h := reader{v.GetStructValue()}
		m.Hits = append(m.Hits, SearchHit{
			ID:        h.str("msgid"),
			Room:      h.str("channel"),
			Sender:    h.str("sender"),
			RealName:  h.str("realname"),
			Body:      h.str("message"),
			Lang:      h.str("lang"),
			Timestamp: h.num("timestamp"),
			Score:     h.num("score"),
		})
	}
}

func (m *Frame) toProto() *structpb.Struct {
	out := fields{"kind": str(m.Kind)}
	if m.Room != nil {
		out["room_data"] = object(fields{"id": str(string(m.Room.ID)), "title": str(m.Room.Title), "topic": str(m.Room.Topic)})
	}
	if m.Message != nil {
		out["message"] = object(fields{
			"msgid":     str(m.Message.ID),
			"timestamp": num(m.Message.Timestamp),
			"channel":   str(m.Message.Channel),
			"sender":    str(m.Message.Sender),
			"realname":  str(m.Message.RealName),
			"message":   str(m.Message.Body),
		})
	}
	if p := m.Presence; p != nil {
		out["presence"] = object(fields{
			"current":   list(p.Current),
			"attendees": num(float64(p.Attendees)),
			"max":       num(float64(p.Seen)),
			"members":   num(float64(p.Members)),
			"required":  num(float64(p.Required)),
			"quorum":    list(p.Quorum),
			"blocked":   list(p.Blocked),
			"banned":    list(p.Banned),
		})
	}
	return out.proto()
}

func (m *Frame) fromProto(s *structpb.Struct) {
	r := reader{s}
	*m = Frame{Kind: r.str("kind")}
	if r.has("room_data") {
		room := r.object("room_data")
		m.Room = &domain.RoomData{ID: domain.RoomID(room.str("id")), Title: room.str("title"), Topic: room.str("topic")}
	}
	if r.has("message") {
		msg := r.object("message")
		m.Message = &Message{
			ID:        msg.str("msgid"),
			Timestamp: msg.num("timestamp"),
			Channel:   msg.str("channel"),
			Sender:    msg.str("sender"),
			RealName:  msg.str("realname"),
			Body:      msg.str("message"),
		}
	}
	if r.has("presence") {
		p := r.object("presence")
		m.Presence = &domain.PresenceSnapshot{
			Current:   p.list("current"),
			Attendees: p.int("attendees"),
			Seen:      p.int("max"),
			Members:   p.int("members"),
			Required:  p.int("required"),
			Quorum:    p.list("quorum"),
			Blocked:   p.list("blocked"),
			Banned:    p.list("banned"),
		}
	}
}
