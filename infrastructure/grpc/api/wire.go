package api

import (
	"encoding/base64"

	"google.golang.org/protobuf/types/known/structpb"
)

// wireMessage is implemented by every request, response and frame. Payloads
// travel as google.protobuf.Struct over the default proto codec.
type wireMessage interface {
	toProto() *structpb.Struct
	fromProto(*structpb.Struct)
}

// Proto returns the payload actually sent on the wire for m.
func Proto(m wireMessage) *structpb.Struct {
	return m.toProto()
}

type fields map[string]*structpb.Value

func (f fields) proto() *structpb.Struct {
	return &structpb.Struct{Fields: f}
}

func str(v string) *structpb.Value  { return structpb.NewStringValue(v) }
func num(v float64) *structpb.Value { return structpb.NewNumberValue(v) }
func flag(v bool) *structpb.Value   { return structpb.NewBoolValue(v) }

func list(values []string) *structpb.Value {
	out := make([]*structpb.Value, len(values))
	for i, v := range values {
		out[i] = structpb.NewStringValue(v)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: out})
}

func object(f fields) *structpb.Value {
	return structpb.NewStructValue(f.proto())
}

func blob(data []byte) *structpb.Value {
	return structpb.NewStringValue(base64.StdEncoding.EncodeToString(data))
}

// reader gives typed access to a Struct. Missing keys read as zero values.
type reader struct {
	s *structpb.Struct
}

func (r reader) value(key string) *structpb.Value {
	return r.s.GetFields()[key]
}

func (r reader) has(key string) bool {
	_, ok := r.s.GetFields()[key]
	return ok
}

func (r reader) str(key string) string {
	return r.value(key).GetStringValue()
}

func (r reader) num(key string) float64 {
	return r.value(key).GetNumberValue()
}

func (r reader) int(key string) int {
	return int(r.value(key).GetNumberValue())
}

func (r reader) flag(key string) bool {
	return r.value(key).GetBoolValue()
}

func (r reader) list(key string) []string {
	values := r.value(key).GetListValue().GetValues()
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.GetStringValue()
	}
	return out
}

func (r reader) object(key string) reader {
	return reader{s: r.value(key).GetStructValue()}
}

func (r reader) blob(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(r.str(key))
	if err != nil {
		return nil
	}
	return data
}
