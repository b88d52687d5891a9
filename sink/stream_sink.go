package sink

import (
	"context"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/infrastructure/grpc/api"
	"net"
	"time"
)

// SendFunc writes one wire frame to a peer. gRPC streams and websocket
// connections both fit: stream.Send and conn.WriteJSON.
type SendFunc func(frame *api.Frame) error

// StreamSink adapts a transport write to contract.FrameSink.
// Writes run on the caller's goroutine, so nothing is left writing to the
// transport once Send returns. A transport with a write deadline gets one of
// deliveryTimeout before each frame; a gRPC stream is bounded by its context.
type StreamSink struct {
	send            SendFunc
	setDeadline     func(time.Time) error
	deliveryTimeout time.Duration
	log             *slog.Logger
}

func NewStreamSink(log *slog.Logger, send SendFunc, deliveryTimeout time.Duration) *StreamSink {
	return &StreamSink{send: send, deliveryTimeout: deliveryTimeout, log: log}
}

// WithWriteDeadline bounds each write with the transport's own deadline,
// as websocket.Conn.SetWriteDeadline does.
func (s *StreamSink) WithWriteDeadline(set func(time.Time) error) *StreamSink {
	s.setDeadline = set
	return s
}

func (s *StreamSink) Send(ctx context.Context, frame domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.setDeadline != nil && s.deliveryTimeout > 0 {
		if err := s.setDeadline(time.Now().Add(s.deliveryTimeout)); err != nil {
			return err
		}
	}
	err := s.send(api.FromFrame(frame))
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		s.log.Warn("Frame delivery timed out", "kind", frame.Kind, "timeout", s.deliveryTimeout)
	}
	return err
}
