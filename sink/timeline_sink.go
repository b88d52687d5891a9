package sink

import (
	"context"
	"meeting-lab/domain"
	"sync"
)

// Timeline records every frame it receives. It is the in-process viewer used by
// tests and the e2e harness.
type Timeline struct {
	mu     sync.Mutex
	frames []domain.Frame
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Send(_ context.Context, frame domain.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, frame)
	return nil
}

func (t *Timeline) Frames() []domain.Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Frame(nil), t.frames...)
}

// Messages returns the bodies of the frames of the given kind, in arrival order.
func (t *Timeline) Messages(kind domain.FrameKind) []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.Message
	for _, f := range t.frames {
		if f.Kind == kind && f.Message != nil {
			out = append(out, *f.Message)
		}
	}
	return out
}
