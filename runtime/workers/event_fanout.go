package workers

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain/event"
	"time"
)

// EventFanout broadcasts domain events to the side-effect sinks (search index, counters).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability or retries. Each sink call is bounded by sinkTimeout so a slow
// sink cannot stall the room registry behind a full channel.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fan-out")
			return nil
		}
	}
}

// Fanout One sink for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink failed to consume event", "room", evt.RoomID(), "error", err)
		}
		cancel()
	}
}
