package workers

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/domain/event"
	"meeting-lab/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Fanout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)
	evt := event.MessagePosted{Message: domain.Message{ID: "m1", Room: "lobby"}}

	// Then both sinks consume the event, a failing one does not stop the other
	first.EXPECT().Consume(gomock.Any(), evt).Return(fmt.Errorf("index down"))
	second.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	// When an event is handled
	NewEventFanout(log, nil, time.Second, first, second).Fanout(context.Background(), evt)
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mocks.NewMockEventSink(ctrl)

	// Given a sink blocking until its context ends
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		})

	start := time.Now()
	NewEventFanout(log, nil, 20*time.Millisecond, sink).
		Fanout(context.Background(), event.PostRejected{Room: "lobby"})

	// Then the fan-out gives up after the timeout
	req.Less(time.Since(start), time.Second)
}

func TestEventFanout_RunConsumesChannel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mocks.NewMockEventSink(ctrl)
	events := make(chan event.DomainEvent, 2)
	consumed := make(chan struct{}, 2)

	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, event.DomainEvent) error {
			consumed <- struct{}{}
			return nil
		}).Times(2)

	events <- event.PostRejected{Room: "lobby"}
	events <- event.PostRejected{Room: "board"}
	close(events)

	// When the channel is closed after two events
	err := NewEventFanout(slog.Default(), events, time.Second, sink).Run(context.Background())

	// Then the worker returns cleanly after consuming them
	req.NoError(err)
	req.Len(consumed, 2)
}
