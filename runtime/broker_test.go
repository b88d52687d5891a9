package runtime

import (
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func msg(id string) domain.Message {
	return domain.Message{ID: id, Room: "lobby", Sender: "alice", Body: id}
}

func TestBroker_DrainThenPublishThenDrain(t *testing.T) {
	req := require.New(t)
	broker := NewBroker(0, DropOldest, slog.Default())
	handle := broker.Subscribe()

	broker.Publish(msg("m1"))
	req.Equal([]domain.Message{msg("m1")}, broker.Drain(handle))

	// When a message is published right after a drain
	broker.Publish(msg("m2"))

	// Then the next drain returns it
	req.Equal([]domain.Message{msg("m2")}, broker.Drain(handle))
	req.Empty(broker.Drain(handle))
}

func TestBroker_ConcurrentPublishAndDrainLosesNothing(t *testing.T) {
	req := require.New(t)
	broker := NewBroker(0, DropOldest, slog.Default())
	handle := broker.Subscribe()
	const total = 2000

	var received []domain.Message
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				received = append(received, broker.Drain(handle)...)
				return
			default:
				received = append(received, broker.Drain(handle)...)
			}
		}
	}()

	for i := 0; i < total; i++ {
		broker.Publish(msg(fmt.Sprintf("m%d", i)))
	}
	close(done)
	wg.Wait()

	// Then every message arrives exactly once, in publish order
	req.Len(received, total)
	ids := lo.Map(received, func(m domain.Message, _ int) string { return m.ID })
	for i, id := range ids {
		req.Equal(fmt.Sprintf("m%d", i), id)
	}
}

func TestBroker_LateSubscriberMissesEarlierMessages(t *testing.T) {
	req := require.New(t)
	broker := NewBroker(0, DropOldest, slog.Default())
	early := broker.Subscribe()

	broker.Publish(msg("m1"))
	late := broker.Subscribe()

	req.Len(broker.Drain(early), 1)
	req.Empty(broker.Drain(late))
	req.Equal(2, broker.Sessions())
}

func TestBroker_UnsubscribeDiscardsOutbox(t *testing.T) {
	req := require.New(t)
	broker := NewBroker(0, DropOldest, slog.Default())
	handle := broker.Subscribe()
	broker.Publish(msg("m1"))

	broker.Unsubscribe(handle)

	req.Nil(broker.Drain(handle))
	req.Zero(broker.Depth(handle))
	req.Zero(broker.Sessions())
}

func TestBroker_Overflow(t *testing.T) {
	tests := []struct {
		name     string
		policy   OverflowPolicy
		expected []string
	}{
		{name: "drop oldest keeps the newest", policy: DropOldest, expected: []string{"m2", "m3"}},
		{name: "reject keeps the oldest", policy: Reject, expected: []string{"m1", "m2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			broker := NewBroker(2, tt.policy, slog.Default())
			drops := 0
			broker.OnDrop(func() { drops++ })
			handle := broker.Subscribe()

			broker.Publish(msg("m1"))
			broker.Publish(msg("m2"))
			broker.Publish(msg("m3"))

			req.Equal(2, broker.Depth(handle))
			ids := lo.Map(broker.Drain(handle), func(m domain.Message, _ int) string { return m.ID })
			req.Equal(tt.expected, ids)
			req.Equal(1, drops)
		})
	}
}
