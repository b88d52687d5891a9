package runtime

import (
	"log/slog"
	"meeting-lab/domain"
	"sync"

	"github.com/google/uuid"
)

// OverflowPolicy decides what a full outbox does with a new message.
type OverflowPolicy string

const (
	DropOldest OverflowPolicy = "drop-oldest"
	Reject     OverflowPolicy = "reject"
)

// Outbox is the queue of one live viewer. Its own mutex guards the slice
// so that Drain can swap it out without losing a concurrent Publish.
type Outbox struct {
	mu      sync.Mutex
	pending []domain.Message
}

// push returns false when a message had to be dropped.
func (o *Outbox) push(m domain.Message, capacity int, policy OverflowPolicy) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if capacity <= 0 || len(o.pending) < capacity {
		o.pending = append(o.pending, m)
		return true
	}
	if policy == Reject {
		return false
	}
	copy(o.pending, o.pending[1:])
	o.pending[len(o.pending)-1] = m
	return false
}

func (o *Outbox) swap() []domain.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	return out
}

func (o *Outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Broker fans every accepted message out to the outboxes registered at that moment.
type Broker struct {
	mu       sync.RWMutex
	outboxes map[string]*Outbox
	capacity int
	policy   OverflowPolicy
	onDrop   func()
	log      *slog.Logger
}

// NewBroker builds a broker. A capacity of 0 leaves outboxes unbounded.
func NewBroker(capacity int, policy OverflowPolicy, log *slog.Logger) *Broker {
	if policy != Reject {
		policy = DropOldest
	}
	return &Broker{
		outboxes: make(map[string]*Outbox),
		capacity: capacity,
		policy:   policy,
		onDrop:   func() {},
		log:      log,
	}
}

// OnDrop registers the callback invoked for every message lost to overflow.
func (b *Broker) OnDrop(fn func()) {
	b.onDrop = fn
}

func (b *Broker) Subscribe() string {
	handle := uuid.NewString()
	b.mu.Lock()
	b.outboxes[handle] = &Outbox{}
	b.mu.Unlock()
	b.log.Debug("Outbox subscribed", "handle", handle)
	return handle
}

// Unsubscribe discards the outbox and anything still queued in it.
func (b *Broker) Unsubscribe(handle string) {
	b.mu.Lock()
	delete(b.outboxes, handle)
	b.mu.Unlock()
	b.log.Debug("Outbox unsubscribed", "handle", handle)
}

// Publish is called by the registry while it holds the room lock.
func (b *Broker) Publish(message domain.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for handle, outbox := range b.outboxes {
		if !outbox.push(message, b.capacity, b.policy) {
			b.onDrop()
			b.log.Warn("Outbox full, message dropped", "handle", handle, "policy", b.policy)
		}
	}
}

// Drain atomically takes every queued message of handle, oldest first.
func (b *Broker) Drain(handle string) []domain.Message {
	b.mu.RLock()
	outbox, ok := b.outboxes[handle]
	b.mu.RUnlock()
	if !ok {
		return nil
	}
	return outbox.swap()
}

func (b *Broker) Depth(handle string) int {
	b.mu.RLock()
	outbox, ok := b.outboxes[handle]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return outbox.len()
}

// Sessions is the number of registered outboxes.
func (b *Broker) Sessions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.outboxes)
}
