// Package presence tracks who is online (heartbeats) and who counts toward quorum.
// The two notions are independent: presence is transient, quorum is persisted.
package presence

import (
	"meeting-lab/contract"
	"meeting-lab/domain"
	"sort"
	"sync"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Tracker maps identity -> last heartbeat. Entries are never removed, they only age out.
type Tracker struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time
	timeout  time.Duration
	clock    contract.Clock
}

func NewTracker(clock contract.Clock, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{lastSeen: make(map[string]time.Time), timeout: timeout, clock: clock}
}

func (t *Tracker) Heartbeat(identity string) {
	now := t.clock.Now()
	t.mu.Lock()
	t.lastSeen[identity] = now
	t.mu.Unlock()
}

// CurrentlyAttending returns, sorted, every identity whose last heartbeat is younger than the timeout.
func (t *Tracker) CurrentlyAttending() []string {
	now := t.clock.Now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	current := make([]string, 0, len(t.lastSeen))
	for identity, seen := range t.lastSeen {
		if now.Sub(seen) < t.timeout {
			current = append(current, identity)
		}
	}
	sort.Strings(current)
	return current
}

// Seen is the number of identities that ever sent a heartbeat.
func (t *Tracker) Seen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.lastSeen)
}

// Guests counts guest identities ever seen, used to number new guest logins.
func (t *Tracker) Guests() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for identity := range t.lastSeen {
		if domain.IsGuest(identity) {
			n++
		}
	}
	return n
}

func (t *Tracker) Timeout() time.Duration {
	return t.timeout
}
