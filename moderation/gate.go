package moderation

import (
	"log/slog"
	"meeting-lab/domain"
	"sort"
	"sync"
)

// Redactor removes a message from the live history of a room.
type Redactor interface {
	Redact(roomID domain.RoomID, messageID string) bool
	RedactAnywhere(by, messageID string) (domain.RoomID, bool)
}

// Gate holds the blocked and banned sets. It is not persisted.
// The caller is responsible for checking that the actor is an administrator.
type Gate struct {
	mu       sync.RWMutex
	blocked  map[string]struct{}
	banned   map[string]struct{}
	redactor Redactor
	log      *slog.Logger
}

func NewGate(redactor Redactor, log *slog.Logger) *Gate {
	return &Gate{
		blocked:  make(map[string]struct{}),
		banned:   make(map[string]struct{}),
		redactor: redactor,
		log:      log,
	}
}

// Block returns whether the identity was newly blocked.
func (g *Gate) Block(identity string) bool {
	return g.add(g.blocked, identity, "blocked")
}

func (g *Gate) Unblock(identity string) bool {
	return g.remove(g.blocked, identity, "unblocked")
}

func (g *Gate) Ban(identity string) bool {
	return g.add(g.banned, identity, "banned")
}

func (g *Gate) Unban(identity string) bool {
	return g.remove(g.banned, identity, "unbanned")
}

// CanPost is false for blocked and banned identities.
func (g *Gate) CanPost(identity string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, blocked := g.blocked[identity]
	_, banned := g.banned[identity]
	return !blocked && !banned
}

// CanView is false only for banned identities.
func (g *Gate) CanView(identity string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, banned := g.banned[identity]
	return !banned
}

func (g *Gate) IsBlocked(identity string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.blocked[identity]
	return ok
}

func (g *Gate) RedactMessage(roomID domain.RoomID, messageID string) bool {
	return g.redactor.Redact(roomID, messageID)
}

// RedactAnywhere removes the message from whichever room holds it and
// returns that room.
func (g *Gate) RedactAnywhere(by, messageID string) (domain.RoomID, bool) {
	room, found := g.redactor.RedactAnywhere(by, messageID)
	if !found {
		g.log.Debug("Nothing to redact", "message", messageID, "by", by)
	}
	return room, found
}

func (g *Gate) Blocked() []string {
	return g.list(g.blocked)
}

func (g *Gate) Banned() []string {
	return g.list(g.banned)
}

func (g *Gate) add(set map[string]struct{}, identity, verb string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := set[identity]; ok {
		return false
	}
	set[identity] = struct{}{}
	g.log.Info("Identity "+verb, "identity", identity)
	return true
}

func (g *Gate) remove(set map[string]struct{}, identity, verb string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := set[identity]; !ok {
		return false
	}
	delete(set, identity)
	g.log.Info("Identity "+verb, "identity", identity)
	return true
}

func (g *Gate) list(set map[string]struct{}) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(set))
	for identity := range set {
		out = append(out, identity)
	}
	sort.Strings(out)
	return out
}
