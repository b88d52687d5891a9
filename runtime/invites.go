package runtime

import (
	"fmt"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type guestCounter interface {
	Guests() int
}

type viewGate interface {
	CanView(identity string) bool
}

// Invites holds the single-use guest passes. They live in memory only.
type Invites struct {
	mu      sync.Mutex
	pending map[string]domain.Invite
	issued  int
	ttl     time.Duration
	guests  guestCounter
	gate    viewGate
	clock   contract.Clock
	log     *slog.Logger
}

func NewInvites(guests guestCounter, gate viewGate, clock contract.Clock, ttl time.Duration, log *slog.Logger) *Invites {
	return &Invites{
		pending: make(map[string]domain.Invite),
		ttl:     ttl,
		guests:  guests,
		gate:    gate,
		clock:   clock,
		log:     log,
	}
}

// Create issues a code on behalf of a registered member.
func (i *Invites) Create(inviter domain.Identity, name string) (domain.Invite, error) {
	if inviter.Guest || domain.IsGuest(inviter.Login) {
		return domain.Invite{}, errors.ErrGuest
	}
	if !i.gate.CanView(inviter.Login) {
		return domain.Invite{}, errors.ErrBanned
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invite{}, fmt.Errorf("%w: invitee name is required", errors.ErrValidation)
	}

	invite := domain.Invite{
		Code:        ulid.Make().String(),
		CreatedAt:   i.clock.Now(),
		Inviter:     inviter.Login,
		InviterName: inviter.Name,
		Name:        name,
	}
	i.mu.Lock()
	i.pending[invite.Code] = invite
	i.mu.Unlock()
	i.log.Info("Invite created", "inviter", inviter.Login, "invitee", name)
	return invite, nil
}

// Redeem consumes the code and returns the guest identity it grants.
// A code can be redeemed once.
func (i *Invites) Redeem(code string) (domain.Identity, error) {
	i.mu.Lock()
	invite, ok := i.pending[code]
	if ok && invite.Expired(i.clock.Now(), i.ttl) {
		delete(i.pending, code)
		ok = false
	}
	if !ok {
		i.mu.Unlock()
		return domain.Identity{}, errors.ErrInviteNotFound
	}
	delete(i.pending, code)
	n := max(i.guests.Guests(), i.issued) + 1
	i.issued = n
	i.mu.Unlock()

	identity := domain.Identity{
		Login: fmt.Sprintf("%s%d/%s", domain.GuestPrefix, n, invite.Inviter),
		Name:  invite.Name,
		Guest: true,
	}
	i.log.Info("Invite redeemed", "identity", identity.Login, "inviter", invite.Inviter)
	return identity, nil
}

// Sweep drops invites older than the configured time to live and returns how many.
func (i *Invites) Sweep(now time.Time) int {
	if i.ttl <= 0 {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	removed := 0
	for code, invite := range i.pending {
		if invite.Expired(now, i.ttl) {
			delete(i.pending, code)
			removed++
		}
	}
	if removed > 0 {
		i.log.Info("Expired invites swept", "count", removed)
	}
	return removed
}

// Pending lists the outstanding invites, oldest first.
func (i *Invites) Pending() []domain.Invite {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]domain.Invite, 0, len(i.pending))
	for _, invite := range i.pending {
		out = append(out, invite)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Code < out[b].Code })
	return out
}
