package presence

import (
	"context"
	"log/slog"
	"meeting-lab/errors"
	"meeting-lab/repositories"
	"sort"
	"sync"
)

// Quorum is the persisted, grow-only set of identities credited as present.
//
// Writes go to the store before the in-memory set is considered durable.
// A pending identity is reserved so that concurrent adds of the same
// identity do not write twice; a failed write releases the reservation.
type Quorum struct {
	mu         sync.Mutex
	members    map[string]struct{}
	pending    map[string]chan struct{}
	repository repositories.IQuorumRepository
	log        *slog.Logger
}

func NewQuorum(repository repositories.IQuorumRepository, log *slog.Logger) *Quorum {
	return &Quorum{
		members:    make(map[string]struct{}),
		pending:    make(map[string]chan struct{}),
		repository: repository,
		log:        log,
	}
}

// Load hydrates the set from the store. Called once at boot.
func (q *Quorum) Load(ctx context.Context) error {
	members, err := q.repository.GetMembers(ctx)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range members {
		q.members[m] = struct{}{}
	}
	q.log.Info("Quorum loaded", "members", len(q.members))
	return nil
}

// Add credits identity. It returns false without error when the identity was already a member.
func (q *Quorum) Add(ctx context.Context, identity string) (bool, error) {
	for {
		q.mu.Lock()
		if _, ok := q.members[identity]; ok {
			q.mu.Unlock()
			return false, nil
		}
		wait, inFlight := q.pending[identity]
		if !inFlight {
			done := make(chan struct{})
			q.pending[identity] = done
			q.mu.Unlock()
			return q.commit(ctx, identity, done)
		}
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

func (q *Quorum) commit(ctx context.Context, identity string, done chan struct{}) (bool, error) {
	err := q.repository.StoreMember(ctx, identity)

	q.mu.Lock()
	delete(q.pending, identity)
	if err == nil {
		q.members[identity] = struct{}{}
	}
	q.mu.Unlock()
	close(done)

	if err != nil {
		q.log.Error("Quorum persistence failed, addition rolled back", "identity", identity, "error", err)
		if errors.Is(err, errors.ErrPersistence) {
			return false, err
		}
		return false, errors.Persistence("quorum add", err)
	}
	return true, nil
}

func (q *Quorum) Contains(identity string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.members[identity]
	return ok
}

// Members returns a sorted copy of the set.
func (q *Quorum) Members() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.members))
	for m := range q.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (q *Quorum) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.members)
}
