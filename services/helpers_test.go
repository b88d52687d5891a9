package services

import (
	"context"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/domain"
	"meeting-lab/infrastructure/storage"
	"meeting-lab/repositories"
	"meeting-lab/runtime"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

const (
	password  = "Meeting-Password-42!"
	inviteURL = "https://meet.example.org/invite/"
)

var (
	alice = domain.Identity{Login: "alice", Name: "Alice Liddell", Admin: true}
	bob   = domain.Identity{Login: "bob", Name: "Bob Marley"}
	guest = domain.Identity{Login: "guest_1/bob", Name: "Visitor", Guest: true}

	hashOnce sync.Once
	hash     string
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func passwordHash(t *testing.T) string {
	hashOnce.Do(func() {
		var err error
		hash, err = auth.HashPassword(password)
		require.NoError(t, err)
	})
	return hash
}

func newTokens(t *testing.T) *auth.TokenManager {
	tokens, err := auth.NewTokenManager("services-test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

// newMeeting boots a meeting with two rooms over a real badger store.
func newMeeting(t *testing.T) (*runtime.Meeting, *manualClock) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	store := storage.NewBadgerStore(db, slog.Default())
	t.Cleanup(func() {
		store.Close()
		_ = db.Close()
	})
	require.NoError(t, repositories.EnsureSchema(context.Background(), store))

	clock := &manualClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	roster := domain.NewRoster([]domain.Member{
		{Login: "alice", Name: "Alice Liddell", PasswordHash: passwordHash(t)},
		{Login: "bob", Name: "Bob Marley", PasswordHash: passwordHash(t)},
		{Login: "carol", Name: "Carol Danvers"},
	}, []string{"alice"})

	config := runtime.DefaultConfig()
	config.InviteURL = inviteURL
	config.Tick = 5 * time.Millisecond
	meeting := runtime.NewMeeting(config, roster, runtime.Dependencies{
		Messages: repositories.NewMessageRepository(store, slog.Default()),
		Quorum:   repositories.NewQuorumRepository(store, clock),
		Clock:    clock,
	}, slog.Default())
	require.NoError(t, meeting.Boot(context.Background(), []runtime.RoomSpec{
		{ID: "lobby", Title: "Lobby", Topic: "General talk"},
		{ID: "board", Title: "Board", Topic: "Resolutions"},
	}))
	return meeting, clock
}
