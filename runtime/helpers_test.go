package runtime

import (
	"context"
	"log/slog"
	"meeting-lab/infrastructure/storage"
	"meeting-lab/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *manualClock {
	return &manualClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
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

func newStore(t *testing.T) *storage.BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	store := storage.NewBadgerStore(db, slog.Default())
	t.Cleanup(func() {
		store.Close()
		_ = db.Close()
	})
	require.NoError(t, repositories.EnsureSchema(context.Background(), store))
	return store
}

func newMessageRepository(t *testing.T) repositories.MessageRepository {
	return repositories.NewMessageRepository(newStore(t), slog.Default())
}
