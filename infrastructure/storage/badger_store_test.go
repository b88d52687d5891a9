package storage

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

var notesSchema = contract.Schema{
	Table:      "notes",
	Columns:    []string{"uid", "timestamp", "room", "text"},
	PrimaryKey: "uid",
	DDL: `CREATE TABLE "notes" (
    "uid" TEXT NOT NULL,
    "timestamp" REAL NOT NULL,
    "room" TEXT NOT NULL,
    "text" TEXT NOT NULL,
    PRIMARY KEY("uid")
);`,
}

// SetupTestDB initializes a temporary Badger instance for testing
func SetupTestDB(t *testing.T) (*badger.DB, func()) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	return db, func() {
		db.Close()
	}
}

func TestBadgerStore_CreateTable(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	store := NewBadgerStore(db, slog.Default())
	defer store.Close()

	// Given no table
	exists, err := store.TableExists(ctx, "notes")
	req.NoError(err)
	req.False(exists)

	// When the table is created twice
	req.NoError(store.CreateTable(ctx, notesSchema))
	req.NoError(store.CreateTable(ctx, notesSchema))

	// Then it exists
	exists, err = store.TableExists(ctx, "notes")
	req.NoError(err)
	req.True(exists)
}

func TestBadgerStore_InsertAndFetch_KeepsInsertionOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	store := NewBadgerStore(db, slog.Default())
	defer store.Close()
	req.NoError(store.CreateTable(ctx, notesSchema))

	// Given rows inserted with decreasing timestamps
	rows := []contract.Row{
		{"uid": "c", "timestamp": 3.0, "room": "lobby", "text": "first"},
		{"uid": "b", "timestamp": 2.0, "room": "board", "text": "second"},
		{"uid": "a", "timestamp": 1.0, "room": "lobby", "text": "third"},
	}
	for _, row := range rows {
		req.NoError(store.Insert(ctx, "notes", row))
	}

	// When fetching the whole table
	all, err := store.FetchAll(ctx, "notes", nil)
	req.NoError(err)

	// Then insertion order wins over timestamps and identifiers
	req.Len(all, 3)
	req.Equal("first", all[0]["text"])
	req.Equal("second", all[1]["text"])
	req.Equal("third", all[2]["text"])
	req.Equal(3.0, all[0]["timestamp"])

	// When filtering by room
	lobby, err := store.FetchAll(ctx, "notes", map[string]string{"room": "lobby"})
	req.NoError(err)
	req.Len(lobby, 2)
	req.Equal("c", lobby[0]["uid"])
	req.Equal("a", lobby[1]["uid"])
}

func TestBadgerStore_Insert_MissingTable(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	store := NewBadgerStore(db, slog.Default())
	defer store.Close()

	err := store.Insert(context.Background(), "ghost", contract.Row{"uid": "x"})

	req.ErrorIs(err, errors.ErrTableMissing)
	req.ErrorIs(err, errors.ErrPersistence)
}

func TestBadgerStore_OrderSurvivesRestart(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()
	open := func() *badger.DB {
		db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
		req.NoError(err)
		return db
	}

	// Given a row written before a restart
	db := open()
	store := NewBadgerStore(db, slog.Default())
	req.NoError(store.CreateTable(ctx, notesSchema))
	req.NoError(store.Insert(ctx, "notes", contract.Row{"uid": "1", "timestamp": 1.0, "room": "lobby", "text": "before"}))
	store.Close()
	req.NoError(db.Close())

	// When another row is written after the restart
	db = open()
	defer db.Close()
	store = NewBadgerStore(db, slog.Default())
	defer store.Close()
	req.NoError(store.Insert(ctx, "notes", contract.Row{"uid": "2", "timestamp": 2.0, "room": "lobby", "text": "after"}))

	// Then both come back in order
	rows, err := store.FetchAll(ctx, "notes", map[string]string{"room": "lobby"})
	req.NoError(err)
	req.Len(rows, 2)
	req.Equal("before", rows[0]["text"])
	req.Equal("after", rows[1]["text"])
}
