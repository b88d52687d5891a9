package storage

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const sequenceBandwidth = 100

// BadgerStore implements the durable table log on top of BadgerDB.
//
// Keys:
//   - "table:{name}" holds the schema of a created table.
//   - "row:{name}:{sequence}:{pk}" holds one row. The 20-digit zero padded
//     sequence keeps prefix iteration in insertion order.
type BadgerStore struct {
	db        *badger.DB
	log       *slog.Logger
	mu        sync.Mutex
	sequences map[string]*badger.Sequence
	schemas   map[string]contract.Schema
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{
		db:        db,
		log:       log,
		sequences: make(map[string]*badger.Sequence),
		schemas:   make(map[string]contract.Schema),
	}
}

func tableKey(table string) []byte {
	return []byte("table:" + table)
}

func rowPrefix(table string) []byte {
	return []byte(fmt.Sprintf("row:%s:", table))
}

func (s *BadgerStore) TableExists(_ context.Context, table string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(tableKey(table))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, errors.Persistence("table exists", err)
	}
}

// CreateTable records the schema. Creating an existing table is a no-op.
func (s *BadgerStore) CreateTable(ctx context.Context, schema contract.Schema) error {
	exists, err := s.TableExists(ctx, schema.Table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	value, err := structpb.NewStruct(map[string]any{
		"ddl":         schema.DDL,
		"primary_key": schema.PrimaryKey,
		"columns":     lo.ToAnySlice(schema.Columns),
	})
	if err != nil {
		return errors.Persistence("encode schema", err)
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return errors.Persistence("encode schema", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tableKey(schema.Table), bytes)
	}); err != nil {
		return errors.Persistence("create table", err)
	}
	s.mu.Lock()
	s.schemas[schema.Table] = schema
	s.mu.Unlock()
	s.log.Info("Table created", "table", schema.Table)
	return nil
}

func (s *BadgerStore) Insert(ctx context.Context, table string, row contract.Row) error {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", errors.ErrTableMissing, table)
	}
	seq, err := s.sequence(table)
	if err != nil {
		return errors.Persistence("sequence", err)
	}
	next, err := seq.Next()
	if err != nil {
		return errors.Persistence("sequence", err)
	}
	value, err := structpb.NewStruct(row)
	if err != nil {
		return errors.Persistence("encode row", err)
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return errors.Persistence("encode row", err)
	}
	key := fmt.Sprintf("row:%s:%020d:%v", table, next, row[s.primaryKey(table)])
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	}); err != nil {
		return errors.Persistence("insert "+table, err)
	}
	return nil
}

// FetchAll scans the table prefix. Rows come back in insertion order.
func (s *BadgerStore) FetchAll(ctx context.Context, table string, filter map[string]string) ([]contract.Row, error) {
	var rows []contract.Row
	prefix := rowPrefix(table)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(v []byte) error {
				var value structpb.Struct
				if err := proto.Unmarshal(v, &value); err != nil {
					return fmt.Errorf("decode row %s: %w", it.Item().Key(), err)
				}
				row := contract.Row(value.AsMap())
				if Matches(row, filter) {
					rows = append(rows, row)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Persistence("fetch "+table, err)
	}
	return rows, nil
}

// Close releases the leased sequence ranges.
func (s *BadgerStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for table, seq := range s.sequences {
		if err := seq.Release(); err != nil {
			s.log.Warn("Failed to release sequence", "table", table, "error", err)
		}
	}
	s.sequences = make(map[string]*badger.Sequence)
}

func (s *BadgerStore) sequence(table string) (*badger.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq, ok := s.sequences[table]; ok {
		return seq, nil
	}
	seq, err := s.db.GetSequence([]byte("seq:"+table), sequenceBandwidth)
	if err != nil {
		return nil, err
	}
	s.sequences[table] = seq
	return seq, nil
}

func (s *BadgerStore) primaryKey(table string) string {
	s.mu.Lock()
	schema, ok := s.schemas[table]
	s.mu.Unlock()
	if ok {
		return schema.PrimaryKey
	}
	var pk string
	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tableKey(table))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			var value structpb.Struct
			if err := proto.Unmarshal(v, &value); err != nil {
				return err
			}
			pk = value.GetFields()["primary_key"].GetStringValue()
			return nil
		})
	})
	return pk
}

// Matches reports whether every filter column equals the row's string value.
func Matches(row contract.Row, filter map[string]string) bool {
	for column, expected := range filter {
		value, ok := row[column].(string)
		if !ok || value != expected {
			return false
		}
	}
	return true
}
