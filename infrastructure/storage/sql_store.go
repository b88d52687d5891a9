package storage

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/contract"
	"meeting-lab/errors"
	"regexp"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLStore implements the durable table log on SQLite through GORM.
// Tables are created from the schema DDL; rows are plain maps.
type SQLStore struct {
	db  *gorm.DB
	log *slog.Logger
}

func OpenSQLStore(path string, log *slog.Logger) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Persistence("open sqlite", err)
	}
	return NewSQLStore(db, log), nil
}

func NewSQLStore(db *gorm.DB, log *slog.Logger) *SQLStore {
	return &SQLStore{db: db, log: log}
}

func (s *SQLStore) TableExists(ctx context.Context, table string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(table), nil
}

func (s *SQLStore) CreateTable(ctx context.Context, schema contract.Schema) error {
	if s.db.WithContext(ctx).Migrator().HasTable(schema.Table) {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(schema.DDL).Error; err != nil {
		return errors.Persistence("create table "+schema.Table, err)
	}
	s.log.Info("Table created", "table", schema.Table)
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, table string, row contract.Row) error {
	if !identifier.MatchString(table) {
		return fmt.Errorf("%w: %q", errors.ErrTableMissing, table)
	}
	if err := s.db.WithContext(ctx).Table(table).Create(map[string]any(row)).Error; err != nil {
		return errors.Persistence("insert "+table, err)
	}
	return nil
}

// FetchAll orders by rowid, which SQLite assigns in insertion order.
func (s *SQLStore) FetchAll(ctx context.Context, table string, filter map[string]string) ([]contract.Row, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", errors.ErrTableMissing, table)
	}
	query := s.db.WithContext(ctx).Table(table)
	if len(filter) > 0 {
		conditions := make(map[string]any, len(filter))
		for column, value := range filter {
			if !identifier.MatchString(column) {
				return nil, fmt.Errorf("%w: invalid column %q", errors.ErrValidation, column)
			}
			conditions[column] = value
		}
		query = query.Where(conditions)
	}
	var raw []map[string]any
	if err := query.Order("rowid").Find(&raw).Error; err != nil {
		return nil, errors.Persistence("fetch "+table, err)
	}
	rows := make([]contract.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, normalize(r))
	}
	return rows, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// normalize maps driver types onto the string/float64 row contract.
func normalize(r map[string]any) contract.Row {
	row := make(contract.Row, len(r))
	for k, v := range r {
		switch value := v.(type) {
		case []byte:
			row[k] = string(value)
		case int64:
			row[k] = float64(value)
		case float32:
			row[k] = float64(value)
		default:
			row[k] = value
		}
	}
	return row
}
