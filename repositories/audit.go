//go:generate go run go.uber.org/mock/mockgen -source=audit.go -destination=../mocks/mock_audit_repository.go -package=mocks
package repositories

import (
	"context"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IAuditRepository interface {
	Record(ctx context.Context, action string) error
	GetEntries(ctx context.Context) ([]AuditEntry, error)
}

type AuditEntry struct {
	ID     string
	At     time.Time
	Action string
}

type AuditRepository struct {
	store contract.TableStore
	now   func() time.Time
}

func NewAuditRepository(store contract.TableStore, clock contract.Clock) AuditRepository {
	return AuditRepository{store: store, now: clock.Now}
}

func (a AuditRepository) Record(ctx context.Context, action string) error {
	return a.store.Insert(ctx, TableAudit, contract.Row{
		"uid":       uuid.NewString(),
		"timestamp": domain.ToSeconds(a.now()),
		"action":    action,
	})
}

func (a AuditRepository) GetEntries(ctx context.Context) ([]AuditEntry, error) {
	rows, err := a.store.FetchAll(ctx, TableAudit, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row contract.Row, _ int) AuditEntry {
		return AuditEntry{
			ID:     stringOf(row, "uid"),
			At:     domain.FromSeconds(floatOf(row, "timestamp")),
			Action: stringOf(row, "action"),
		}
	}), nil
}
