//go:generate go run go.uber.org/mock/mockgen -source=quorum.go -destination=../mocks/mock_quorum_repository.go -package=mocks
package repositories

import (
	"context"
	"meeting-lab/contract"
	"meeting-lab/domain"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IQuorumRepository interface {
	StoreMember(ctx context.Context, identity string) error
	GetMembers(ctx context.Context) ([]string, error)
}

type QuorumRepository struct {
	store contract.TableStore
	now   func() time.Time
}

func NewQuorumRepository(store contract.TableStore, clock contract.Clock) QuorumRepository {
	return QuorumRepository{store: store, now: clock.Now}
}

func (q QuorumRepository) StoreMember(ctx context.Context, identity string) error {
	return q.store.Insert(ctx, TableQuorum, contract.Row{
		"uid":       uuid.NewString(),
		"timestamp": domain.ToSeconds(q.now()),
		"identity":  identity,
	})
}

// GetMembers returns distinct identities in first-credited order.
func (q QuorumRepository) GetMembers(ctx context.Context) ([]string, error) {
	rows, err := q.store.FetchAll(ctx, TableQuorum, nil)
	if err != nil {
		return nil, err
	}
	return lo.Uniq(lo.Map(rows, func(row contract.Row, _ int) string {
		return stringOf(row, "identity")
	})), nil
}
