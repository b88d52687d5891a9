package presence

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/errors"
	"meeting-lab/mocks"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestQuorum_Add_IsIdempotent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockIQuorumRepository(ctrl)
	ctx := context.Background()
	quorum := NewQuorum(repository, slog.Default())

	// Then the identity is persisted exactly once
	repository.EXPECT().StoreMember(gomock.Any(), "alice").Return(nil).Times(1)

	added, err := quorum.Add(ctx, "alice")
	req.NoError(err)
	req.True(added)

	added, err = quorum.Add(ctx, "alice")
	req.NoError(err)
	req.False(added)

	req.Equal([]string{"alice"}, quorum.Members())
}

func TestQuorum_Add_RollsBackOnPersistenceFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockIQuorumRepository(ctrl)
	ctx := context.Background()
	quorum := NewQuorum(repository, slog.Default())

	// Given the store fails once, then recovers
	gomock.InOrder(
		repository.EXPECT().StoreMember(gomock.Any(), "bob").Return(fmt.Errorf("disk full")),
		repository.EXPECT().StoreMember(gomock.Any(), "bob").Return(nil),
	)

	// When adding fails
	added, err := quorum.Add(ctx, "bob")

	// Then memory is untouched
	req.ErrorIs(err, errors.ErrPersistence)
	req.False(added)
	req.False(quorum.Contains("bob"))
	req.Zero(quorum.Size())

	// And a retry succeeds
	added, err = quorum.Add(ctx, "bob")
	req.NoError(err)
	req.True(added)
	req.True(quorum.Contains("bob"))
}

func TestQuorum_Add_ConcurrentSameIdentityWritesOnce(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockIQuorumRepository(ctrl)
	quorum := NewQuorum(repository, slog.Default())
	repository.EXPECT().StoreMember(gomock.Any(), "carol").Return(nil).Times(1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	addedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := quorum.Add(context.Background(), "carol")
			if err == nil && added {
				mu.Lock()
				addedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	req.Equal(1, addedCount)
	req.Equal([]string{"carol"}, quorum.Members())
}

func TestQuorum_Load(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repository := mocks.NewMockIQuorumRepository(ctrl)
	quorum := NewQuorum(repository, slog.Default())
	repository.EXPECT().GetMembers(gomock.Any()).Return([]string{"zed", "amy"}, nil)

	req.NoError(quorum.Load(context.Background()))

	req.Equal([]string{"amy", "zed"}, quorum.Members())
}
