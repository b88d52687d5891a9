package repositories_test

import (
	"context"
	"fmt"
	"meeting-lab/mocks"
	"meeting-lab/repositories"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEnsureSchema_CreatesOnlyMissingTables(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockTableStore(ctrl)
	ctx := context.Background()

	// Given messages already exists while the other tables do not
	store.EXPECT().TableExists(ctx, repositories.TableMessages).Return(true, nil)
	store.EXPECT().TableExists(ctx, repositories.TableAudit).Return(false, nil)
	store.EXPECT().TableExists(ctx, repositories.TableQuorum).Return(false, nil)
	store.EXPECT().CreateTable(ctx, repositories.AuditSchema).Return(nil)
	store.EXPECT().CreateTable(ctx, repositories.QuorumSchema).Return(nil)

	req.NoError(repositories.EnsureSchema(ctx, store))
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockTableStore(ctrl)
	ctx := context.Background()
	boom := fmt.Errorf("store down")

	store.EXPECT().TableExists(ctx, repositories.TableMessages).Return(false, boom)

	req.ErrorIs(repositories.EnsureSchema(ctx, store), boom)
}
