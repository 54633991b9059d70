package service

import (
	"context"
	"errors"
	"testing"

	"curator/models"

	"github.com/stretchr/testify/require"
)

func TestDirectoryService_Sync_PropagatesRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepository(mockUserRepo)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUserID", ctx, int64(1)).Return(nil, errors.New("connection reset"))

	directory := NewDirectoryService(mockFactory)
	err := directory.Sync(ctx, models.Member{UserID: 1, Username: "alice"})

	require.ErrorContains(t, err, "connection reset")
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestLedgerService_Apply_PropagatesBeginError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(errors.New("pool exhausted"))

	ledger := NewLedgerService(mockFactory)
	_, err := ledger.Apply(ctx, models.ReactionEvent{
		ReactorID:       2,
		AuthorID:        1,
		AttachmentCount: 1,
		Kind:            models.VoteKindUpvote,
		Direction:       models.VoteDirectionAdd,
	})

	require.ErrorContains(t, err, "pool exhausted")
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestQueryService_TopN_PropagatesRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepository(mockUserRepo)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("TopBy", ctx, models.RankByScore, 3).
		Return(nil, errors.New("relation does not exist"))

	query := NewQueryService(mockFactory)
	_, err := query.TopN(ctx, 3, models.RankByScore)

	require.ErrorContains(t, err, "relation does not exist")
	mockUserRepo.AssertExpectations(t)
	mockUoW.AssertNotCalled(t, "Commit")
}
