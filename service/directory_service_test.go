package service

import (
	"context"
	"testing"

	"curator/events"
	"curator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryService_Sync_CreatesZeroedAccount(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.Sync(ctx, models.Member{UserID: 1, Username: "alice"}))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Zero(t, user.UpvotesEarned)
	assert.Zero(t, user.DownvotesEarned)
	assert.Zero(t, user.Score)
	assert.Zero(t, user.VotesCast)

	require.Len(t, factory.published, 1)
	created, ok := factory.published[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), created.UserID)
}

func TestDirectoryService_Sync_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	member := models.Member{UserID: 1, Username: "alice"}
	require.NoError(t, directory.Sync(ctx, member))

	// Earn some votes, then sync again: counters must not drift
	factory.repo.users[1].UpvotesEarned = 3
	factory.repo.users[1].Score = 3

	require.NoError(t, directory.Sync(ctx, member))
	require.NoError(t, directory.Sync(ctx, member))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	assert.Equal(t, int64(3), user.UpvotesEarned)
	assert.Equal(t, int64(3), user.Score)

	// Only the original create published an event
	assert.Len(t, factory.published, 1)
}

func TestDirectoryService_Sync_RenamesWithoutTouchingCounters(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.Sync(ctx, models.Member{UserID: 1, Username: "alice"}))
	factory.repo.users[1].DownvotesEarned = 2
	factory.repo.users[1].Score = -2

	require.NoError(t, directory.Sync(ctx, models.Member{UserID: 1, Username: "alicia"}))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	assert.Equal(t, "alicia", user.Username)
	assert.Equal(t, int64(2), user.DownvotesEarned)
	assert.Equal(t, int64(-2), user.Score)
}

func TestDirectoryService_Sync_RefusesBots(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.Sync(ctx, models.Member{UserID: 1, Username: "beep", IsBot: true}))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	assert.Nil(t, user)
}

func TestDirectoryService_OnLeave_DeletesAndToleratesAbsence(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.Sync(ctx, models.Member{UserID: 1, Username: "alice"}))
	require.NoError(t, directory.OnLeave(ctx, 1))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	assert.Nil(t, user)

	// Leaving twice is a no-op
	require.NoError(t, directory.OnLeave(ctx, 1))
}

func TestDirectoryService_OnRename_NoOpWhenAbsent(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.OnRename(ctx, 42, "ghost"))

	users, _ := factory.repo.GetAll(ctx)
	assert.Empty(t, users)
}

func TestDirectoryService_ResyncAll_SkipsBots(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	members := []models.Member{
		{UserID: 1, Username: "alice"},
		{UserID: 2, Username: "beep", IsBot: true},
		{UserID: 3, Username: "bob"},
	}

	synced, err := directory.ResyncAll(ctx, members)
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	users, _ := factory.repo.GetAll(ctx)
	assert.Len(t, users, 2)
}

func TestDirectoryService_OnJoin_FreshAccountAfterRejoin(t *testing.T) {
	ctx := context.Background()
	factory := newMemUowFactory()
	directory := NewDirectoryService(factory)

	require.NoError(t, directory.OnJoin(ctx, models.Member{UserID: 1, Username: "alice"}))
	factory.repo.users[1].UpvotesEarned = 10
	factory.repo.users[1].Score = 10

	// Leave and rejoin: history is intentionally gone
	require.NoError(t, directory.OnLeave(ctx, 1))
	require.NoError(t, directory.OnJoin(ctx, models.Member{UserID: 1, Username: "alice"}))

	user, _ := factory.repo.GetByUserID(ctx, 1)
	require.NotNil(t, user)
	assert.Zero(t, user.UpvotesEarned)
	assert.Zero(t, user.Score)
}
