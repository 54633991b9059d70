package testutil

import (
	"context"
	"testing"

	"curator/database"

	"github.com/stretchr/testify/require"
)

// SeedUser inserts an account with explicit counter values, bypassing the
// repository's zeroed-create path
func SeedUser(t *testing.T, db *database.DB, userID int64, username string, upvotes, downvotes, votesCast int64) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO users (user_id, username, upvotes_earned, downvotes_earned, score, votes_cast)
		 VALUES ($1, $2, $3, $4, $3 - $4, $5)`,
		userID, username, upvotes, downvotes, votesCast)
	require.NoError(t, err)
}
