package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"curator/models"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		expected string
	}{
		{"small number", 42, "42"},
		{"exactly three digits", 999, "999"},
		{"thousands", 1234, "1,234"},
		{"millions", 1234567, "1,234,567"},
		{"zero", 0, "0"},
		{"negative", -1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCount(tt.count))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "75.0%", FormatPercent(0.75))
	assert.Equal(t, "66.7%", FormatPercent(2.0/3.0))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func TestFormatRank_MedalsForTopThree(t *testing.T) {
	assert.Equal(t, "🥇", FormatRank(1))
	assert.Equal(t, "🥈", FormatRank(2))
	assert.Equal(t, "🥉", FormatRank(3))
	assert.Equal(t, "#4", FormatRank(4))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", TruncateName("short", 18))
	assert.Equal(t, "a-very-long-dis...", TruncateName("a-very-long-display-name", 18))

	// Widths too narrow for an ellipsis cut hard instead of panicking
	assert.Equal(t, "abc", TruncateName("abcdef", 3))
	assert.Equal(t, "a", TruncateName("abcdef", 1))
	assert.Equal(t, "", TruncateName("abcdef", 0))
	assert.Equal(t, "", TruncateName("abcdef", -1))
}

func TestFormatLeaderboardTable(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{Rank: 1, Username: "alice", Score: 1500, UpvotesEarned: 1600, DownvotesEarned: 100, VotesCast: 20},
		{Rank: 2, Username: "bob", Score: 3, UpvotesEarned: 5, DownvotesEarned: 2, VotesCast: 0},
	}

	table := FormatLeaderboardTable(entries)

	assert.True(t, strings.HasPrefix(table, "```"))
	assert.True(t, strings.HasSuffix(table, "```"))
	assert.Contains(t, table, "alice")
	assert.Contains(t, table, "1,500")
	assert.Contains(t, table, "🥈")
}

func TestFormatMatchList(t *testing.T) {
	matches := []*models.FuzzyMatch{
		{User: &models.User{Username: "john", Score: 12}, Similarity: 1.0},
		{User: &models.User{Username: "jon", Score: 4}, Similarity: 0.75},
	}

	list := FormatMatchList(matches)

	assert.Contains(t, list, "**john**")
	assert.Contains(t, list, "100.0% match")
	assert.Contains(t, list, "75.0% match")
}

func TestFormatRatioTable(t *testing.T) {
	entries := []*models.RatioEntry{
		{User: &models.User{Username: "grumpy"}, Ratio: 0.25, TotalVotes: 8},
	}

	table := FormatRatioTable(entries)

	assert.Contains(t, table, "grumpy")
	assert.Contains(t, table, "25.0%")
	assert.Contains(t, table, "8")
}
