package models

// RankCriterion selects the column a leaderboard is ordered by
type RankCriterion string

const (
	RankByScore     RankCriterion = "score"
	RankByUpvotes   RankCriterion = "upvotes"
	RankByDownvotes RankCriterion = "downvotes"
	RankByVotesCast RankCriterion = "votes_cast"
)

// Valid reports whether the criterion is one of the supported columns.
func (c RankCriterion) Valid() bool {
	switch c {
	case RankByScore, RankByUpvotes, RankByDownvotes, RankByVotesCast:
		return true
	}
	return false
}

// LeaderboardEntry represents a user's position in a top-N query result
type LeaderboardEntry struct {
	Rank            int
	UserID          int64
	Username        string
	Score           int64
	UpvotesEarned   int64
	DownvotesEarned int64
	VotesCast       int64
}

// FuzzyMatch pairs an account with its name-similarity score for a lookup query
type FuzzyMatch struct {
	User       *User
	Similarity float64
}

// RatioEntry represents an account at or below a ratio threshold
type RatioEntry struct {
	User       *User
	Ratio      float64
	TotalVotes int64
}
