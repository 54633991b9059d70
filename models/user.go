package models

import (
	"time"
)

// User represents a community member with earned vote counters
type User struct {
	UserID          int64     `db:"user_id"`
	Username        string    `db:"username"`
	UpvotesEarned   int64     `db:"upvotes_earned"`
	DownvotesEarned int64     `db:"downvotes_earned"`
	Score           int64     `db:"score"`
	VotesCast       int64     `db:"votes_cast"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// TotalVotes returns the number of votes recorded against this user's posts.
func (u *User) TotalVotes() int64 {
	return u.UpvotesEarned + u.DownvotesEarned
}

// Ratio returns upvotes / (upvotes + downvotes). Only meaningful when
// TotalVotes() > 0; callers must filter zero-vote accounts first.
func (u *User) Ratio() float64 {
	return float64(u.UpvotesEarned) / float64(u.TotalVotes())
}

// Member is the gateway-facing shape of a community member
type Member struct {
	UserID   int64
	Username string
	IsBot    bool
}
