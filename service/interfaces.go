package service

import (
	"context"
	"fmt"
	"io"

	"curator/events"
	"curator/models"
)

// UserRepository defines the interface for account data access
type UserRepository interface {
	// GetByUserID retrieves a user by id, returning nil (not an error)
	// when no account exists
	GetByUserID(ctx context.Context, userID int64) (*models.User, error)

	// Create inserts a zeroed account. A duplicate create degrades to a
	// username update instead of raising.
	Create(ctx context.Context, userID int64, username string) (*models.User, error)

	// UpdateUsername changes the display name only; no-op when the
	// account does not exist
	UpdateUsername(ctx context.Context, userID int64, username string) error

	// Delete removes the account unconditionally; no-op when absent
	Delete(ctx context.Context, userID int64) error

	// DeleteAll wipes the whole table
	DeleteAll(ctx context.Context) error

	// GetAll returns all accounts
	GetAll(ctx context.Context) ([]*models.User, error)

	// TopBy returns up to limit accounts ordered by the criterion column
	// descending. Accounts with zero earned votes are excluded for every
	// criterion except votes_cast.
	TopBy(ctx context.Context, criterion models.RankCriterion, limit int) ([]*models.User, error)

	// AddVote increments the author's earned counter and adjusts score in
	// one statement. Returns false when the account is missing.
	AddVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error)

	// RemoveVote decrements the author's earned counter with an in-SQL
	// floor-at-zero guard. Returns false when the guard refused or the
	// account is missing.
	RemoveVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error)

	// AddVotesCast adjusts the reactor's cast counter by delta, floored
	// at zero. Returns false when the guard refused or the account is
	// missing.
	AddVotesCast(ctx context.Context, reactorID int64, delta int64) (bool, error)

	// AdjustVotes applies an administrative delta to an earned counter,
	// keeping score consistent. Returns false when the result would go
	// negative or the account is missing.
	AdjustVotes(ctx context.Context, userID int64, kind models.VoteKind, delta int64) (bool, error)
}

// UnitOfWork provides transactional access to repositories. Events
// published through it are emitted only after a successful commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	UserRepository() UserRepository
	Publish(event events.Event)
}

// UnitOfWorkFactory creates new units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// DirectoryService keeps account existence and display names consistent
// with community membership
type DirectoryService interface {
	// Sync converges the account for a member: create when missing,
	// rename when present, never touch counters. Idempotent.
	Sync(ctx context.Context, member models.Member) error

	// OnJoin creates a zeroed account for a non-bot member
	OnJoin(ctx context.Context, member models.Member) error

	// OnLeave deletes the account unconditionally
	OnLeave(ctx context.Context, userID int64) error

	// OnRename updates the display name only
	OnRename(ctx context.Context, userID int64, newName string) error

	// ResyncAll syncs every given member and returns how many were processed
	ResyncAll(ctx context.Context, members []models.Member) (int, error)
}

// LedgerService converts reaction events into durable score mutations
type LedgerService interface {
	// Apply runs the gate chain and, for surviving events, mutates the
	// counters atomically. Gated drops are reported in the result, not
	// as errors.
	Apply(ctx context.Context, event models.ReactionEvent) (*models.VoteResult, error)

	// AdjustUpvotes applies an administrative delta to a user's upvote
	// counter, adjusting score to match
	AdjustUpvotes(ctx context.Context, userID int64, delta int64) error

	// AdjustDownvotes applies an administrative delta to a user's
	// downvote counter, adjusting score to match
	AdjustDownvotes(ctx context.Context, userID int64, delta int64) error

	// WipeAll deletes every account
	WipeAll(ctx context.Context) error
}

// QueryService serves read-only projections over the ledger
type QueryService interface {
	// TopN returns up to n accounts (1-10) ordered by the criterion
	TopN(ctx context.Context, n int, criterion models.RankCriterion) ([]*models.LeaderboardEntry, error)

	// LookupExact returns the account or nil when absent
	LookupExact(ctx context.Context, userID int64) (*models.User, error)

	// LookupFuzzy returns every account whose display name is at least
	// 75% similar to the query, case-insensitively. An empty result is
	// not an error.
	LookupFuzzy(ctx context.Context, nameQuery string) ([]*models.FuzzyMatch, error)

	// BelowRatio returns every account with at least one recorded vote
	// (and at least minVotes when minVotes > 0) whose upvote ratio is at
	// or below threshold. Threshold must be in (0, 1) exclusive.
	BelowRatio(ctx context.Context, threshold float64, minVotes int64) ([]*models.RatioEntry, error)

	// DumpAll writes a plain-text report of every account to w
	DumpAll(ctx context.Context, w io.Writer) error
}

// MonitorService watches live per-message reaction tallies for anomalies
type MonitorService interface {
	// Observe checks a message's current tally and raises a surge event
	// when downvotes have pulled far ahead of upvotes
	Observe(ctx context.Context, tally models.MessageTally)
}

// ValidationError marks a rejected input. The command layer renders these
// back to the issuer instead of logging them as failures.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
