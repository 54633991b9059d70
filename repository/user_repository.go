package repository

import (
	"context"
	"fmt"

	"curator/database"
	"curator/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable abstracts over a pool and a transaction
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rankColumns whitelists the sortable columns so a criterion can never
// reach the ORDER BY clause as raw input
var rankColumns = map[models.RankCriterion]string{
	models.RankByScore:     "score",
	models.RankByUpvotes:   "upvotes_earned",
	models.RankByDownvotes: "downvotes_earned",
	models.RankByVotesCast: "votes_cast",
}

const userColumns = `user_id, username, upvotes_earned, downvotes_earned, score, votes_cast, created_at, updated_at`

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.UpvotesEarned,
		&user.DownvotesEarned,
		&user.Score,
		&user.VotesCast,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUserID retrieves a user by id, returning nil when absent
func (r *UserRepository) GetByUserID(ctx context.Context, userID int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// Create inserts a zeroed account. A duplicate create degrades to a
// username update so membership sync stays idempotent.
func (r *UserRepository) Create(ctx context.Context, userID int64, username string) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING %s
	`, userColumns)

	user, err := scanUser(r.q.QueryRow(ctx, query, userID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	return user, nil
}

// UpdateUsername changes the display name only; counters are untouched
func (r *UserRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	query := `
		UPDATE users
		SET username = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	// A missing account is a no-op, not an error
	_, err := r.q.Exec(ctx, query, username, userID)
	if err != nil {
		return fmt.Errorf("failed to update username for user %d: %w", userID, err)
	}

	return nil
}

// Delete removes the account unconditionally; deleting an absent account
// is a no-op
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE user_id = $1`

	_, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	return nil
}

// DeleteAll wipes the whole table
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return fmt.Errorf("failed to delete all users: %w", err)
	}

	return nil
}

// GetAll returns all accounts
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users`, userColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// TopBy returns up to limit accounts ordered by the criterion column
// descending. Tie order between equal values is whatever the database
// yields. Zero-vote accounts are excluded unless ranking by votes cast.
func (r *UserRepository) TopBy(ctx context.Context, criterion models.RankCriterion, limit int) ([]*models.User, error) {
	column, ok := rankColumns[criterion]
	if !ok {
		return nil, fmt.Errorf("unknown rank criterion %q", criterion)
	}

	where := ""
	if criterion != models.RankByVotesCast {
		where = "WHERE upvotes_earned > 0 OR downvotes_earned > 0"
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s DESC LIMIT $1`, userColumns, where, column)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users by %s: %w", column, err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// AddVote increments the earned counter and score in one statement so the
// score invariant holds inside the mutation itself
func (r *UserRepository) AddVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	var query string
	switch kind {
	case models.VoteKindUpvote:
		query = `
			UPDATE users
			SET upvotes_earned = upvotes_earned + 1, score = score + 1, updated_at = NOW()
			WHERE user_id = $1
		`
	case models.VoteKindDownvote:
		query = `
			UPDATE users
			SET downvotes_earned = downvotes_earned + 1, score = score - 1, updated_at = NOW()
			WHERE user_id = $1
		`
	default:
		return false, fmt.Errorf("cannot add vote of kind %q", kind)
	}

	result, err := r.q.Exec(ctx, query, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to add %s for user %d: %w", kind, authorID, err)
	}

	return result.RowsAffected() > 0, nil
}

// RemoveVote decrements the earned counter with a floor-at-zero guard in
// the WHERE clause. An unreliable event feed may deliver a remove without
// a matching add; the guard absorbs it instead of going negative.
func (r *UserRepository) RemoveVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	var query string
	switch kind {
	case models.VoteKindUpvote:
		query = `
			UPDATE users
			SET upvotes_earned = upvotes_earned - 1, score = score - 1, updated_at = NOW()
			WHERE user_id = $1 AND upvotes_earned > 0
		`
	case models.VoteKindDownvote:
		query = `
			UPDATE users
			SET downvotes_earned = downvotes_earned - 1, score = score + 1, updated_at = NOW()
			WHERE user_id = $1 AND downvotes_earned > 0
		`
	default:
		return false, fmt.Errorf("cannot remove vote of kind %q", kind)
	}

	result, err := r.q.Exec(ctx, query, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s for user %d: %w", kind, authorID, err)
	}

	return result.RowsAffected() > 0, nil
}

// AddVotesCast adjusts the reactor's cast counter, floored at zero for
// negative deltas
func (r *UserRepository) AddVotesCast(ctx context.Context, reactorID int64, delta int64) (bool, error) {
	query := `
		UPDATE users
		SET votes_cast = votes_cast + $1, updated_at = NOW()
		WHERE user_id = $2 AND votes_cast + $1 >= 0
	`

	result, err := r.q.Exec(ctx, query, delta, reactorID)
	if err != nil {
		return false, fmt.Errorf("failed to adjust votes cast for user %d: %w", reactorID, err)
	}

	return result.RowsAffected() > 0, nil
}

// AdjustVotes applies an administrative delta to an earned counter while
// keeping score equal to upvotes minus downvotes. Refuses adjustments
// that would push the counter negative.
func (r *UserRepository) AdjustVotes(ctx context.Context, userID int64, kind models.VoteKind, delta int64) (bool, error) {
	var query string
	switch kind {
	case models.VoteKindUpvote:
		query = `
			UPDATE users
			SET upvotes_earned = upvotes_earned + $1, score = score + $1, updated_at = NOW()
			WHERE user_id = $2 AND upvotes_earned + $1 >= 0
		`
	case models.VoteKindDownvote:
		query = `
			UPDATE users
			SET downvotes_earned = downvotes_earned + $1, score = score - $1, updated_at = NOW()
			WHERE user_id = $2 AND downvotes_earned + $1 >= 0
		`
	default:
		return false, fmt.Errorf("cannot adjust votes of kind %q", kind)
	}

	result, err := r.q.Exec(ctx, query, delta, userID)
	if err != nil {
		return false, fmt.Errorf("failed to adjust %s for user %d: %w", kind, userID, err)
	}

	return result.RowsAffected() > 0, nil
}
