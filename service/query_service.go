package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"curator/models"
)

const (
	// TopN result bounds
	MinTopN = 1
	MaxTopN = 10

	// Minimum normalized name similarity for a fuzzy match
	FuzzyThreshold = 0.75
)

// queryService implements the QueryService interface. All operations are
// read-only projections over the stored counters.
type queryService struct {
	uowFactory UnitOfWorkFactory
}

// NewQueryService creates a new query service
func NewQueryService(uowFactory UnitOfWorkFactory) QueryService {
	return &queryService{
		uowFactory: uowFactory,
	}
}

// TopN returns up to n accounts ordered by the criterion descending.
// Ties between equal values fall in store iteration order.
func (s *queryService) TopN(ctx context.Context, n int, criterion models.RankCriterion) ([]*models.LeaderboardEntry, error) {
	if n < MinTopN || n > MaxTopN {
		return nil, NewValidationError("count must be between %d and %d", MinTopN, MaxTopN)
	}
	if criterion == "" {
		criterion = models.RankByScore
	}
	if !criterion.Valid() {
		return nil, NewValidationError("unknown criterion %q", criterion)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().TopBy(ctx, criterion, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:            i + 1,
			UserID:          user.UserID,
			Username:        user.Username,
			Score:           user.Score,
			UpvotesEarned:   user.UpvotesEarned,
			DownvotesEarned: user.DownvotesEarned,
			VotesCast:       user.VotesCast,
		})
	}

	return entries, nil
}

// LookupExact returns the account or nil when absent; absence is a normal
// result, not an error
func (s *queryService) LookupExact(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return user, nil
}

// LookupFuzzy scans all accounts and returns those whose display name is
// at least 75% similar to the query, best matches first
func (s *queryService) LookupFuzzy(ctx context.Context, nameQuery string) ([]*models.FuzzyMatch, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	query := strings.ToLower(nameQuery)
	var matches []*models.FuzzyMatch
	for _, user := range users {
		similarity := stringSimilarity(query, strings.ToLower(user.Username))
		if similarity >= FuzzyThreshold {
			matches = append(matches, &models.FuzzyMatch{
				User:       user,
				Similarity: similarity,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches, nil
}

// BelowRatio returns accounts whose upvote ratio is at or below threshold,
// ascending by ratio. Accounts without recorded votes are filtered first,
// so the ratio is always well defined.
func (s *queryService) BelowRatio(ctx context.Context, threshold float64, minVotes int64) ([]*models.RatioEntry, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, NewValidationError("threshold must be strictly between 0 and 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var entries []*models.RatioEntry
	for _, user := range users {
		total := user.TotalVotes()
		if total == 0 || total < minVotes {
			continue
		}
		ratio := user.Ratio()
		if ratio <= threshold {
			entries = append(entries, &models.RatioEntry{
				User:       user,
				Ratio:      ratio,
				TotalVotes: total,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Ratio < entries[j].Ratio
	})

	return entries, nil
}

// DumpAll writes a plain-text report of every account to w, one block per
// account
func (s *queryService) DumpAll(ctx context.Context, w io.Writer) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get users: %w", err)
	}

	for _, user := range users {
		if _, err := io.WriteString(w, FormatUserReport(user)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// FormatUserReport renders one account as a report block with the derived
// upvote percentage
func FormatUserReport(user *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "============ %s ============\n", user.Username)
	fmt.Fprintf(&b, "Total: %d\n", user.Score)
	fmt.Fprintf(&b, "Upvotes: %d\n", user.UpvotesEarned)
	fmt.Fprintf(&b, "Downvotes: %d\n", user.DownvotesEarned)
	if total := user.TotalVotes(); total > 0 {
		fmt.Fprintf(&b, "Upvote %%: %.1f\n", user.Ratio()*100)
	} else {
		fmt.Fprintf(&b, "Upvote %%: n/a\n")
	}
	return b.String()
}
