package service

import (
	"context"
	"sort"

	"curator/events"
	"curator/models"
)

// memUserRepo is an in-memory UserRepository used by scenario and property
// tests. It mirrors the SQL guards of the real repository.
type memUserRepo struct {
	users map[int64]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (r *memUserRepo) GetByUserID(_ context.Context, userID int64) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) Create(_ context.Context, userID int64, username string) (*models.User, error) {
	if existing, ok := r.users[userID]; ok {
		existing.Username = username
		copied := *existing
		return &copied, nil
	}
	user := &models.User{UserID: userID, Username: username}
	r.users[userID] = user
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) UpdateUsername(_ context.Context, userID int64, username string) error {
	if user, ok := r.users[userID]; ok {
		user.Username = username
	}
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, userID int64) error {
	delete(r.users, userID)
	return nil
}

func (r *memUserRepo) DeleteAll(_ context.Context) error {
	r.users = make(map[int64]*models.User)
	return nil
}

func (r *memUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		copied := *r.users[id]
		users = append(users, &copied)
	}
	return users, nil
}

func (r *memUserRepo) TopBy(ctx context.Context, criterion models.RankCriterion, limit int) ([]*models.User, error) {
	all, _ := r.GetAll(ctx)

	var filtered []*models.User
	for _, user := range all {
		if criterion != models.RankByVotesCast && user.TotalVotes() == 0 {
			continue
		}
		filtered = append(filtered, user)
	}

	key := func(u *models.User) int64 {
		switch criterion {
		case models.RankByUpvotes:
			return u.UpvotesEarned
		case models.RankByDownvotes:
			return u.DownvotesEarned
		case models.RankByVotesCast:
			return u.VotesCast
		default:
			return u.Score
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return key(filtered[i]) > key(filtered[j]) })

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (r *memUserRepo) AddVote(_ context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	user, ok := r.users[authorID]
	if !ok {
		return false, nil
	}
	if kind == models.VoteKindUpvote {
		user.UpvotesEarned++
		user.Score++
	} else {
		user.DownvotesEarned++
		user.Score--
	}
	return true, nil
}

func (r *memUserRepo) RemoveVote(_ context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	user, ok := r.users[authorID]
	if !ok {
		return false, nil
	}
	if kind == models.VoteKindUpvote {
		if user.UpvotesEarned == 0 {
			return false, nil
		}
		user.UpvotesEarned--
		user.Score--
	} else {
		if user.DownvotesEarned == 0 {
			return false, nil
		}
		user.DownvotesEarned--
		user.Score++
	}
	return true, nil
}

func (r *memUserRepo) AddVotesCast(_ context.Context, reactorID int64, delta int64) (bool, error) {
	user, ok := r.users[reactorID]
	if !ok || user.VotesCast+delta < 0 {
		return false, nil
	}
	user.VotesCast += delta
	return true, nil
}

func (r *memUserRepo) AdjustVotes(_ context.Context, userID int64, kind models.VoteKind, delta int64) (bool, error) {
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	if kind == models.VoteKindUpvote {
		if user.UpvotesEarned+delta < 0 {
			return false, nil
		}
		user.UpvotesEarned += delta
		user.Score += delta
	} else {
		if user.DownvotesEarned+delta < 0 {
			return false, nil
		}
		user.DownvotesEarned += delta
		user.Score -= delta
	}
	return true, nil
}

// memUnitOfWork wraps the in-memory repository without real transactions.
// Published events are collected on the factory after "commit" so tests can
// assert on them.
type memUnitOfWork struct {
	factory *memUowFactory
	pending []events.Event
}

func (u *memUnitOfWork) Begin(context.Context) error { return nil }

func (u *memUnitOfWork) Commit() error {
	u.factory.published = append(u.factory.published, u.pending...)
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) UserRepository() UserRepository { return u.factory.repo }

func (u *memUnitOfWork) Publish(event events.Event) {
	u.pending = append(u.pending, event)
}

type memUowFactory struct {
	repo      *memUserRepo
	published []events.Event
}

func newMemUowFactory() *memUowFactory {
	return &memUowFactory{repo: newMemUserRepo()}
}

func (f *memUowFactory) Create() UnitOfWork {
	return &memUnitOfWork{factory: f}
}
