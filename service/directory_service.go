package service

import (
	"context"
	"fmt"

	"curator/events"
	"curator/models"
	log "github.com/sirupsen/logrus"
)

// directoryService implements the DirectoryService interface
type directoryService struct {
	uowFactory UnitOfWorkFactory
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(uowFactory UnitOfWorkFactory) DirectoryService {
	return &directoryService{
		uowFactory: uowFactory,
	}
}

// Sync converges the stored account with the observed member. Missing
// accounts are created zeroed, existing accounts keep their counters and
// only pick up a new display name. Bots are never tracked.
func (s *directoryService) Sync(ctx context.Context, member models.Member) error {
	if member.IsBot {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUserID(ctx, member.UserID)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if user == nil {
		// Zeroed counters on create; a concurrent duplicate create
		// degrades to a rename inside the repository
		if _, err := uow.UserRepository().Create(ctx, member.UserID, member.Username); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		uow.Publish(events.UserCreatedEvent{
			UserID:   member.UserID,
			Username: member.Username,
		})
	} else if user.Username != member.Username {
		if err := uow.UserRepository().UpdateUsername(ctx, member.UserID, member.Username); err != nil {
			return fmt.Errorf("failed to update username: %w", err)
		}
	}

	return uow.Commit()
}

// OnJoin creates a zeroed account for a non-bot member. A rejoining member
// starts fresh; prior history is intentionally not recoverable.
func (s *directoryService) OnJoin(ctx context.Context, member models.Member) error {
	return s.Sync(ctx, member)
}

// OnLeave deletes the account unconditionally. Deleting an absent account
// is a no-op.
func (s *directoryService) OnLeave(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return uow.Commit()
}

// OnRename updates the display name only; no-op when the account does not
// exist
func (s *directoryService) OnRename(ctx context.Context, userID int64, newName string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateUsername(ctx, userID, newName); err != nil {
		return fmt.Errorf("failed to rename user: %w", err)
	}

	return uow.Commit()
}

// ResyncAll syncs every given member. A single failed member is logged and
// skipped so one bad row cannot abort a full sweep.
func (s *directoryService) ResyncAll(ctx context.Context, members []models.Member) (int, error) {
	synced := 0
	for _, member := range members {
		if member.IsBot {
			continue
		}
		if err := s.Sync(ctx, member); err != nil {
			log.WithFields(log.Fields{
				"userID":   member.UserID,
				"username": member.Username,
			}).WithError(err).Warn("Failed to sync member, skipping")
			continue
		}
		synced++
	}

	return synced, nil
}
