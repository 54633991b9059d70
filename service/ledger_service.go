package service

import (
	"context"
	"fmt"

	"curator/events"
	"curator/models"
	log "github.com/sirupsen/logrus"
)

// ledgerService implements the LedgerService interface. It keeps no state
// of its own; every reaction event is translated into counter mutations
// inside a single transaction, or dropped by a gate.
type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

func dropped(reason models.DropReason) *models.VoteResult {
	return &models.VoteResult{Applied: false, Drop: reason}
}

// Apply runs the gate chain in order, short-circuiting on the first failed
// gate, and mutates the counters for surviving events. A dropped event is
// reported in the result and never retried.
func (s *ledgerService) Apply(ctx context.Context, event models.ReactionEvent) (*models.VoteResult, error) {
	// Gate 1: reactions from bots never count
	if event.ReactorIsBot {
		return dropped(models.DropBotReactor), nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Gate 2: the post's author must be a tracked, non-bot account.
	// Authors who left the community stop accumulating votes.
	if event.AuthorIsBot {
		return dropped(models.DropAuthorNotTracked), nil
	}
	author, err := uow.UserRepository().GetByUserID(ctx, event.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up author %d: %w", event.AuthorID, err)
	}
	if author == nil {
		log.WithFields(log.Fields{
			"authorID":  event.AuthorID,
			"messageID": event.MessageID,
		}).Warn("No account for post author, dropping event; run a directory resync to reconcile")
		return dropped(models.DropAuthorNotTracked), nil
	}

	// The reactor must hold an account too; a vote whose cast counter has
	// nowhere to go is dropped whole rather than half-recorded
	reactor, err := uow.UserRepository().GetByUserID(ctx, event.ReactorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reactor %d: %w", event.ReactorID, err)
	}
	if reactor == nil {
		log.WithFields(log.Fields{
			"reactorID": event.ReactorID,
			"messageID": event.MessageID,
		}).Warn("No account for reactor, dropping event; run a directory resync to reconcile")
		return dropped(models.DropReactorNotTracked), nil
	}

	// Gate 3: self-votes are retracted from the external surface so the
	// author cannot display unearned votes
	if event.ReactorID == event.AuthorID {
		result := dropped(models.DropSelfVote)
		result.RetractReaction = event.Direction == models.VoteDirectionAdd
		return result, nil
	}

	// Gate 4: only attachment-bearing posts are votable
	if event.AttachmentCount == 0 {
		return dropped(models.DropNoAttachments), nil
	}

	// Gate 5: only the vote emojis touch the ledger
	if event.Kind != models.VoteKindUpvote && event.Kind != models.VoteKindDownvote {
		return dropped(models.DropNotAVote), nil
	}

	result := &models.VoteResult{Applied: true}

	switch event.Direction {
	case models.VoteDirectionAdd:
		ok, err := uow.UserRepository().AddVote(ctx, event.AuthorID, event.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", event.Kind, err)
		}
		if !ok {
			// Author row vanished between the gate check and the
			// mutation; the rollback in the deferred call drops
			// the whole event
			log.WithField("authorID", event.AuthorID).Warn("Author account missing at mutation time, dropping event")
			return dropped(models.DropAuthorNotTracked), nil
		}
		if err := s.adjustVotesCast(ctx, uow, event.ReactorID, 1); err != nil {
			return nil, err
		}

	case models.VoteDirectionRemove:
		ok, err := uow.UserRepository().RemoveVote(ctx, event.AuthorID, event.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to retract %s: %w", event.Kind, err)
		}
		if !ok {
			// Floor guard: a redundant or reordered remove from the
			// event feed must not drive counters negative. The
			// reactor's cast counter is still decremented below.
			log.WithFields(log.Fields{
				"authorID": event.AuthorID,
				"kind":     event.Kind,
			}).Debug("Remove refused by floor guard")
			result.Applied = false
			result.Drop = models.DropFloorGuard
		}
		if err := s.adjustVotesCast(ctx, uow, event.ReactorID, -1); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown vote direction %q", event.Direction)
	}

	if result.Applied {
		uow.Publish(events.VoteRecordedEvent{
			AuthorID:  event.AuthorID,
			ReactorID: event.ReactorID,
			Kind:      event.Kind,
			Direction: event.Direction,
			MessageID: event.MessageID,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return result, nil
}

// adjustVotesCast updates the reactor's cast counter. The reactor account
// was verified inside this transaction, so a false return can only be the
// floor guard absorbing a redundant decrement.
func (s *ledgerService) adjustVotesCast(ctx context.Context, uow UnitOfWork, reactorID int64, delta int64) error {
	ok, err := uow.UserRepository().AddVotesCast(ctx, reactorID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust votes cast: %w", err)
	}
	if !ok {
		log.WithFields(log.Fields{
			"reactorID": reactorID,
			"delta":     delta,
		}).Debug("Votes-cast decrement refused by floor guard")
	}
	return nil
}

// AdjustUpvotes applies an administrative delta to a user's upvote counter
func (s *ledgerService) AdjustUpvotes(ctx context.Context, userID int64, delta int64) error {
	return s.adjust(ctx, userID, models.VoteKindUpvote, delta)
}

// AdjustDownvotes applies an administrative delta to a user's downvote counter
func (s *ledgerService) AdjustDownvotes(ctx context.Context, userID int64, delta int64) error {
	return s.adjust(ctx, userID, models.VoteKindDownvote, delta)
}

func (s *ledgerService) adjust(ctx context.Context, userID int64, kind models.VoteKind, delta int64) error {
	if delta == 0 {
		return NewValidationError("delta must be non-zero")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ok, err := uow.UserRepository().AdjustVotes(ctx, userID, kind, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust %s: %w", kind, err)
	}
	if !ok {
		user, err := uow.UserRepository().GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return NewValidationError("no account for user %d", userID)
		}
		return NewValidationError("adjustment of %+d would make the %s counter negative", delta, kind)
	}

	return uow.Commit()
}

// WipeAll deletes every account
func (s *ledgerService) WipeAll(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to wipe accounts: %w", err)
	}

	return uow.Commit()
}
