package service

import (
	"context"

	"curator/events"
	"curator/models"
	log "github.com/sirupsen/logrus"
)

// SurgeMargin is how far downvotes must pull ahead of upvotes on a single
// message before an alert fires
const SurgeMargin = 5

// monitorService implements the MonitorService interface. It is stateless:
// the tally is re-summed by the caller on every reaction change, and a
// message sitting above threshold re-alerts on every subsequent change.
type monitorService struct {
	eventBus *events.Bus
	margin   int
}

// NewMonitorService creates a new anomaly monitor
func NewMonitorService(eventBus *events.Bus) MonitorService {
	return &monitorService{
		eventBus: eventBus,
		margin:   SurgeMargin,
	}
}

// Observe checks one message's live tally and emits a surge event when
// downvotes exceed upvotes by more than the margin
func (s *monitorService) Observe(ctx context.Context, tally models.MessageTally) {
	if tally.Downvotes <= tally.Upvotes+s.margin {
		return
	}

	log.WithFields(log.Fields{
		"messageID": tally.MessageID,
		"upvotes":   tally.Upvotes,
		"downvotes": tally.Downvotes,
	}).Info("Downvote surge detected")

	s.eventBus.Emit(ctx, events.DownvoteSurgeEvent{
		GuildID:   tally.GuildID,
		ChannelID: tally.ChannelID,
		MessageID: tally.MessageID,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
	})
}
