package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Resyncer is the slice of the bot the scheduler drives: a full membership
// sweep against the directory
type Resyncer interface {
	ResyncMembers(ctx context.Context) (int, error)
}

// Scheduler runs the periodic membership resync so accounts reconcile even
// when gateway events were missed
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler with the resync job registered on the given cron
// schedule (e.g. "@hourly")
func New(schedule string, resyncer Resyncer) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		synced, err := resyncer.ResyncMembers(ctx)
		if err != nil {
			log.WithError(err).Error("Scheduled membership resync failed")
			return
		}
		log.WithField("synced", synced).Info("Scheduled membership resync completed")
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

// Start begins running scheduled jobs in their own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
