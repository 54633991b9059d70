package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResyncer struct {
	calls chan struct{}
}

func (f *fakeResyncer) ResyncMembers(ctx context.Context) (int, error) {
	f.calls <- struct{}{}
	return 3, nil
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New("not a schedule", &fakeResyncer{calls: make(chan struct{}, 1)})
	assert.Error(t, err)
}

func TestScheduler_RunsResyncJob(t *testing.T) {
	resyncer := &fakeResyncer{calls: make(chan struct{}, 10)}

	s, err := New("@every 10ms", resyncer)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-resyncer.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the resync job to run")
	}
}
