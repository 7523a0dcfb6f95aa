package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrask/sift/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	ran      chan struct{}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler_AddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "demo", schedule: "@daily", ran: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(job)
	assert.ErrorContains(t, err, "already exists")
}

func TestScheduler_AddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "broken", schedule: "not a cron expr", ran: make(chan struct{}, 1)}
	assert.Error(t, s.AddJob(job))
}

func TestScheduler_RunJobImmediately(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "demo", schedule: "@daily", ran: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("demo"))

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// Wait for the result to land in history.
	deadline := time.Now().Add(2 * time.Second)
	for {
		history, err := s.GetJobHistory("demo")
		require.NoError(t, err)
		if latest := history.Latest(); latest != nil {
			assert.True(t, latest.Success)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no result recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_RunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())
	assert.ErrorContains(t, s.RunJob("missing"), "not found")
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}

	assert.Nil(t, h.Latest())
	assert.Equal(t, 0.0, h.SuccessRate())

	for i := 0; i < 110; i++ {
		h.AddResult(JobResult{JobName: "demo", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100)
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.01)
}
