package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	calls    atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler(retries int) *Scheduler {
	return New(logger.Nop(), WithRetry(retries, 0))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 30 18 * * *"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "0 30 18 * * *"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "b", schedule: "30 18 * * *"}), "five-field spec without seconds")

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler(3)
	job := &countingJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))
	s.Wait()

	assert.Equal(t, int32(3), job.calls.Load())

	h, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	require.Len(t, h.Results, 1)
	assert.True(t, h.Results[0].Success)
	assert.Equal(t, 3, h.Results[0].Attempts)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler(1)
	job := &countingJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("broken"))
	s.Wait()

	assert.Equal(t, int32(2), job.calls.Load())

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Zero(t, stats.SuccessRate)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJob_Unknown(t *testing.T) {
	s := newTestScheduler(0)
	assert.Error(t, s.RunJob("nope"))
	_, err := s.GetJobHistory("nope")
	assert.Error(t, err)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.cron.Entries())
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 0 19 * * *"}))

	s.Start()
	defer s.Stop()

	next, err := s.NextRun("a")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 19, next.Hour())
}

func TestJobHistory_KeepsLatest(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{Attempts: i, Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	latest := h.GetLatestResults(2)
	assert.Equal(t, maxHistory+3, latest[0].Attempts)
	assert.Equal(t, maxHistory+4, latest[1].Attempts)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(3))
}
