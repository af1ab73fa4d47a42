package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/pkg/logger"
)

// HistoryRefresher reloads the history snapshot
type HistoryRefresher interface {
	Refresh(ctx context.Context) (*brain.History, error)
}

// RefreshJob reloads the draw history after the day's results are published
// ⭐ SSOT: 히스토리 갱신 스케줄은 이 Job에서만
type RefreshJob struct {
	store    HistoryRefresher
	schedule string
	logger   *logger.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(store HistoryRefresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		store:    store,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "history_refresh"
}

// Schedule returns the cron schedule (seconds field included)
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run reloads the history; the previous snapshot stays on failure
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled history refresh")

	h, err := j.store.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh history: %w", err)
	}

	fields := map[string]interface{}{
		"days":     h.Summary.Days,
		"warnings": len(h.Warnings),
	}
	if !h.Summary.LastDate.IsZero() {
		fields["last_date"] = h.Summary.LastDate.Format("2006-01-02")
	}
	if h.Quality != nil {
		fields["quality_passed"] = h.Quality.Passed
	}
	j.logger.WithFields(fields).Info("History refreshed")

	return nil
}
