package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// HistoryReader returns the current history snapshot
type HistoryReader interface {
	Current() *brain.History
}

// PredictJob predicts the next draw from the current snapshot every day
type PredictJob struct {
	history   HistoryReader
	predictor contracts.Predictor
	schedule  string
	latest    atomic.Pointer[contracts.Prediction]
	logger    *logger.Logger
}

// NewPredictJob creates a new predict job
func NewPredictJob(history HistoryReader, predictor contracts.Predictor, schedule string, log *logger.Logger) *PredictJob {
	return &PredictJob{
		history:   history,
		predictor: predictor,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *PredictJob) Name() string {
	return "daily_prediction"
}

// Schedule returns the cron schedule (seconds field included)
func (j *PredictJob) Schedule() string {
	return j.schedule
}

// Latest returns the last successful prediction or nil
func (j *PredictJob) Latest() *contracts.Prediction {
	return j.latest.Load()
}

// Run predicts the day after the current history
func (j *PredictJob) Run(ctx context.Context) error {
	h := j.history.Current()
	if h == nil {
		return errors.New("history not loaded")
	}

	pred, err := j.predictor.PredictNextDay(ctx, h.Records)
	if err != nil {
		return fmt.Errorf("predict next day: %w", err)
	}
	j.latest.Store(pred)

	j.logger.WithFields(map[string]interface{}{
		"target_date": pred.TargetDate.Format("2006-01-02"),
		"numbers":     strings.Join(pred.Numbers, " "),
		"failed":      len(pred.FailedStrategies),
	}).Info("Scheduled prediction ready")

	return nil
}
