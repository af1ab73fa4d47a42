package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/lotoscope/internal/backtest"
	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/worker"
	"github.com/wonny/lotoscope/pkg/logger"
)

// HistorySource provides the current history snapshot
type HistorySource interface {
	Current() *brain.History
	Refresh(ctx context.Context) (*brain.History, error)
}

// JobHandler submits predict/backtest/refresh jobs and reports their state
// ⭐ SSOT: 작업 API 핸들러는 이 구조체에서만
type JobHandler struct {
	history HistorySource
	engine  *brain.Engine
	runner  *worker.Runner
	logger  *logger.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(history HistorySource, engine *brain.Engine, runner *worker.Runner, log *logger.Logger) *JobHandler {
	return &JobHandler{
		history: history,
		engine:  engine,
		runner:  runner,
		logger:  log,
	}
}

// JobAccepted is returned when a job has been submitted
type JobAccepted struct {
	JobID  string         `json:"job_id"`
	Type   worker.JobType `json:"type"`
	Status worker.Status  `json:"status"`
}

// Predict submits a prediction for the day after the current history
// POST /api/predict
func (h *JobHandler) Predict(w http.ResponseWriter, r *http.Request) {
	hist := h.history.Current()
	if hist == nil {
		respondError(w, http.StatusServiceUnavailable, "history not loaded yet")
		return
	}
	records := hist.Records // 제출 시점 스냅샷 고정

	h.submit(w, worker.JobPredict, func(ctx context.Context, report contracts.ProgressFunc) (interface{}, error) {
		return h.engine.PredictNextDay(ctx, records)
	})
}

// Backtest submits a backtest over the current history
// POST /api/backtest?days=N
func (h *JobHandler) Backtest(w http.ResponseWriter, r *http.Request) {
	hist := h.history.Current()
	if hist == nil {
		respondError(w, http.StatusServiceUnavailable, "history not loaded yet")
		return
	}
	records := hist.Records

	cfg := *h.engine.Config()
	if v := r.URL.Query().Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		cfg.Backtest.TestDays = days
	}

	bt := backtest.NewEngine(h.engine, &cfg, h.logger)
	h.submit(w, worker.JobBacktest, func(ctx context.Context, report contracts.ProgressFunc) (interface{}, error) {
		return bt.Run(ctx, records, report)
	})
}

// Refresh reloads the history from its source
// POST /api/history/refresh
func (h *JobHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.submit(w, worker.JobRefresh, func(ctx context.Context, report contracts.ProgressFunc) (interface{}, error) {
		hist, err := h.history.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		return hist.Summary, nil
	})
}

// GetJob returns the state of a job: running, completed with a result, or failed with an error
// GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, ok := h.runner.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListJobs returns retained jobs, newest first
// GET /api/jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.List())
}

func (h *JobHandler) submit(w http.ResponseWriter, jobType worker.JobType, task worker.Task) {
	id, err := h.runner.Submit(jobType, task)
	switch {
	case errors.Is(err, worker.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "too many jobs, try again later")
		return
	case err != nil:
		h.logger.WithError(err).WithField("job_type", string(jobType)).Error("Failed to submit job")
		respondError(w, http.StatusServiceUnavailable, "job runner unavailable")
		return
	}

	respondJSON(w, http.StatusAccepted, JobAccepted{
		JobID:  id,
		Type:   jobType,
		Status: worker.StatusRunning,
	})
}
