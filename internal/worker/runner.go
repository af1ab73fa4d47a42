package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// ErrRateLimited is returned by Submit when the submission budget is exhausted
var ErrRateLimited = errors.New("job submission rate limited")

// ErrClosed is returned by Submit after Shutdown
var ErrClosed = errors.New("job runner closed")

// JobType names the kind of work a job performs
type JobType string

const (
	JobPredict  JobType = "predict"
	JobBacktest JobType = "backtest"
	JobRefresh  JobType = "refresh"
)

// Status is the observable state of a job
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is the work of a job. report may be called any number of times.
type Task func(ctx context.Context, report contracts.ProgressFunc) (interface{}, error)

// Job is a snapshot of one submitted job
type Job struct {
	ID         string        `json:"id"`
	Type       JobType       `json:"type"`
	Status     Status        `json:"status"`
	Progress   *ProgressInfo `json:"progress,omitempty"`
	Result     interface{}   `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`

	seq uint64 // 제출 순서
}

// Config limits job submission
type Config struct {
	RatePerMinute int
	Burst         int
	MaxRetained   int // 보관할 완료 작업 수
}

// DefaultConfig returns a conservative submission budget
func DefaultConfig() Config {
	return Config{RatePerMinute: 6, Burst: 2, MaxRetained: 100}
}

// Runner executes jobs in background goroutines and reports their lifecycle
// ⭐ SSOT: 백그라운드 작업 실행은 여기서만
type Runner struct {
	limiter     *rate.Limiter
	emitter     Emitter
	maxRetained int
	logger      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[string]*Job
	seq    uint64
	closed bool
}

// NewRunner creates a runner. emitter may be nil.
func NewRunner(cfg Config, emitter Emitter, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxRetained <= 0 {
		cfg.MaxRetained = DefaultConfig().MaxRetained
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		limiter:     rate.NewLimiter(limit, cfg.Burst),
		emitter:     emitter,
		maxRetained: cfg.MaxRetained,
		logger:      log.WithComponent("worker"),
		ctx:         ctx,
		cancel:      cancel,
		jobs:        make(map[string]*Job),
	}
}

// Submit starts task in the background and returns the job id immediately
func (r *Runner) Submit(jobType JobType, task Task) (string, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrClosed
	}
	if !r.limiter.Allow() {
		r.mu.Unlock()
		r.logger.WithField("job_type", string(jobType)).Warn("Job submission rate limited")
		return "", ErrRateLimited
	}

	r.seq++
	job := &Job{
		seq:       r.seq,
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
	}
	r.jobs[job.ID] = job
	r.prune()
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(job.ID, jobType, task)
	return job.ID, nil
}

// Get returns a snapshot of the job
func (r *Runner) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns snapshots of all retained jobs, newest first
func (r *Runner) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].seq > out[j].seq
	})
	return out
}

// Wait blocks until every submitted job has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown stops accepting jobs, cancels running ones and waits for them or ctx
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("job runner shutdown: %w", ctx.Err())
	}
}

func (r *Runner) run(id string, jobType JobType, task Task) {
	defer r.wg.Done()
	start := time.Now()
	log := r.logger.WithJob(id, string(jobType))

	r.emit(Event{Type: JobStarted, JobID: id, JobType: jobType, Status: StatusRunning})
	log.Info("Job started")

	report := func(done, total int) {
		p := &ProgressInfo{Current: done, Total: total}
		r.mu.Lock()
		if job, ok := r.jobs[id]; ok {
			job.Progress = p
		}
		r.mu.Unlock()
		r.emit(Event{Type: JobProgress, JobID: id, JobType: jobType, Status: StatusRunning, Progress: p})
	}

	result, err := safeRun(r.ctx, task, report)
	duration := time.Since(start)
	finished := time.Now()

	r.mu.Lock()
	if job, ok := r.jobs[id]; ok {
		job.FinishedAt = &finished
		if err != nil {
			job.Status = StatusFailed
			job.Error = err.Error()
		} else {
			job.Status = StatusCompleted
			job.Result = result
		}
	}
	r.mu.Unlock()

	if err != nil {
		log.WithError(err).WithDuration(duration).Error("Job failed")
		r.emit(Event{Type: JobFailed, JobID: id, JobType: jobType, Status: StatusFailed, Error: err.Error(), Duration: duration.Seconds()})
		return
	}

	log.WithDuration(duration).Info("Job completed")
	r.emit(Event{Type: JobCompleted, JobID: id, JobType: jobType, Status: StatusCompleted, Result: result, Duration: duration.Seconds()})
}

// safeRun converts a task panic into an error
func safeRun(ctx context.Context, task Task, report contracts.ProgressFunc) (result interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return task(ctx, report)
}

func (r *Runner) emit(ev Event) {
	if r.emitter == nil {
		return
	}
	ev.Timestamp = time.Now()
	r.emitter.Emit(ev)
}

// prune drops the oldest finished jobs beyond maxRetained. Caller holds mu.
func (r *Runner) prune() {
	if len(r.jobs) <= r.maxRetained {
		return
	}

	finished := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if j.Status != StatusRunning {
			finished = append(finished, j)
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].seq < finished[j].seq
	})

	for _, j := range finished {
		if len(r.jobs) <= r.maxRetained {
			break
		}
		delete(r.jobs, j.ID)
	}
}
