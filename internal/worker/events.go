package worker

import (
	"sync"
	"time"
)

// EventType identifies a job lifecycle event
type EventType string

const (
	JobStarted   EventType = "JOB_STARTED"
	JobProgress  EventType = "JOB_PROGRESS"
	JobCompleted EventType = "JOB_COMPLETED"
	JobFailed    EventType = "JOB_FAILED"
)

// ProgressInfo is the progress payload of a JobProgress event
type ProgressInfo struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// Event is one job lifecycle notification
// ⭐ SSOT: 작업 상태 이벤트 형식은 여기서만 정의
type Event struct {
	Type      EventType     `json:"type"`
	JobID     string        `json:"job_id"`
	JobType   JobType       `json:"job_type"`
	Status    Status        `json:"status"`
	Progress  *ProgressInfo `json:"progress,omitempty"`
	Result    interface{}   `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  float64       `json:"duration,omitempty"` // seconds
	Timestamp time.Time     `json:"timestamp"`
}

// Emitter receives job events. Implementations must not block for long.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(Event)

// Emit calls f(ev)
func (f EmitterFunc) Emit(ev Event) { f(ev) }

// Fanout delivers each event to every emitter in order
type Fanout []Emitter

// Emit forwards ev to all emitters
func (f Fanout) Emit(ev Event) {
	for _, e := range f {
		if e != nil {
			e.Emit(ev)
		}
	}
}

// Recorder keeps every emitted event in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends ev
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ForJob returns the recorded events of one job, in emission order
func (r *Recorder) ForJob(id string) []Event {
	out := make([]Event, 0)
	for _, ev := range r.Events() {
		if ev.JobID == id {
			out = append(out, ev)
		}
	}
	return out
}
