package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/internal/api/handlers"
	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/testutil"
	"github.com/wonny/lotoscope/internal/worker"
	"github.com/wonny/lotoscope/pkg/logger"
)

type fixture struct {
	store  *brain.HistoryStore
	runner *worker.Runner
	hub    *Hub
	router http.Handler
}

type staticLoader struct{ days int }

func (l staticLoader) LoadHistory(context.Context) (*brain.History, error) {
	records := testutil.RandomHistory(5, l.days)
	return &brain.History{Records: records, Summary: contracts.Summarize(records), LoadedAt: time.Now()}, nil
}

func newFixture(t *testing.T, jobs worker.Config, days int) *fixture {
	t.Helper()
	log := logger.Nop()

	engine := brain.New(nil, nil, log)
	store := brain.NewHistoryStore(staticLoader{days: days})
	hub := NewHub(log)
	runner := worker.NewRunner(jobs, hub, log)
	t.Cleanup(func() { runner.Shutdown(context.Background()) })

	router := NewRouter(
		handlers.NewJobHandler(store, engine, runner, log),
		handlers.NewHistoryHandler(store, engine, log),
		hub,
		log,
	)
	return &fixture{store: store, runner: runner, hub: hub, router: router}
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	_, err := f.store.Refresh(context.Background())
	require.NoError(t, err)
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func unlimitedJobs() worker.Config {
	return worker.Config{Burst: 100, MaxRetained: 100}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)
	rec := f.do("GET", "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestHistorySummary(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)

	rec := f.do("GET", "/api/history/summary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.load(t)
	rec = f.do("GET", "/api/history/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary contracts.HistorySummary `json:"summary"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 210, body.Summary.Days)
}

func TestAnalysis(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)
	f.load(t)

	tests := []struct {
		path string
		code int
	}{
		{"/api/analysis/42", http.StatusOK},
		{"/api/analysis/7", http.StatusBadRequest},
		{"/api/analysis/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.do("GET", tt.path)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	rec := f.do("GET", "/api/analysis/77")
	var report brain.NumberReport
	decode(t, rec, &report)
	assert.Equal(t, "77", report.Number)
	assert.Len(t, report.StrategyScores, 12)
}

func TestAnalysis_InsufficientHistory(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 50)
	f.load(t)

	rec := f.do("GET", "/api/analysis/42")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient data")
}

func TestPredictJob(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)

	rec := f.do("POST", "/api/predict")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.load(t)
	rec = f.do("POST", "/api/predict")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted handlers.JobAccepted
	decode(t, rec, &accepted)
	assert.Equal(t, worker.JobPredict, accepted.Type)
	assert.Equal(t, worker.StatusRunning, accepted.Status)

	f.runner.Wait()

	rec = f.do("GET", "/api/jobs/"+accepted.JobID)
	require.Equal(t, http.StatusOK, rec.Code)

	var job struct {
		Status worker.Status        `json:"status"`
		Result contracts.Prediction `json:"result"`
	}
	decode(t, rec, &job)
	assert.Equal(t, worker.StatusCompleted, job.Status)
	assert.Len(t, job.Result.Numbers, 16)
	assert.IsIncreasing(t, job.Result.Numbers)
}

func TestPredictJob_InsufficientHistoryFails(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 50)
	f.load(t)

	rec := f.do("POST", "/api/predict")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var accepted handlers.JobAccepted
	decode(t, rec, &accepted)
	f.runner.Wait()

	job, ok := f.runner.Get(accepted.JobID)
	require.True(t, ok)
	assert.Equal(t, worker.StatusFailed, job.Status)
	assert.Contains(t, job.Error, "insufficient data")
}

func TestBacktestJob(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 203)
	f.load(t)

	rec := f.do("POST", "/api/backtest?days=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do("POST", "/api/backtest?days=2")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var accepted handlers.JobAccepted
	decode(t, rec, &accepted)
	f.runner.Wait()

	rec = f.do("GET", "/api/jobs/"+accepted.JobID)
	var job struct {
		Status   worker.Status            `json:"status"`
		Progress *worker.ProgressInfo     `json:"progress"`
		Result   contracts.BacktestReport `json:"result"`
	}
	decode(t, rec, &job)
	assert.Equal(t, worker.StatusCompleted, job.Status)
	assert.Equal(t, 2, job.Result.DaysTested)
	assert.Equal(t, int64(2*16*23_000), job.Result.TotalInvestment)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 2, job.Progress.Current)
}

func TestJobs_NotFound(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)
	rec := f.do("GET", "/api/jobs/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobs_RateLimited(t *testing.T) {
	f := newFixture(t, worker.Config{RatePerMinute: 1, Burst: 1}, 210)

	rec := f.do("POST", "/api/history/refresh")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	rec = f.do("POST", "/api/history/refresh")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	f.runner.Wait()
	require.NotNil(t, f.store.Current())
	assert.Len(t, f.runner.List(), 1)
}

func TestWebsocketStreamsJobEvents(t *testing.T) {
	f := newFixture(t, unlimitedJobs(), 210)
	f.load(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/predict", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var types []worker.EventType
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for len(types) < 2 {
		var ev worker.Event
		require.NoError(t, conn.ReadJSON(&ev))
		types = append(types, ev.Type)
	}
	assert.Equal(t, []worker.EventType{worker.JobStarted, worker.JobCompleted}, types)
}
