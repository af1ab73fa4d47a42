package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/lotoscope/internal/api"
	"github.com/wonny/lotoscope/internal/api/handlers"
	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/scheduler"
	"github.com/wonny/lotoscope/internal/scheduler/jobs"
	"github.com/wonny/lotoscope/internal/worker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 + 스케줄러 시작",
	Long: `HTTP API 서버와 히스토리 갱신/일일 예측 스케줄러를 시작합니다.
예측/백테스트는 백그라운드 작업으로 실행되고 /ws 로 진행 이벤트가 전송됩니다.

Endpoints:
  GET  /health                  - Health check
  POST /api/predict             - 예측 작업 제출
  POST /api/backtest?days=N     - 백테스트 작업 제출
  GET  /api/jobs                - 작업 목록
  GET  /api/jobs/{id}           - 작업 상태/결과
  GET  /api/history/summary     - 히스토리 요약
  POST /api/history/refresh     - 히스토리 갱신 작업 제출
  GET  /api/analysis/{number}   - 번호 분석
  GET  /ws                      - 작업 이벤트 스트림

Example:
  go run ./cmd/lotoscope serve
  go run ./cmd/lotoscope serve --port 8080 --no-schedule`,
	RunE: runServe,
}

var (
	servePort       string
	serveNoSchedule bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default: PORT)")
	serveCmd.Flags().BoolVar(&serveNoSchedule, "no-schedule", false, "스케줄러 비활성화")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if servePort != "" {
		a.cfg.Port = servePort
	}
	log := a.log

	log.WithFields(map[string]interface{}{
		"port":        a.cfg.Port,
		"env":         a.cfg.Env,
		"config_hash": a.engine.ConfigHash(),
	}).Info("Initializing API server")

	// 1. History snapshot (첫 로드 실패 시에도 서버는 시작, 갱신 작업으로 복구)
	store := brain.NewHistoryStore(a.orchestrator)
	if _, err := store.Refresh(cmd.Context()); err != nil {
		log.WithError(err).Warn("Initial history load failed")
	}

	// 2. Job runner + event hub
	hub := api.NewHub(log)
	runner := worker.NewRunner(worker.Config{
		RatePerMinute: a.cfg.Jobs.RatePerMinute,
		Burst:         a.cfg.Jobs.Burst,
	}, hub, log)

	// 3. Router + server
	router := api.NewRouter(
		handlers.NewJobHandler(store, a.engine, runner, log),
		handlers.NewHistoryHandler(store, a.engine, log),
		hub,
		log,
	)
	server := api.New(a.cfg, log, router, hub)

	// 4. Scheduler
	var sched *scheduler.Scheduler
	if a.cfg.Schedule.Enabled && !serveNoSchedule {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewRefreshJob(store, a.cfg.Schedule.Refresh, log)); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		if err := sched.AddJob(jobs.NewPredictJob(store, a.engine, a.cfg.Schedule.Predict, log)); err != nil {
			return fmt.Errorf("schedule predict: %w", err)
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	select {
	case <-cmd.Context().Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}
	if err := runner.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Job runner did not stop cleanly")
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
