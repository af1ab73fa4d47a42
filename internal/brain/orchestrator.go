package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s0_data/quality"
	"github.com/wonny/lotoscope/internal/s1_records"
	"github.com/wonny/lotoscope/pkg/logger"
)

// Orchestrator coordinates the pipeline from raw source to prediction
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	source      contracts.DrawSource
	qualityGate *quality.QualityGate
	preparer    *s1_records.Preparer
	engine      *Engine

	logger *logger.Logger
}

// History is a prepared history with its load diagnostics
type History struct {
	Records  []contracts.DailyDrawRecord    `json:"-"`
	Summary  contracts.HistorySummary       `json:"summary"`
	Quality  *contracts.DataQualitySnapshot `json:"quality"`
	Warnings []contracts.ParseWarning       `json:"warnings,omitempty"`
	LoadedAt time.Time                      `json:"loaded_at"`
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string                `json:"run_id"`
	Success         bool                  `json:"success"`
	Error           error                 `json:"-"`
	CompletedStages []string              `json:"completed_stages"`
	History         *History              `json:"history"`
	Prediction      *contracts.Prediction `json:"prediction,omitempty"`
	Duration        time.Duration         `json:"duration"`
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	source contracts.DrawSource,
	qualityGate *quality.QualityGate,
	preparer *s1_records.Preparer,
	engine *Engine,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:      source,
		qualityGate: qualityGate,
		preparer:    preparer,
		engine:      engine,
		logger:      logger,
	}
}

// Engine returns the prediction engine
func (o *Orchestrator) Engine() *Engine {
	return o.engine
}

// LoadHistory runs S0 (load + quality) and S1 (records)
func (o *Orchestrator) LoadHistory(ctx context.Context) (*History, error) {
	draws, warnings, err := o.runS0(ctx)
	if err != nil {
		return nil, fmt.Errorf("S0 failed: %w", err)
	}

	snapshot := o.qualityGate.Check(draws)
	records := o.runS1(draws)

	summary := contracts.Summarize(records)
	summary.ActiveStrategies = len(o.engine.Strategies())

	return &History{
		Records:  records,
		Summary:  summary,
		Quality:  snapshot,
		Warnings: warnings,
		LoadedAt: time.Now(),
	}, nil
}

// Run executes S0 → S4 and returns the prediction for the next day
func (o *Orchestrator) Run(ctx context.Context, runID string) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           runID,
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":      runID,
		"config_hash": o.engine.ConfigHash(),
	}).Info("Starting pipeline run")

	history, err := o.LoadHistory(ctx)
	if err != nil {
		result.Error = err
		return result, err
	}
	result.History = history
	result.CompletedStages = append(result.CompletedStages,
		contracts.StageData.ShortName()+":Data",
		contracts.StageRecords.ShortName()+":Records",
	)

	prediction, err := o.engine.PredictNextDay(ctx, history.Records)
	if err != nil {
		result.Error = fmt.Errorf("S4 failed: %w", err)
		return result, result.Error
	}
	result.Prediction = prediction
	result.CompletedStages = append(result.CompletedStages,
		contracts.StageAnalyzer.ShortName()+":Analyzer",
		contracts.StageStrategies.ShortName()+":Strategies",
		contracts.StageSelection.ShortName()+":Selection",
	)

	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithDuration(result.Duration).WithFields(map[string]interface{}{
		"run_id":      runID,
		"stages":      len(result.CompletedStages),
		"target_date": prediction.TargetDate.Format("2006-01-02"),
		"numbers":     prediction.Numbers,
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// runS0 loads raw draws from the source
func (o *Orchestrator) runS0(ctx context.Context) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	log := o.logger.WithStage(contracts.StageData)
	log.Info("Running S0: Load history")

	draws, warnings, err := o.source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load draws: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"days":     len(draws),
		"warnings": len(warnings),
	}).Info("S0 completed")

	return draws, warnings, nil
}

// runS1 prepares daily records
func (o *Orchestrator) runS1(draws []contracts.RawDraw) []contracts.DailyDrawRecord {
	records := o.preparer.Prepare(draws)

	o.logger.WithStage(contracts.StageRecords).WithFields(map[string]interface{}{
		"records": len(records),
	}).Info("S1 completed")

	return records
}
