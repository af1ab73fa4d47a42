package commands

import (
	"fmt"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/s0_data"
	"github.com/wonny/lotoscope/internal/s0_data/quality"
	"github.com/wonny/lotoscope/internal/s1_records"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/pkg/config"
	"github.com/wonny/lotoscope/pkg/httputil"
	"github.com/wonny/lotoscope/pkg/logger"
)

// app bundles the wired pipeline shared by every command
type app struct {
	cfg          *config.Config
	strategyCfg  *strategyconfig.Config
	log          *logger.Logger
	http         *httputil.Client
	engine       *brain.Engine
	orchestrator *brain.Orchestrator
}

// newApp loads env + strategy config, applies global flags and wires S0..S4
func newApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if historyFile != "" {
		cfg.History.File = historyFile
		cfg.History.SourceURL = ""
	}
	if sourceURL != "" {
		cfg.History.SourceURL = sourceURL
	}
	if strategyConfigFile != "" {
		cfg.StrategyConfigPath = strategyConfigFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Strategy config
	strategyCfg, err := strategyconfig.LoadOrDefault(cfg.StrategyConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}
	if len(strategies) > 0 {
		strategyCfg, err = strategyCfg.Only(strategies...)
		if err != nil {
			return nil, fmt.Errorf("--strategy: %w", err)
		}
	}
	for _, w := range strategyconfig.Warn(strategyCfg) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	// 4. Wire pipeline
	client := httputil.New(cfg, log)
	engine := brain.New(strategyCfg, nil, log)
	orchestrator := brain.NewOrchestrator(
		s0_data.NewSource(cfg, client, log),
		quality.NewQualityGate(quality.DefaultConfig(), log),
		s1_records.NewPreparer(log),
		engine,
		log,
	)

	return &app{
		cfg:          cfg,
		strategyCfg:  strategyCfg,
		log:          log,
		http:         client,
		engine:       engine,
		orchestrator: orchestrator,
	}, nil
}
