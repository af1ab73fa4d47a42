package logger_test

import (
	"errors"
	"time"

	"github.com/wonny/lotoscope/pkg/config"
	"github.com/wonny/lotoscope/pkg/logger"
)

type stage string

func (s stage) String() string { return string(s) }

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithField("days", 365).Info("History loaded")

	log.WithFields(map[string]interface{}{
		"strategy": "cycle",
		"weight":   1.0,
	}).WithStage(stage("S3_STRATEGIES")).Info("Strategy scored")

	log.WithComponent("worker").WithJob("3f2a", "backtest").WithDuration(1200 * time.Millisecond).Info("Job completed")

	log.WithError(errors.New("source timeout")).Error("Refresh failed")
}
