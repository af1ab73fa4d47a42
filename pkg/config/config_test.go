package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("HISTORY_FILE", "testdata/history.txt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "testdata/history.txt", cfg.History.File)
	assert.Equal(t, 6, cfg.Jobs.RatePerMinute)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "0 30 18 * * *", cfg.Schedule.Refresh)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("HISTORY_FILE", "")
	t.Setenv("SOURCE_URL", "https://example.com/results")
	t.Setenv("JOB_RATE_PER_MINUTE", "30")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STRATEGY_CONFIG", "strategy.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	// 빈 값은 기본값으로 대체
	assert.Equal(t, "data/history.txt", cfg.History.File)
	assert.Equal(t, "https://example.com/results", cfg.History.SourceURL)
	assert.Equal(t, 30, cfg.Jobs.RatePerMinute)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "strategy.yaml", cfg.StrategyConfigPath)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:    "8089",
			Env:     "development",
			History: HistoryConfig{File: "history.txt"},
			Jobs:    JobsConfig{RatePerMinute: 6, Burst: 1},
			HTTP:    HTTPConfig{Timeout: time.Second, RatePerSecond: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"invalid env", func(c *Config) { c.Env = "invalid" }, "ENV"},
		{"invalid port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "PORT"},
		{"no history source", func(c *Config) { c.History = HistoryConfig{} }, "HISTORY_FILE"},
		{"zero job rate", func(c *Config) { c.Jobs.RatePerMinute = 0 }, "JOB_RATE_PER_MINUTE"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "HTTP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")
	t.Setenv("TEST_INT", "100")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_FLOAT", "0.5")
	t.Setenv("TEST_BAD_INT", "abc")

	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
	assert.Equal(t, 100, getEnvAsInt("TEST_INT", 50))
	assert.Equal(t, 50, getEnvAsInt("TEST_BAD_INT", 50))
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.Equal(t, 0.5, getEnvAsFloat("TEST_FLOAT", 1))
	assert.Equal(t, time.Minute, getEnvAsDuration("TEST_MISSING", "1m"))
}
