package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-level configuration
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
// 전략 튜닝 값은 internal/strategyconfig (YAML)에서 관리
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production, test

	// History source
	History HistoryConfig

	// Strategy tuning file (empty = built-in defaults)
	StrategyConfigPath string

	// Scheduler
	Schedule ScheduleConfig

	// Background jobs
	Jobs JobsConfig

	// Outbound HTTP
	HTTP HTTPConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// HistoryConfig tells where the draw history comes from
type HistoryConfig struct {
	File      string // 로컬 텍스트/HTML 파일
	SourceURL string // 원격 HTML 페이지 (선택)
}

// ScheduleConfig holds cron expressions (seconds field included)
type ScheduleConfig struct {
	Enabled bool
	Refresh string
	Predict string
}

// JobsConfig limits background job submission
type JobsConfig struct {
	RatePerMinute int
	Burst         int
}

// HTTPConfig holds outbound client settings
type HTTPConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		History: HistoryConfig{
			File:      getEnv("HISTORY_FILE", "data/history.txt"),
			SourceURL: getEnv("SOURCE_URL", ""),
		},

		StrategyConfigPath: getEnv("STRATEGY_CONFIG", ""),

		Schedule: ScheduleConfig{
			Enabled: getEnvAsBool("SCHEDULE_ENABLED", true),
			Refresh: getEnv("REFRESH_SCHEDULE", "0 30 18 * * *"),
			Predict: getEnv("PREDICT_SCHEDULE", "0 0 19 * * *"),
		},

		Jobs: JobsConfig{
			RatePerMinute: getEnvAsInt("JOB_RATE_PER_MINUTE", 6),
			Burst:         getEnvAsInt("JOB_BURST", 2),
		},

		HTTP: HTTPConfig{
			Timeout:       getEnvAsDuration("HTTP_TIMEOUT", "30s"),
			MaxRetries:    getEnvAsInt("HTTP_MAX_RETRIES", 3),
			RatePerSecond: getEnvAsFloat("HTTP_RATE_PER_SECOND", 2),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration consistency
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port)
	}

	if c.History.File == "" && c.History.SourceURL == "" {
		return fmt.Errorf("one of HISTORY_FILE or SOURCE_URL is required")
	}

	if c.Jobs.RatePerMinute <= 0 {
		return fmt.Errorf("JOB_RATE_PER_MINUTE must be positive")
	}
	if c.Jobs.Burst <= 0 {
		return fmt.Errorf("JOB_BURST must be positive")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.HTTP.RatePerSecond <= 0 {
		return fmt.Errorf("HTTP_RATE_PER_SECOND must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
