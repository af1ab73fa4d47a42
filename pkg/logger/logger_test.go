package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/pkg/config"
)

type testStage string

func (s testStage) String() string { return string(s) }

func newBufferLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)
	return log, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(&config.Config{Env: "test", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	log, buf := newBufferLogger(t)

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("debug message") }, "debug message", "debug"},
		{"info", func() { log.Info("info message") }, "info message", "info"},
		{"warn", func() { log.Warn("warn message") }, "warn message", "warn"},
		{"error", func() { log.Error("error message") }, "error message", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decode(t, buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
			assert.Equal(t, "test", entry["env"])
		})
	}
}

func TestWithFields(t *testing.T) {
	log, buf := newBufferLogger(t)

	log.WithFields(map[string]interface{}{
		"strategy": "gan",
		"number":   "07",
		"score":    40,
	}).WithStage(testStage("S3_STRATEGIES")).Info("rule applied")

	entry := decode(t, buf)
	assert.Equal(t, "gan", entry["strategy"])
	assert.Equal(t, "07", entry["number"])
	assert.Equal(t, float64(40), entry["score"])
	assert.Equal(t, "S3_STRATEGIES", entry["stage"])
}

func TestWithError(t *testing.T) {
	log, buf := newBufferLogger(t)

	log.WithError(errors.New("source unavailable")).WithField("attempt", 2).Error("fetch failed")

	entry := decode(t, buf)
	assert.Equal(t, "source unavailable", entry["error"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.Equal(t, "fetch failed", entry["message"])
}

func TestWithJobAndDuration(t *testing.T) {
	log, buf := newBufferLogger(t)

	log.WithComponent("worker").WithJob("job-1", "backtest").WithDuration(1500 * time.Millisecond).Info("Job completed")

	entry := decode(t, buf)
	assert.Equal(t, "worker", entry[FieldComponent])
	assert.Equal(t, "job-1", entry[FieldJobID])
	assert.Equal(t, "backtest", entry[FieldJobType])
	assert.Equal(t, float64(1500), entry[FieldDuration])
}

func TestConsoleFormat(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l *Logger)
		ordered  []string
		absent   []string
	}{
		{
			name:     "stage before message",
			log:      func(l *Logger) { l.WithStage(testStage("S1_RECORDS")).Info("Records prepared") },
			ordered:  []string{"[S1_RECORDS]", "Records prepared"},
			absent:   []string{"stage=", "<nil>"},
		},
		{
			name:     "component before message",
			log:      func(l *Logger) { l.WithComponent("scheduler").Info("Scheduler started") },
			ordered:  []string{"[scheduler]", "Scheduler started"},
			absent:   []string{"component=", "<nil>"},
		},
		{
			name:     "untagged entry",
			log:      func(l *Logger) { l.Info("test message") },
			ordered:  []string{"test message"},
			absent:   []string{"<nil>", "[]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&config.Config{Env: "test", LogLevel: "info", LogFormat: "console"}, &buf)
			tt.log(log)

			out := buf.String()
			assert.False(t, json.Valid(buf.Bytes()), "console output should not be JSON")
			// 태그는 메시지 앞에
			last := -1
			for _, want := range tt.ordered {
				idx := strings.Index(out, want)
				require.GreaterOrEqual(t, idx, 0, "missing %q in %q", want, out)
				assert.Greater(t, idx, last, "%q out of order in %q", want, out)
				last = idx
			}
			for _, bad := range tt.absent {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithField("k", "v").Info("discarded")
	})
}
