package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/lotoscope/pkg/config"
)

// Field keys shared by every component. Log queries filter on these.
const (
	FieldStage     = "stage"
	FieldComponent = "component"
	FieldJobID     = "job_id"
	FieldJobType   = "job_type"
	FieldDuration  = "duration_ms"
)

// Logger is a structured logger wrapper around zerolog.
// Entries are tagged by pipeline stage (S0..S5) or by component (api, worker, scheduler).
// ⭐ SSOT: 모든 로깅은 이 패키지를 통해서만 수행
type Logger struct {
	zlog zerolog.Logger
}

// New creates a new Logger writing to stdout
// ⭐ SSOT: zerolog 인스턴스는 여기서만 생성
func New(cfg *config.Config) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a Logger writing to w. "console"/"pretty" wraps w in a ConsoleWriter.
func NewWithWriter(cfg *config.Config, w io.Writer) *Logger {
	output := w
	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			// stage/component를 메시지 앞에 표시
			PartsOrder: []string{
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				FieldStage,
				FieldComponent,
				zerolog.MessageFieldName,
			},
			FieldsExclude: []string{FieldStage, FieldComponent},
			FormatPartValueByName: func(v interface{}, _ string) string {
				if v == nil {
					return ""
				}
				return fmt.Sprintf("[%v]", v)
			},
		}
	}

	zerolog.SetGlobalLevel(parseLogLevel(cfg.LogLevel))

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with multiple fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// WithStage tags entries with a pipeline stage (contracts.StageData ...)
func (l *Logger) WithStage(stage fmt.Stringer) *Logger {
	return &Logger{zlog: l.zlog.With().Str(FieldStage, stage.String()).Logger()}
}

// WithComponent tags entries with the long-running component that wrote them
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(FieldComponent, name).Logger()}
}

// WithJob tags entries with a background job id and type
func (l *Logger) WithJob(id, jobType string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(FieldJobID, id).Str(FieldJobType, jobType).Logger()}
}

// WithDuration adds an elapsed time in milliseconds
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{zlog: l.zlog.With().Dur(FieldDuration, d).Logger()}
}
