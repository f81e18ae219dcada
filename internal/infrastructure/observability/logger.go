package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type loggerConfig struct {
	out   io.Writer
	level *zerolog.Level
}

// LoggerOption customizes InitLogger.
type LoggerOption func(*loggerConfig)

// WithWriter sends log output to w instead of stdout.
func WithWriter(w io.Writer) LoggerOption {
	return func(c *loggerConfig) { c.out = w }
}

// WithLevel overrides the environment's default level.
func WithLevel(level zerolog.Level) LoggerOption {
	return func(c *loggerConfig) { c.level = &level }
}

// InitLogger initializes the global zerolog logger. Development mode writes
// human readable output at debug level; everything else writes JSON at info.
func InitLogger(serviceName, env string, opts ...LoggerOption) {
	cfg := loggerConfig{out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		zerolog.SetGlobalLevel(levelOr(cfg.level, zerolog.DebugLevel))
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        cfg.out,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("service", serviceName).
			Logger()
		return
	}

	zerolog.SetGlobalLevel(levelOr(cfg.level, zerolog.InfoLevel))
	log.Logger = zerolog.New(cfg.out).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

func levelOr(level *zerolog.Level, fallback zerolog.Level) zerolog.Level {
	if level == nil {
		return fallback
	}
	return *level
}

// LoggerFromContext returns the global logger enriched with the trace and
// span ids of ctx, if any.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
