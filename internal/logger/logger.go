package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide structured logger
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

type ctxKey struct{}

// Config controls logger construction
type Config struct {
	Service string
	Level   string
	// Format is "json" or "console"
	Format string
	Output io.Writer
}

// Init initializes the global logger
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()

	log.Logger = Logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithRequestID stores a request-scoped logger carrying the request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Logger.With().Str("request_id", requestID).Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// Ctx returns the request-scoped logger, or the global one
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return l
		}
	}
	return &Logger
}
