package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

type ctxKey struct{}

// Init configures the global logger. Development environments get the console writer.
func Init(env string, logLevel string) {
	var output io.Writer = os.Stdout
	if env == "development" || env == "dev" || env == "" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	configure(output, logLevel, true)
}

// InitCLI sends human-readable logs to stderr so they never mix with command output.
func InitCLI(logLevel string) {
	configure(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, logLevel, false)
}

func configure(output io.Writer, logLevel string, withCaller bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(logLevel))

	lc := zerolog.New(output).With().Timestamp()
	if withCaller {
		lc = lc.Caller()
	}
	log = lc.Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(logLevel string) zerolog.Level {
	switch logLevel {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request-scoped logger stored in ctx, or the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &log
	}
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext creates a new context with the logger
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithRequestID adds a request ID to the logger
func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// WithSessionID tags a logger with the browsing session.
func WithSessionID(l zerolog.Logger, sessionID string) zerolog.Logger {
	return l.With().Str("session_id", sessionID).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

// DBQuery logs a database query
func DBQuery(ctx context.Context, query string, duration time.Duration, err error) {
	event := WithContext(ctx).Debug().
		Str("query", query).
		Dur("duration_ms", duration)

	if err != nil {
		event.Err(err).Msg("DB Query Failed")
	} else {
		event.Msg("DB Query")
	}
}

// FeedLoaded logs the outcome of a catalog load.
func FeedLoaded(ctx context.Context, source string, records, products int, duration time.Duration) {
	WithContext(ctx).Info().
		Str("source", source).
		Int("records", records).
		Int("products", products).
		Dur("duration_ms", duration).
		Msg("Catalog loaded")
}

// ServiceStart logs service startup
func ServiceStart(name, version, port string) {
	log.Info().
		Str("service", name).
		Str("version", version).
		Str("port", port).
		Msg("Service Started")
}

// ServiceStop logs service shutdown
func ServiceStop(name string) {
	log.Info().
		Str("service", name).
		Msg("Service Stopped")
}
