package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// FlushTimeout bounds how long queued Sentry events get before the process exits.
const FlushTimeout = 2 * time.Second

// NewLogger builds the process logger. Errors are also sent to Sentry when a
// DSN is given and the client initializes.
func NewLogger(verbose bool, sentryDSN string) (*slog.Logger, bool) {
	var sentryOptions *sentry.ClientOptions
	if sentryDSN != "" {
		sentryOptions = &sentry.ClientOptions{Dsn: sentryDSN}
	}
	return newLogger(verbose, sentryOptions)
}

func newLogger(verbose bool, sentryOptions *sentry.ClientOptions) (*slog.Logger, bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})

	var loggingToSentry bool
	if sentryOptions != nil {
		if err := sentry.Init(*sentryOptions); err != nil {
			slog.New(handler).Warn("Failed to enable Sentry output", slog.Any("err", err))
		} else {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
			loggingToSentry = true
		}
	}

	return slog.New(handler), loggingToSentry
}

// Fatal logs msg at error level, waits for Sentry delivery and exits with 1.
func Fatal(msg string, args ...any) {
	errorAndFlush(msg, args...)
	os.Exit(1)
}

func errorAndFlush(msg string, args ...any) {
	slog.Error(msg, args...)
	// No-op when Sentry was never initialized.
	sentry.Flush(FlushTimeout)
}
