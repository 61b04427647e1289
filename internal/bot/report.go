package bot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// InitErrorReporting initializes Sentry when a DSN is configured.
// The returned function flushes buffered events and must be called before exit.
func InitErrorReporting(cfg *Config) (func(), error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// RecoverPanic recovers a panic in a handler, logs it, and reports it to Sentry.
// It must be called directly by a deferred statement.
func RecoverPanic(handler string) {
	rec := recover()
	if rec == nil {
		return
	}

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.Clone().Recover(rec)
	}
	slog.Error("recovered from panic in handler", "handler", handler, "panic", rec)
}
