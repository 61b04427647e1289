package bot

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 5
	logFileMaxAgeDays = 28
)

// NewLogger builds the process logger from the configuration.
// The returned closer releases the log file, if any.
func NewLogger(cfg *Config, stdout *os.File) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, file)
		closer = file
	}

	var handler slog.Handler
	switch cfg.LogFormat {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel})
	default:
		handler = tint.NewHandler(out, &tint.Options{
			Level: cfg.LogLevel,
			// Colour codes would end up in the log file.
			NoColor: cfg.LogFile != "" || !isatty.IsTerminal(stdout.Fd()),
		})
	}

	return slog.New(&sentryHandler{Handler: handler}), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// sentryHandler reports Error records that carry an "error" attribute to Sentry.
type sentryHandler struct {
	slog.Handler
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		if err := recordError(r); err != nil {
			captureError(err, r.Message)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithGroup(name)}
}

func recordError(r slog.Record) error {
	var found error
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "error" {
			return true
		}
		if err, ok := a.Value.Any().(error); ok {
			found = err
			return false
		}
		return true
	})
	return found
}

func captureError(err error, message string) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("log_message", message)
		hub.CaptureException(err)
	})
}
