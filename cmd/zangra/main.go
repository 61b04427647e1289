package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sglre6355/zangra/internal/bot"
	_ "github.com/sglre6355/zangra/internal/modules/role_selector"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/zangra
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Values already in the environment take precedence over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env file", "error", err)
		return 1
	}

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger, logFile := bot.NewLogger(cfg, os.Stdout)
	defer logFile.Close()
	slog.SetDefault(logger)

	flush, err := bot.InitErrorReporting(cfg)
	if err != nil {
		slog.Error("failed to initialize error reporting", "error", err)
		return 1
	}
	defer flush()

	slog.Info("starting zangra", "version", version, "environment", cfg.Environment)

	// Create and configure bot
	b := bot.NewBot(cfg)
	b.LoadModules()

	// Start bot
	if err := b.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		if err := b.Stop(); err != nil {
			slog.Warn("failed to clean up after failed start", "error", err)
		}
		return 1
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
	return 0
}
