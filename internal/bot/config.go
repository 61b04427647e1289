package bot

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	// GuildID registers commands to a single guild instead of globally.
	GuildID string `env:"DISCORD_GUILD_ID"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string     `env:"LOG_FILE"`

	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be %q or %q", cfg.LogFormat, LogFormatText, LogFormatJSON)
	}

	return cfg, nil
}
