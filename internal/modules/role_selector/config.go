package role_selector

import "time"

// Config holds the role selector module configuration.
type Config struct {
	Store        string        `env:"ROLE_SELECTOR_STORE" envDefault:"sqlite"`
	SQLitePath   string        `env:"ROLE_SELECTOR_SQLITE_PATH" envDefault:"data/zangra.db"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	SetupTimeout time.Duration `env:"ROLE_SELECTOR_SETUP_TIMEOUT" envDefault:"10m"`
	ReplyTimeout time.Duration `env:"ROLE_SELECTOR_REPLY_TIMEOUT" envDefault:"5m"`
	RoleRate     float64       `env:"ROLE_SELECTOR_ROLE_RATE" envDefault:"5"`
	RoleBurst    int           `env:"ROLE_SELECTOR_ROLE_BURST" envDefault:"10"`
}
