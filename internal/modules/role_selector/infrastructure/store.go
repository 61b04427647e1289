package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// Store kinds.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// ErrUnknownStore is returned for an unsupported store kind.
var ErrUnknownStore = errors.New("unknown selector store")

// StoreConfig selects and configures the selector store.
type StoreConfig struct {
	Kind        string
	SQLitePath  string
	DatabaseURL string
}

// OpenSelectorStore opens the selector store named by cfg.Kind.
func OpenSelectorStore(ctx context.Context, cfg StoreConfig) (domain.SelectorRepository, error) {
	switch cfg.Kind {
	case StoreSQLite, "":
		store, err := OpenSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		store, err := OpenPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Kind)
	}
}
