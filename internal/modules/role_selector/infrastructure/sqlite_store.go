package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists published selectors in an embedded SQLite database.
// It uses modernc.org/sqlite for CGO-less builds.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the database at path, configures pragmas, and ensures the schema exists.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA synchronous=NORMAL;`,
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS role_selectors (
    message_id INTEGER PRIMARY KEY,
    channel_id INTEGER NOT NULL,
    guild_id   INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_role_selectors_guild ON role_selectors(guild_id);`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert records a published selector. Inserting an existing message is a no-op.
func (s *SQLiteStore) Insert(ctx context.Context, selector domain.PersistedSelector) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO role_selectors (message_id, channel_id, guild_id, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(message_id) DO NOTHING`,
		int64(selector.MessageID), int64(selector.ChannelID), int64(selector.GuildID), selector.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert selector: %w", err)
	}
	return nil
}

// Exists reports whether the message is a live selector.
func (s *SQLiteStore) Exists(ctx context.Context, messageID snowflake.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM role_selectors WHERE message_id = ?)`,
		int64(messageID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query selector: %w", err)
	}
	return exists, nil
}

// Delete removes the selector record.
func (s *SQLiteStore) Delete(ctx context.Context, messageID snowflake.ID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM role_selectors WHERE message_id = ?`, int64(messageID))
	if err != nil {
		return fmt.Errorf("delete selector: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements SelectorRepository.
var _ domain.SelectorRepository = (*SQLiteStore)(nil)
