package infrastructure

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

const (
	createSelectorsTableQuery = `CREATE TABLE IF NOT EXISTS role_selectors (
    message_id BIGINT PRIMARY KEY,
    channel_id BIGINT NOT NULL,
    guild_id   BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);`
	insertSelectorQuery = "INSERT INTO role_selectors (message_id, channel_id, guild_id, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT(message_id) DO NOTHING;"
	existsSelectorQuery = "SELECT EXISTS(SELECT 1 FROM role_selectors WHERE message_id = $1);"
	deleteSelectorQuery = "DELETE FROM role_selectors WHERE message_id = $1;"
)

// PostgresStore persists published selectors in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgresStore connects to the database and ensures the schema exists.
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, createSelectorsTableQuery); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert records a published selector. Inserting an existing message is a no-op.
func (s *PostgresStore) Insert(ctx context.Context, selector domain.PersistedSelector) error {
	_, err := s.pool.Exec(ctx, insertSelectorQuery,
		int64(selector.MessageID), int64(selector.ChannelID), int64(selector.GuildID), selector.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert selector: %w", err)
	}
	return nil
}

// Exists reports whether the message is a live selector.
func (s *PostgresStore) Exists(ctx context.Context, messageID snowflake.ID) (bool, error) {
	rows, _ := s.pool.Query(ctx, existsSelectorQuery, int64(messageID))
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("query selector: %w", err)
	}
	return exists, nil
}

// Delete removes the selector record.
func (s *PostgresStore) Delete(ctx context.Context, messageID snowflake.ID) error {
	if _, err := s.pool.Exec(ctx, deleteSelectorQuery, int64(messageID)); err != nil {
		return fmt.Errorf("delete selector: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ensure PostgresStore implements SelectorRepository.
var _ domain.SelectorRepository = (*PostgresStore)(nil)
