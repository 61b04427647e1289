package domain

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// PersistedSelector is the durable record of a published role selector.
// Its existence marks the message as a live selector.
type PersistedSelector struct {
	MessageID snowflake.ID
	ChannelID snowflake.ID
	GuildID   snowflake.ID
	CreatedAt time.Time
}

// SelectorRepository stores published selectors.
// Insert is idempotent: inserting an existing message ID is not an error.
type SelectorRepository interface {
	Insert(ctx context.Context, selector PersistedSelector) error
	Exists(ctx context.Context, messageID snowflake.ID) (bool, error)
	Delete(ctx context.Context, messageID snowflake.ID) error
	Close() error
}

// SessionRepository tracks in-progress setup sessions by owner message ID.
type SessionRepository interface {
	Get(ownerMessageID snowflake.ID) (*SelectorSession, bool)
	// Save returns ErrEditInProgress if another session already edits the same selector.
	Save(session *SelectorSession) error
	Delete(ownerMessageID snowflake.ID)
	FindByEditTarget(messageID snowflake.ID) (*SelectorSession, bool)
	Count() int
}
