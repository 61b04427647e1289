package ports

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ErrAwaitTimeout is returned when no qualifying event arrives before the timeout.
var ErrAwaitTimeout = errors.New("timed out waiting for interaction")

// ComponentInteraction is a button click or select menu submission on a message.
type ComponentInteraction struct {
	MessageID snowflake.ID
	UserID    snowflake.ID
	CustomID  string
	Values    []string
}

// MessageReply is a channel message that replies to another message.
type MessageReply struct {
	ChannelID    snowflake.ID
	MessageID    snowflake.ID
	ReferencedID snowflake.ID
	AuthorID     snowflake.ID
	Content      string
}

// InteractionAwaiter suspends a setup session until its next event.
type InteractionAwaiter interface {
	// AwaitComponent waits for a component interaction on the given message.
	AwaitComponent(ctx context.Context, messageID snowflake.ID, timeout time.Duration) (ComponentInteraction, error)

	// AwaitReply waits for a message in channelID that replies to referencedID,
	// or for a component interaction on referencedID, whichever comes first.
	// A non-zero authorID restricts replies to that author.
	AwaitReply(
		ctx context.Context,
		channelID, referencedID, authorID snowflake.ID,
		timeout time.Duration,
	) (ReplyOrComponent, error)
}

// ReplyOrComponent is the outcome of AwaitReply. Exactly one field is set.
type ReplyOrComponent struct {
	Reply     *MessageReply
	Component *ComponentInteraction
}
