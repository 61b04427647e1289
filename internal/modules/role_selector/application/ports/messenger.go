package ports

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// ErrNotSelector is returned when a message is not a published role selector.
var ErrNotSelector = errors.New("this message is not a role selector")

// Messenger sends, edits, and reads channel messages.
type Messenger interface {
	// SendMessage posts the view to the channel and returns the new message ID.
	SendMessage(ctx context.Context, channelID snowflake.ID, view View) (snowflake.ID, error)

	// EditMessage replaces the message's content, embeds, and components with the view.
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, view View) error

	// DeleteMessage deletes a message.
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error

	// FetchSelector reads a published role selector back from its message.
	// It returns ErrNotSelector when the message carries no role selector menu.
	FetchSelector(ctx context.Context, channelID, messageID snowflake.ID) (*PublishedSelector, error)
}

// PublishedSelector is the state of a live selector message as rendered in Discord.
type PublishedSelector struct {
	RoleIDs       []snowflake.ID // Select menu options, in order
	MaxSelections int
	Content       string
	Embeds        []domain.Embed
	HasEmojis     bool // Every option carries a custom emoji
}
