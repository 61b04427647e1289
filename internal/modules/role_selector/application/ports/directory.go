package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// GuildDirectory reads the roles and custom emoji of a guild.
type GuildDirectory interface {
	// Roles returns the roles a selector may offer, in display order.
	Roles(ctx context.Context, guildID snowflake.ID) ([]domain.RoleRef, error)

	// Emojis returns the guild's custom emoji.
	Emojis(ctx context.Context, guildID snowflake.ID) ([]domain.EmojiRef, error)
}
