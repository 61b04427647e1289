package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// MemberRoles reads and mutates a guild member's roles.
type MemberRoles interface {
	CurrentRoles(ctx context.Context, guildID, userID snowflake.ID) ([]snowflake.ID, error)
	AddRoles(ctx context.Context, guildID, userID snowflake.ID, roleIDs []snowflake.ID) error
	RemoveRoles(ctx context.Context, guildID, userID snowflake.ID, roleIDs []snowflake.ID) error
}
