package infrastructure

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// Ensure DiscordDirectory implements ports.GuildDirectory.
var _ ports.GuildDirectory = (*DiscordDirectory)(nil)

// DiscordDirectory reads guild roles and emoji over the Discord REST API.
type DiscordDirectory struct {
	session *discordgo.Session
}

// NewDiscordDirectory creates a new DiscordDirectory.
func NewDiscordDirectory(session *discordgo.Session) *DiscordDirectory {
	return &DiscordDirectory{session: session}
}

// Roles returns the roles that can be granted by a bot, highest first.
// @everyone and integration-managed roles are excluded.
func (d *DiscordDirectory) Roles(ctx context.Context, guildID snowflake.ID) ([]domain.RoleRef, error) {
	roles, err := d.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	return toRoleRefs(guildID, roles), nil
}

// Emojis returns the guild's custom emoji.
func (d *DiscordDirectory) Emojis(ctx context.Context, guildID snowflake.ID) ([]domain.EmojiRef, error) {
	emojis, err := d.session.GuildEmojis(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild emoji: %w", err)
	}

	out := make([]domain.EmojiRef, 0, len(emojis))
	for _, e := range emojis {
		id, err := snowflake.Parse(e.ID)
		if err != nil {
			continue
		}
		out = append(out, domain.EmojiRef{ID: id, Name: e.Name, Animated: e.Animated})
	}
	return out, nil
}

func toRoleRefs(guildID snowflake.ID, roles []*discordgo.Role) []domain.RoleRef {
	sorted := slices.Clone(roles)
	slices.SortStableFunc(sorted, func(a, b *discordgo.Role) int {
		return cmp.Compare(b.Position, a.Position)
	})

	out := make([]domain.RoleRef, 0, len(sorted))
	for _, r := range sorted {
		// The @everyone role shares the guild's ID.
		if r.Managed || r.ID == guildID.String() {
			continue
		}
		id, err := snowflake.Parse(r.ID)
		if err != nil {
			continue
		}
		out = append(out, domain.RoleRef{ID: id, Name: r.Name})
	}
	return out
}
