package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"golang.org/x/time/rate"
)

// Ensure DiscordMemberRoles implements ports.MemberRoles.
var _ ports.MemberRoles = (*DiscordMemberRoles)(nil)

// DiscordMemberRoles reads and mutates member roles over the Discord REST API.
// Role mutations share one limiter so bursts of selector clicks stay under Discord's rate limits.
type DiscordMemberRoles struct {
	session *discordgo.Session
	limiter *rate.Limiter
}

// NewDiscordMemberRoles creates a new DiscordMemberRoles allowing perSecond mutations with the given burst.
func NewDiscordMemberRoles(session *discordgo.Session, perSecond float64, burst int) *DiscordMemberRoles {
	return &DiscordMemberRoles{
		session: session,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// CurrentRoles fetches the member's role IDs over REST.
// The state cache is not consulted: without the guild members intent it misses role updates.
func (r *DiscordMemberRoles) CurrentRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
) ([]snowflake.ID, error) {
	member, err := r.session.GuildMember(guildID.String(), userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild member: %w", err)
	}
	return ParseRoleIDs(member.Roles), nil
}

// ParseRoleIDs parses Discord role IDs, skipping malformed ones.
// The result is never nil.
func ParseRoleIDs(roles []string) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(roles))
	for _, s := range roles {
		id, err := snowflake.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// AddRoles grants each role in turn. Failures do not stop the remaining grants.
func (r *DiscordMemberRoles) AddRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
	roleIDs []snowflake.ID,
) error {
	return r.each(ctx, roleIDs, func(roleID snowflake.ID) error {
		return r.session.GuildMemberRoleAdd(
			guildID.String(), userID.String(), roleID.String(), discordgo.WithContext(ctx),
		)
	})
}

// RemoveRoles revokes each role in turn. Failures do not stop the remaining revocations.
func (r *DiscordMemberRoles) RemoveRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
	roleIDs []snowflake.ID,
) error {
	return r.each(ctx, roleIDs, func(roleID snowflake.ID) error {
		return r.session.GuildMemberRoleRemove(
			guildID.String(), userID.String(), roleID.String(), discordgo.WithContext(ctx),
		)
	})
}

func (r *DiscordMemberRoles) each(
	ctx context.Context,
	roleIDs []snowflake.ID,
	fn func(snowflake.ID) error,
) error {
	var errs []error
	for _, roleID := range roleIDs {
		if err := r.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		if err := fn(roleID); err != nil {
			errs = append(errs, fmt.Errorf("role %s: %w", roleID, err))
		}
	}
	return errors.Join(errs...)
}
