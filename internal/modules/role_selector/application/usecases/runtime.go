package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// SelectInput contains the input for the Select use case.
type SelectInput struct {
	GuildID     snowflake.ID
	MessageID   snowflake.ID
	UserID      snowflake.ID
	MenuRoleIDs []snowflake.ID // Every role offered by the selector's menu
	Submitted   []snowflake.ID

	// MemberRoleIDs are the roles the member holds, as sent with the interaction.
	// Nil reads them from Discord instead.
	MemberRoleIDs []snowflake.ID
}

// ClearInput contains the input for the Clear use case.
type ClearInput struct {
	GuildID     snowflake.ID
	MessageID   snowflake.ID
	UserID      snowflake.ID
	MenuRoleIDs []snowflake.ID

	// MemberRoleIDs are the roles the member holds, as sent with the interaction.
	// Nil reads them from Discord instead.
	MemberRoleIDs []snowflake.ID
}

// RoleChangeOutput contains the result of the Select and Clear use cases.
type RoleChangeOutput struct {
	Handled bool // False if the message is not a live selector
	Change  domain.RoleChange
}

// RuntimeService applies end-user interactions with published selectors.
type RuntimeService struct {
	selectors domain.SelectorRepository
	members   ports.MemberRoles
}

// NewRuntimeService creates a new RuntimeService.
func NewRuntimeService(selectors domain.SelectorRepository, members ports.MemberRoles) *RuntimeService {
	return &RuntimeService{
		selectors: selectors,
		members:   members,
	}
}

// IsSelector reports whether the message is a live role selector.
func (r *RuntimeService) IsSelector(ctx context.Context, messageID snowflake.ID) (bool, error) {
	return r.selectors.Exists(ctx, messageID)
}

// Select grants the submitted menu roles and revokes the menu roles that were left out.
// Messages that are not live selectors are skipped without error.
func (r *RuntimeService) Select(ctx context.Context, input SelectInput) (*RoleChangeOutput, error) {
	return r.update(ctx, input.GuildID, input.MessageID, input.UserID, input.MemberRoleIDs,
		func(current []snowflake.ID) domain.RoleChange {
			return domain.ComputeRoleChange(input.MenuRoleIDs, input.Submitted, current)
		})
}

// Clear revokes every menu role the member holds.
func (r *RuntimeService) Clear(ctx context.Context, input ClearInput) (*RoleChangeOutput, error) {
	return r.update(ctx, input.GuildID, input.MessageID, input.UserID, input.MemberRoleIDs,
		func(current []snowflake.ID) domain.RoleChange {
			return domain.ComputeRoleClear(input.MenuRoleIDs, current)
		})
}

// Forget removes a selector's record, e.g. after its message was deleted.
func (r *RuntimeService) Forget(ctx context.Context, messageID snowflake.ID) error {
	return r.selectors.Delete(ctx, messageID)
}

func (r *RuntimeService) update(
	ctx context.Context,
	guildID, messageID, userID snowflake.ID,
	current []snowflake.ID,
	compute func(current []snowflake.ID) domain.RoleChange,
) (*RoleChangeOutput, error) {
	live, err := r.selectors.Exists(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up selector: %w", err)
	}
	if !live {
		return &RoleChangeOutput{Handled: false}, nil
	}

	if current == nil {
		current, err = r.members.CurrentRoles(ctx, guildID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to read member roles: %w", err)
		}
	}

	change := compute(current)
	return &RoleChangeOutput{Handled: true, Change: change}, r.apply(ctx, guildID, userID, change)
}

// apply grants before it revokes. A failed grant does not prevent the revocations.
func (r *RuntimeService) apply(ctx context.Context, guildID, userID snowflake.ID, change domain.RoleChange) error {
	var errs []error
	if len(change.Add) > 0 {
		if err := r.members.AddRoles(ctx, guildID, userID, change.Add); err != nil {
			errs = append(errs, fmt.Errorf("failed to add roles: %w", err))
		}
	}
	if len(change.Remove) > 0 {
		if err := r.members.RemoveRoles(ctx, guildID, userID, change.Remove); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove roles: %w", err))
		}
	}
	return errors.Join(errs...)
}
