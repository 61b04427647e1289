package presentation

import "github.com/bwmarrin/discordgo"

// Command names.
const (
	CommandRoleSelector = "roleselector"
	CommandEditSelector = "Edit Role Selector"
)

// Commands returns the application commands for the role selector module.
func Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandRoleSelector,
			Description:              "Manage role selectors",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a role selector in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "emojis",
							Description: "Add an emoji to each role",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Type:                     discordgo.MessageApplicationCommand,
			Name:                     CommandEditSelector,
			DefaultMemberPermissions: &adminOnly,
		},
	}
}
