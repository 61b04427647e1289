package presentation

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/zangra/internal/bot"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/usecases"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// userFacingErrors are reported to the operator verbatim.
var userFacingErrors = []error{
	usecases.ErrNoRoles,
	ports.ErrNotSelector,
	usecases.ErrSelectorUnreadable,
	usecases.ErrDirectoryUnavailable,
	usecases.ErrSetupMessageFailed,
	domain.ErrEditInProgress,
}

// errorMessage returns the text shown to the operator for a failed setup start.
func errorMessage(err error) string {
	for _, target := range userFacingErrors {
		if errors.Is(err, target) {
			return capitalize(target.Error()) + "."
		}
	}
	return "Something went wrong while starting the setup."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorError,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondDeferredEphemeral(r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondDeferredUpdate(r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func editResponse(r bot.Responder, description string, color int) error {
	embeds := []*discordgo.MessageEmbed{
		{
			Description: description,
			Color:       color,
		},
	}
	return r.EditResponse(&discordgo.WebhookEdit{Embeds: &embeds})
}
