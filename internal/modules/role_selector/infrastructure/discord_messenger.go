package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
)

// Ensure DiscordMessenger implements ports.Messenger.
var _ ports.Messenger = (*DiscordMessenger)(nil)

// DiscordMessenger implements ports.Messenger using a Discord session.
type DiscordMessenger struct {
	session *discordgo.Session
}

// NewDiscordMessenger creates a new DiscordMessenger.
func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

// SendMessage posts the view and returns the new message ID.
func (m *DiscordMessenger) SendMessage(
	ctx context.Context,
	channelID snowflake.ID,
	view ports.View,
) (snowflake.ID, error) {
	msg, err := m.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content:    view.Content,
		Embeds:     ToEmbeds(view.Embeds),
		Components: ToComponents(view.Components),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	id, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to parse message ID: %w", err)
	}
	return id, nil
}

// EditMessage replaces the message's content, embeds, and components.
func (m *DiscordMessenger) EditMessage(
	ctx context.Context,
	channelID, messageID snowflake.ID,
	view ports.View,
) error {
	embeds := ToEmbeds(view.Embeds)
	components := ToComponents(view.Components)

	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID.String(),
		Channel:    channelID.String(),
		Content:    &view.Content,
		Embeds:     &embeds,
		Components: &components,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage deletes a message.
func (m *DiscordMessenger) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	err := m.session.ChannelMessageDelete(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// FetchSelector reads a published selector back from its message.
func (m *DiscordMessenger) FetchSelector(
	ctx context.Context,
	channelID, messageID snowflake.ID,
) (*ports.PublishedSelector, error) {
	msg, err := m.session.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	selector, ok := ParseSelectorMessage(msg)
	if !ok {
		return nil, ports.ErrNotSelector
	}
	return selector, nil
}
