package bot

import "github.com/bwmarrin/discordgo"

// Responder answers the interaction a handler was invoked for.
type Responder interface {
	// Respond sends the initial interaction response.
	Respond(response *discordgo.InteractionResponse) error

	// EditResponse replaces the initial response. Handlers that defer use it to post their result.
	EditResponse(edit *discordgo.WebhookEdit) error
}

// DiscordResponder answers through the Discord REST API.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a new DiscordResponder for one interaction.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{session: s, interaction: i}
}

func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

func (r *DiscordResponder) EditResponse(edit *discordgo.WebhookEdit) error {
	_, err := r.session.InteractionResponseEdit(r.interaction, edit)
	return err
}

// MockResponder records what a handler answered.
// Err and EditErr are returned from Respond and EditResponse respectively.
type MockResponder struct {
	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit

	LastResponse *discordgo.InteractionResponse
	LastEdit     *discordgo.WebhookEdit

	Err     error
	EditErr error
}

func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.Responses = append(m.Responses, response)
	m.LastResponse = response
	return m.Err
}

func (m *MockResponder) EditResponse(edit *discordgo.WebhookEdit) error {
	m.Edits = append(m.Edits, edit)
	m.LastEdit = edit
	return m.EditErr
}
