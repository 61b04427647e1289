package presentation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/bot"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/usecases"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
	"github.com/sglre6355/zangra/internal/modules/role_selector/infrastructure"
)

// EventRouter hands gateway events to the setup session waiting for them.
type EventRouter interface {
	DeliverComponent(ci ports.ComponentInteraction) bool
	DeliverReply(reply ports.MessageReply) bool
}

// Handlers holds the role selector's interaction and event handlers.
type Handlers struct {
	ctx      context.Context
	wizard   *usecases.WizardService
	runtime  *usecases.RuntimeService
	sessions domain.SessionRepository
	router   EventRouter

	runs sync.WaitGroup
}

// NewHandlers creates new Handlers.
// Setup sessions started by the handlers stop when ctx is cancelled.
func NewHandlers(
	ctx context.Context,
	wizard *usecases.WizardService,
	runtime *usecases.RuntimeService,
	sessions domain.SessionRepository,
	router EventRouter,
) *Handlers {
	return &Handlers{
		ctx:      ctx,
		wizard:   wizard,
		runtime:  runtime,
		sessions: sessions,
		router:   router,
	}
}

// Wait blocks until every running setup session has ended.
func (h *Handlers) Wait() {
	h.runs.Wait()
}

// HandleRoleSelector handles the /roleselector command.
func (h *Handlers) HandleRoleSelector(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, ok := parseInvocation(i)
	if !ok {
		return respondError(r, "This command can only be used in a server.")
	}

	var emojis bool
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "create" {
			continue
		}
		for _, sub := range opt.Options {
			if sub.Name == "emojis" {
				emojis = sub.BoolValue()
			}
		}
	}

	if err := respondDeferredEphemeral(r); err != nil {
		return err
	}

	out, err := h.wizard.Start(h.ctx, usecases.StartInput{
		GuildID:       inv.guildID,
		ChannelID:     inv.channelID,
		OperatorID:    inv.userID,
		EmojisEnabled: emojis,
	})
	if err != nil {
		slog.Warn("failed to start role selector setup", "guild", inv.guildID, "error", err)
		return editResponse(r, errorMessage(err), colorError)
	}

	h.launch(out.Session)
	return editResponse(r, "Role selector setup started below.", colorSuccess)
}

// HandleEditCommand handles the "Edit Role Selector" message command.
func (h *Handlers) HandleEditCommand(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, ok := parseInvocation(i)
	if !ok {
		return respondError(r, "This command can only be used in a server.")
	}
	if !isAdministrator(i.Member) {
		return respondError(r, "Only administrators can edit role selectors.")
	}

	messageID, err := snowflake.Parse(i.ApplicationCommandData().TargetID)
	if err != nil {
		return respondError(r, "Invalid message")
	}
	return h.startEdit(r, inv, messageID)
}

// HandleSetupComponent handles component interactions on setup messages.
func (h *Handlers) HandleSetupComponent(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, ok := parseInvocation(i)
	if !ok || i.Message == nil {
		return nil
	}
	messageID, err := snowflake.Parse(i.Message.ID)
	if err != nil {
		return nil
	}

	session, ok := h.sessions.Get(messageID)
	if !ok {
		return respondError(r, "This setup has ended.")
	}
	if session.OperatorID() != inv.userID {
		return respondError(r, "Only the member who started this setup can use it.")
	}

	if err := respondDeferredUpdate(r); err != nil {
		return err
	}

	data := i.MessageComponentData()
	delivered := h.router.DeliverComponent(ports.ComponentInteraction{
		MessageID: messageID,
		UserID:    inv.userID,
		CustomID:  data.CustomID,
		Values:    data.Values,
	})
	if !delivered {
		slog.Debug("dropped setup interaction", "setup_message", messageID, "custom_id", data.CustomID)
	}
	return nil
}

// HandleSelectorComponent handles component interactions on published role selectors.
func (h *Handlers) HandleSelectorComponent(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, ok := parseInvocation(i)
	if !ok || i.Message == nil {
		return nil
	}
	messageID, err := snowflake.Parse(i.Message.ID)
	if err != nil {
		return nil
	}

	data := i.MessageComponentData()
	control := domain.DecodeSelectorControl(data.CustomID)
	if control == domain.SelectorControlEdit {
		if !isAdministrator(i.Member) {
			return respondError(r, "Only administrators can edit role selectors.")
		}
		return h.startEdit(r, inv, messageID)
	}
	if control == domain.SelectorControlUnknown {
		return nil
	}

	if err := respondDeferredUpdate(r); err != nil {
		return err
	}

	menuRoles := infrastructure.MenuRoleIDs(infrastructure.SelectorMenu(i.Message.Components))
	log := slog.With("guild", inv.guildID, "message", messageID, "user", inv.userID)

	var out *usecases.RoleChangeOutput
	switch control {
	case domain.SelectorControlSelect:
		out, err = h.runtime.Select(h.ctx, usecases.SelectInput{
			GuildID:       inv.guildID,
			MessageID:     messageID,
			UserID:        inv.userID,
			MenuRoleIDs:   menuRoles,
			Submitted:     parseIDs(data.Values),
			MemberRoleIDs: infrastructure.ParseRoleIDs(i.Member.Roles),
		})
	case domain.SelectorControlClear:
		out, err = h.runtime.Clear(h.ctx, usecases.ClearInput{
			GuildID:       inv.guildID,
			MessageID:     messageID,
			UserID:        inv.userID,
			MenuRoleIDs:   menuRoles,
			MemberRoleIDs: infrastructure.ParseRoleIDs(i.Member.Roles),
		})
	}
	if err != nil {
		log.Error("failed to update member roles", "error", err)
		return nil
	}
	if !out.Handled {
		log.Debug("ignored interaction on unknown role selector")
		return nil
	}
	log.Debug("updated member roles", "added", out.Change.Add, "removed", out.Change.Remove)
	return nil
}

// HandleMessageCreate routes replies to setup messages.
func (h *Handlers) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	defer bot.RecoverPanic("message_create")

	if m.Author == nil || m.Author.Bot || m.MessageReference == nil {
		return
	}

	reply, ok := parseReply(m.Message)
	if !ok {
		return
	}
	h.router.DeliverReply(reply)
}

// HandleMessageDelete forgets deleted role selectors.
func (h *Handlers) HandleMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	defer bot.RecoverPanic("message_delete")

	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return
	}
	if err := h.runtime.Forget(h.ctx, messageID); err != nil {
		slog.Warn("failed to forget deleted role selector", "message", messageID, "error", err)
	}
}

func (h *Handlers) startEdit(r bot.Responder, inv invocation, messageID snowflake.ID) error {
	if err := respondDeferredEphemeral(r); err != nil {
		return err
	}

	out, err := h.wizard.StartEdit(h.ctx, usecases.EditInput{
		GuildID:    inv.guildID,
		ChannelID:  inv.channelID,
		OperatorID: inv.userID,
		MessageID:  messageID,
	})
	if err != nil {
		slog.Warn("failed to start role selector edit", "guild", inv.guildID, "message", messageID, "error", err)
		return editResponse(r, errorMessage(err), colorError)
	}

	h.launch(out.Session)
	return editResponse(r, "Role selector edit started below.", colorSuccess)
}

// launch drives the session in the background.
func (h *Handlers) launch(session *domain.SelectorSession) {
	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		defer bot.RecoverPanic("role_selector_setup")
		out := h.wizard.Run(h.ctx, session)
		slog.Debug("role selector setup ended",
			"guild", session.GuildID(),
			"setup_message", session.OwnerMessageID(),
			"status", out.Status,
		)
	}()
}

type invocation struct {
	guildID   snowflake.ID
	channelID snowflake.ID
	userID    snowflake.ID
}

// parseInvocation reads the guild, channel, and member of a guild interaction.
func parseInvocation(i *discordgo.InteractionCreate) (invocation, bool) {
	if i.Member == nil || i.Member.User == nil {
		return invocation{}, false
	}
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return invocation{}, false
	}
	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return invocation{}, false
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return invocation{}, false
	}
	return invocation{guildID: guildID, channelID: channelID, userID: userID}, true
}

func parseReply(m *discordgo.Message) (ports.MessageReply, bool) {
	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return ports.MessageReply{}, false
	}
	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return ports.MessageReply{}, false
	}
	referencedID, err := snowflake.Parse(m.MessageReference.MessageID)
	if err != nil {
		return ports.MessageReply{}, false
	}
	authorID, err := snowflake.Parse(m.Author.ID)
	if err != nil {
		return ports.MessageReply{}, false
	}
	return ports.MessageReply{
		ChannelID:    channelID,
		MessageID:    messageID,
		ReferencedID: referencedID,
		AuthorID:     authorID,
		Content:      m.Content,
	}, true
}

func isAdministrator(m *discordgo.Member) bool {
	return m != nil && m.Permissions&discordgo.PermissionAdministrator != 0
}

// parseIDs parses select menu values, skipping anything that is not an ID.
func parseIDs(values []string) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		id, err := snowflake.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
