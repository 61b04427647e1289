package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSetupTimeout = 10 * time.Minute
	DefaultReplyTimeout = 5 * time.Minute

	cleanupTimeout = 10 * time.Second
)

// WizardConfig holds the wizard's timeouts.
type WizardConfig struct {
	SetupTimeout time.Duration // Inactivity limit while waiting for a component interaction
	ReplyTimeout time.Duration // Inactivity limit while waiting for a text reply
}

// StartInput contains the input for the Start use case.
type StartInput struct {
	GuildID       snowflake.ID
	ChannelID     snowflake.ID
	OperatorID    snowflake.ID
	EmojisEnabled bool
}

// EditInput contains the input for the StartEdit use case.
type EditInput struct {
	GuildID    snowflake.ID
	ChannelID  snowflake.ID
	OperatorID snowflake.ID
	MessageID  snowflake.ID // The published selector
}

// StartOutput contains the result of the Start and StartEdit use cases.
type StartOutput struct {
	Session *domain.SelectorSession
}

// RunStatus is how a setup session ended.
type RunStatus int

const (
	RunStatusPublished RunStatus = iota
	RunStatusCancelled
	RunStatusTimedOut
	RunStatusFailed
	RunStatusAborted // Context cancelled, e.g. on shutdown
)

// String returns a human-readable representation of the status.
func (s RunStatus) String() string {
	switch s {
	case RunStatusPublished:
		return "published"
	case RunStatusCancelled:
		return "cancelled"
	case RunStatusTimedOut:
		return "timed_out"
	case RunStatusFailed:
		return "failed"
	case RunStatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RunOutput contains the result of the Run use case.
type RunOutput struct {
	Status    RunStatus
	MessageID snowflake.ID // The published selector, if Status is RunStatusPublished
}

// WizardService opens setup sessions and drives them to completion.
type WizardService struct {
	directory  ports.GuildDirectory
	messenger  ports.Messenger
	awaiter    ports.InteractionAwaiter
	selectors  domain.SelectorRepository
	sessions   domain.SessionRepository
	controller StepController
	config     WizardConfig
}

// NewWizardService creates a new WizardService.
func NewWizardService(
	directory ports.GuildDirectory,
	messenger ports.Messenger,
	awaiter ports.InteractionAwaiter,
	selectors domain.SelectorRepository,
	sessions domain.SessionRepository,
	config WizardConfig,
) *WizardService {
	if config.SetupTimeout <= 0 {
		config.SetupTimeout = DefaultSetupTimeout
	}
	if config.ReplyTimeout <= 0 {
		config.ReplyTimeout = DefaultReplyTimeout
	}
	return &WizardService{
		directory: directory,
		messenger: messenger,
		awaiter:   awaiter,
		selectors: selectors,
		sessions:  sessions,
		config:    config,
	}
}

// Start opens a session that creates a new role selector in the input channel.
// The setup message is sent before Start returns; call Run to drive the session.
func (w *WizardService) Start(ctx context.Context, input StartInput) (*StartOutput, error) {
	dir, err := w.loadDirectory(ctx, input.GuildID, input.EmojisEnabled)
	if err != nil {
		return nil, err
	}

	session := domain.NewSelectorSession(domain.SessionParams{
		GuildID:       input.GuildID,
		ChannelID:     input.ChannelID,
		OperatorID:    input.OperatorID,
		Directory:     dir,
		EmojisEnabled: input.EmojisEnabled,
	})
	if err := w.open(ctx, session); err != nil {
		return nil, err
	}
	return &StartOutput{Session: session}, nil
}

// StartEdit opens a session pre-populated from a published selector.
func (w *WizardService) StartEdit(ctx context.Context, input EditInput) (*StartOutput, error) {
	live, err := w.selectors.Exists(ctx, input.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up selector: %w", err)
	}
	if !live {
		return nil, ports.ErrNotSelector
	}
	if _, ok := w.sessions.FindByEditTarget(input.MessageID); ok {
		return nil, domain.ErrEditInProgress
	}

	published, err := w.messenger.FetchSelector(ctx, input.ChannelID, input.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSelectorUnreadable, err)
	}

	dir, err := w.loadDirectory(ctx, input.GuildID, published.HasEmojis)
	if err != nil {
		return nil, err
	}

	session := domain.NewSelectorSession(domain.SessionParams{
		GuildID:       input.GuildID,
		ChannelID:     input.ChannelID,
		OperatorID:    input.OperatorID,
		Directory:     dir,
		EmojisEnabled: published.HasEmojis,
		EditTarget:    input.MessageID,
		Seed: &domain.SessionSeed{
			RoleIDs:       published.RoleIDs,
			MaxSelections: published.MaxSelections,
			Content:       published.Content,
			Embeds:        published.Embeds,
		},
	})
	if err := w.open(ctx, session); err != nil {
		return nil, err
	}
	return &StartOutput{Session: session}, nil
}

// open sends the setup message and registers the session under it.
func (w *WizardService) open(ctx context.Context, session *domain.SelectorSession) error {
	step := w.controller.Begin(session)

	messageID, err := w.messenger.SendMessage(ctx, session.ChannelID(), step.View)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetupMessageFailed, err)
	}
	session.AttachOwnerMessage(messageID)

	if err := w.sessions.Save(session); err != nil {
		w.discard(ctx, session)
		return err
	}

	slog.Info("role selector setup started",
		"guild", session.GuildID(),
		"channel", session.ChannelID(),
		"setup_message", messageID,
		"edit_target", session.EditTarget(),
	)
	return nil
}

func (w *WizardService) loadDirectory(
	ctx context.Context,
	guildID snowflake.ID,
	withEmojis bool,
) (*domain.Directory, error) {
	var (
		roles  []domain.RoleRef
		emojis []domain.EmojiRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = w.directory.Roles(gctx, guildID)
		return err
	})
	if withEmojis {
		g.Go(func() error {
			var err error
			emojis, err = w.directory.Emojis(gctx, guildID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	return domain.NewDirectory(roles, emojis), nil
}

// Run drives the session until it is published, cancelled, or times out.
// Failures are logged and end the session; nothing is returned as an error.
func (w *WizardService) Run(ctx context.Context, session *domain.SelectorSession) RunOutput {
	defer w.sessions.Delete(session.OwnerMessageID())

	log := slog.With("guild", session.GuildID(), "setup_message", session.OwnerMessageID())

	directive := w.controller.Expect(session)
	deadline := w.deadline(directive)

	for {
		ev, err := w.next(ctx, session, directive, time.Until(deadline))
		switch {
		case errors.Is(err, ports.ErrAwaitTimeout):
			ev = Event{Kind: EventTimeout}
		case err != nil:
			log.Warn("role selector setup interrupted", "phase", session.Phase(), "error", err)
			w.discard(ctx, session)
			return RunOutput{Status: RunStatusAborted}
		}

		step := w.controller.Handle(session, ev)
		switch step.Directive {
		case DirectiveIgnore:
			continue
		case DirectiveCancel:
			w.discard(ctx, session)
			if ev.Kind == EventTimeout {
				log.Info("role selector setup timed out")
				return RunOutput{Status: RunStatusTimedOut}
			}
			log.Info("role selector setup cancelled")
			return RunOutput{Status: RunStatusCancelled}
		case DirectivePublish:
			out, done := w.publish(ctx, session)
			if done {
				return out
			}
			step = w.controller.RetryPublish(session, ErrPublishFailed.Error())
		}

		if err := w.messenger.EditMessage(ctx, session.ChannelID(), session.OwnerMessageID(), step.View); err != nil {
			log.Warn("failed to update setup message", "phase", session.Phase(), "error", err)
		}
		directive = step.Directive
		deadline = w.deadline(directive)
	}
}

func (w *WizardService) deadline(directive Directive) time.Time {
	if directive == DirectiveAwaitReply {
		return time.Now().Add(w.config.ReplyTimeout)
	}
	return time.Now().Add(w.config.SetupTimeout)
}

// next waits for the session's next event.
// Replies are deleted once read; interactions from anyone but the operator are ignored.
func (w *WizardService) next(
	ctx context.Context,
	session *domain.SelectorSession,
	directive Directive,
	remaining time.Duration,
) (Event, error) {
	if remaining <= 0 {
		return Event{}, ports.ErrAwaitTimeout
	}

	if directive == DirectiveAwaitReply {
		in, err := w.awaiter.AwaitReply(
			ctx,
			session.ChannelID(),
			session.OwnerMessageID(),
			session.OperatorID(),
			remaining,
		)
		if err != nil {
			return Event{}, err
		}
		if in.Component != nil {
			return operatorEvent(session, *in.Component), nil
		}
		w.deleteBestEffort(ctx, in.Reply.ChannelID, in.Reply.MessageID)
		return Event{Kind: EventReply, Text: in.Reply.Content}, nil
	}

	ci, err := w.awaiter.AwaitComponent(ctx, session.OwnerMessageID(), remaining)
	if err != nil {
		return Event{}, err
	}
	return operatorEvent(session, ci), nil
}

func operatorEvent(session *domain.SelectorSession, ci ports.ComponentInteraction) Event {
	if ci.UserID != session.OperatorID() {
		return Event{Kind: EventComponent, Action: domain.ActionIgnored}
	}
	return ComponentEvent(ci.CustomID, ci.Values)
}

// publish renders the finished selector and records it.
// It reports false when the selector message could not be written and the session should continue.
func (w *WizardService) publish(ctx context.Context, session *domain.SelectorSession) (RunOutput, bool) {
	log := slog.With("guild", session.GuildID(), "setup_message", session.OwnerMessageID())

	roles, err := w.directory.Roles(ctx, session.GuildID())
	if err != nil {
		log.Warn("failed to re-read roles before publishing, using snapshot", "error", err)
	} else if dropped := session.DropVanishedRoles(domain.NewDirectory(roles, nil)); len(dropped) > 0 {
		log.Info("dropped deleted roles from role selector", "roles", dropped)
	}
	if len(session.SelectedRoles()) == 0 {
		log.Info("every selected role was deleted, discarding role selector")
		w.discard(ctx, session)
		return RunOutput{Status: RunStatusCancelled}, true
	}

	target := session.OwnerMessageID()
	if session.IsEditing() {
		target = session.EditTarget()
	}

	view := RenderSelector(session.Snapshot())
	if err := w.messenger.EditMessage(ctx, session.ChannelID(), target, view); err != nil {
		log.Warn("failed to publish role selector", "message", target, "error", err)
		return RunOutput{Status: RunStatusFailed}, false
	}
	if session.IsEditing() {
		w.discard(ctx, session)
	}

	err = w.selectors.Insert(ctx, domain.PersistedSelector{
		MessageID: target,
		ChannelID: session.ChannelID(),
		GuildID:   session.GuildID(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Error("failed to record role selector", "message", target, "error", err)
		if !session.IsEditing() {
			// An unrecorded selector would never respond, so remove it.
			w.deleteBestEffort(ctx, session.ChannelID(), target)
		}
		return RunOutput{Status: RunStatusFailed}, true
	}

	log.Info("role selector published", "message", target, "roles", len(session.SelectedRoles()))
	return RunOutput{Status: RunStatusPublished, MessageID: target}, true
}

// discard removes the setup message.
func (w *WizardService) discard(ctx context.Context, session *domain.SelectorSession) {
	w.deleteBestEffort(ctx, session.ChannelID(), session.OwnerMessageID())
}

// deleteBestEffort deletes a message, logging failures.
// It runs even when ctx is already cancelled.
func (w *WizardService) deleteBestEffort(ctx context.Context, channelID, messageID snowflake.ID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := w.messenger.DeleteMessage(ctx, channelID, messageID); err != nil {
		slog.Warn("failed to delete message", "channel", channelID, "message", messageID, "error", err)
	}
}
