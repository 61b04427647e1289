package usecases

import (
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// EventKind identifies what woke a setup session.
type EventKind int

const (
	EventComponent EventKind = iota // Button click or select submission
	EventReply                      // Text reply to the setup message
	EventTimeout                    // No qualifying event before the deadline
)

// Event is one input to the step controller.
type Event struct {
	Kind   EventKind
	Action domain.Action // EventComponent only
	Values []string      // Select menu values, EventComponent only
	Text   string        // EventReply only
}

// ComponentEvent builds an Event from a component interaction.
func ComponentEvent(customID string, values []string) Event {
	return Event{
		Kind:   EventComponent,
		Action: domain.DecodeAction(customID),
		Values: values,
	}
}

// Directive tells the session driver what to do after a step.
type Directive int

const (
	DirectiveIgnore         Directive = iota // Event had no effect; keep waiting with the same deadline
	DirectiveAwaitComponent                  // Render the view and wait for a component interaction
	DirectiveAwaitReply                      // Render the view and wait for a text reply or a Cancel click
	DirectivePublish                         // Publish the selector
	DirectiveCancel                          // Discard the session
)

// String returns a human-readable representation of the directive.
func (d Directive) String() string {
	switch d {
	case DirectiveIgnore:
		return "ignore"
	case DirectiveAwaitComponent:
		return "await_component"
	case DirectiveAwaitReply:
		return "await_reply"
	case DirectivePublish:
		return "publish"
	case DirectiveCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Step is the controller's answer to one event.
type Step struct {
	Directive Directive
	View      ports.View // Set for the await directives
}

// StepController moves a SelectorSession through the setup phases.
// It performs no I/O: each call consumes one event and returns the next render instruction.
type StepController struct{}

// Begin returns the first step of a freshly created session.
func (c StepController) Begin(s *domain.SelectorSession) Step {
	return c.render(s)
}

// Expect returns the await directive for the session's current phase.
func (c StepController) Expect(s *domain.SelectorSession) Directive {
	switch {
	case s.Phase() == domain.PhasePublish:
		return DirectivePublish
	case s.Phase() == domain.PhaseCancelled:
		return DirectiveCancel
	case s.Phase().AwaitsReply():
		return DirectiveAwaitReply
	default:
		return DirectiveAwaitComponent
	}
}

// Handle applies one event to the session.
func (c StepController) Handle(s *domain.SelectorSession, ev Event) Step {
	if s.Phase().IsTerminal() {
		return Step{Directive: DirectiveIgnore}
	}

	switch ev.Kind {
	case EventTimeout:
		s.Enter(domain.PhaseCancelled)
		return Step{Directive: DirectiveCancel}
	case EventReply:
		if !s.Phase().AwaitsReply() {
			return Step{Directive: DirectiveIgnore}
		}
		return c.handleReply(s, ev.Text)
	case EventComponent:
		if ev.Action == domain.ActionIgnored {
			return Step{Directive: DirectiveIgnore}
		}
		if ev.Action == domain.ActionCancel {
			s.Enter(domain.PhaseCancelled)
			return Step{Directive: DirectiveCancel}
		}
		// Cancel is the only control shown while a reply is awaited.
		if s.Phase().AwaitsReply() {
			return Step{Directive: DirectiveIgnore}
		}
		return c.handleComponent(s, ev)
	default:
		return Step{Directive: DirectiveIgnore}
	}
}

func (c StepController) handleComponent(s *domain.SelectorSession, ev Event) Step {
	switch s.Phase() {
	case domain.PhaseRoleSelection:
		return c.handleRoleSelection(s, ev)
	case domain.PhaseOrderingChoice:
		switch ev.Action {
		case domain.ActionAlphabetical:
			s.SortAlphabetically()
			s.Enter(domain.PhaseDescriptionChoice)
			return c.render(s)
		case domain.ActionManual:
			s.Enter(domain.PhaseManualOrdering)
			return c.render(s)
		}
	case domain.PhaseManualOrdering:
		if ev.Action == domain.ActionSubmitOrder {
			return c.handleManualOrder(s, ev.Values)
		}
	case domain.PhaseDescriptionChoice:
		switch ev.Action {
		case domain.ActionYes:
			s.ClearDescriptions()
			s.Enter(domain.PhaseDescriptionEntry)
			return c.render(s)
		case domain.ActionNo:
			s.ClearDescriptions()
			c.afterDescriptions(s)
			return c.render(s)
		}
	case domain.PhaseEmojiChoice:
		switch ev.Action {
		case domain.ActionYes:
			if s.Directory().EmojiCount() == 0 {
				return Step{Directive: DirectiveIgnore}
			}
			s.ClearEmojis()
			s.Enter(domain.PhaseEmojiEntry)
			return c.render(s)
		case domain.ActionNo:
			s.ClearEmojis()
			s.Enter(domain.PhaseMaxSelectionChoice)
			return c.render(s)
		}
	case domain.PhaseEmojiEntry:
		return c.handleEmojiEntry(s, ev)
	case domain.PhaseMaxSelectionChoice:
		if ev.Action == domain.ActionSelectMax {
			return c.handleMaxSelection(s, ev.Values)
		}
	case domain.PhaseBodyAuthoring:
		return c.handleBodyAuthoring(s, ev)
	}
	return Step{Directive: DirectiveIgnore}
}

func (c StepController) handleRoleSelection(s *domain.SelectorSession, ev Event) Step {
	switch ev.Action {
	case domain.ActionPreviousPage:
		s.PreviousPage()
	case domain.ActionNextPage:
		s.NextPage()
	case domain.ActionSelectRoles:
		submitted, ok := parseIDs(ev.Values)
		if !ok {
			return Step{Directive: DirectiveIgnore}
		}
		s.ApplyPageSelection(submitted)
	case domain.ActionContinue:
		if len(s.SelectedRoles()) == 0 {
			return Step{Directive: DirectiveIgnore}
		}
		s.Enter(domain.PhaseOrderingChoice)
	default:
		return Step{Directive: DirectiveIgnore}
	}
	return c.render(s)
}

func (c StepController) handleManualOrder(s *domain.SelectorSession, values []string) Step {
	order, ok := parseIDs(values)
	if !ok {
		return Step{Directive: DirectiveIgnore}
	}
	if err := s.ApplyManualOrder(order); err != nil {
		s.SetNotice(err.Error())
		return c.render(s)
	}
	s.Enter(domain.PhaseDescriptionChoice)
	return c.render(s)
}

func (c StepController) handleEmojiEntry(s *domain.SelectorSession, ev Event) Step {
	switch ev.Action {
	case domain.ActionPreviousPage:
		s.PreviousPage()
	case domain.ActionNextPage:
		s.NextPage()
	case domain.ActionSelectEmoji:
		picked, ok := parseIDs(ev.Values)
		if !ok || len(picked) != 1 {
			return Step{Directive: DirectiveIgnore}
		}
		if err := s.SetEmoji(picked[0]); err != nil {
			s.SetNotice(err.Error())
			return c.render(s)
		}
		if s.EntryComplete() {
			s.Enter(domain.PhaseMaxSelectionChoice)
		}
	default:
		return Step{Directive: DirectiveIgnore}
	}
	return c.render(s)
}

func (c StepController) handleMaxSelection(s *domain.SelectorSession, values []string) Step {
	if len(values) != 1 {
		return Step{Directive: DirectiveIgnore}
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		s.SetNotice(ErrNotANumber.Error())
		return c.render(s)
	}
	if err := s.SetMaxSelections(n); err != nil {
		s.SetNotice(err.Error())
		return c.render(s)
	}
	s.Enter(domain.PhaseBodyAuthoring)
	return c.render(s)
}

func (c StepController) handleBodyAuthoring(s *domain.SelectorSession, ev Event) Step {
	switch ev.Action {
	case domain.ActionSetMessage:
		s.Enter(domain.PhaseMessageEntry)
	case domain.ActionAddEmbed:
		if len(s.BodyEmbeds()) >= domain.MaxEmbedsPerMessage {
			s.SetNotice(domain.ErrTooManyEmbeds.Error())
			break
		}
		s.Enter(domain.PhaseEmbedEntry)
	case domain.ActionClearEmbeds:
		if len(s.BodyEmbeds()) == 0 {
			return Step{Directive: DirectiveIgnore}
		}
		s.ClearEmbeds()
	case domain.ActionDone:
		s.Enter(domain.PhasePublish)
		return Step{Directive: DirectivePublish}
	default:
		return Step{Directive: DirectiveIgnore}
	}
	return c.render(s)
}

func (c StepController) handleReply(s *domain.SelectorSession, text string) Step {
	switch s.Phase() {
	case domain.PhaseDescriptionEntry:
		if err := s.SetDescription(text); err != nil {
			s.SetNotice(err.Error())
			return c.render(s)
		}
		if s.EntryComplete() {
			c.afterDescriptions(s)
		}
	case domain.PhaseMessageEntry:
		if err := s.SetBodyContent(text); err != nil {
			s.SetNotice(err.Error())
		}
		s.Enter(domain.PhaseBodyAuthoring)
	case domain.PhaseEmbedEntry:
		embed, err := domain.ParseEmbed(text)
		if err == nil {
			err = s.AddEmbed(embed)
		}
		if err != nil {
			s.SetNotice(err.Error())
		}
		s.Enter(domain.PhaseBodyAuthoring)
	}
	return c.render(s)
}

// RetryPublish returns a session whose selector could not be written to BodyAuthoring,
// where Done publishes again.
func (c StepController) RetryPublish(s *domain.SelectorSession, notice string) Step {
	s.Enter(domain.PhaseBodyAuthoring)
	s.SetNotice(notice)
	return c.render(s)
}

// afterDescriptions leaves the description phases.
func (c StepController) afterDescriptions(s *domain.SelectorSession) {
	if s.EmojisEnabled() {
		s.Enter(domain.PhaseEmojiChoice)
		return
	}
	s.Enter(domain.PhaseMaxSelectionChoice)
}

// render draws the current phase and consumes the pending notice.
func (c StepController) render(s *domain.SelectorSession) Step {
	step := Step{
		Directive: c.Expect(s),
		View:      RenderSetup(s.Snapshot()),
	}
	s.ClearNotice()
	return step
}

func parseIDs(values []string) ([]snowflake.ID, bool) {
	out := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		id, err := snowflake.Parse(v)
		if err != nil {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}
