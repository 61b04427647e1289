package domain

// Phase is a step of the role selector setup wizard.
type Phase int

const (
	PhaseRoleSelection      Phase = iota // Pick roles page by page
	PhaseOrderingChoice                  // Alphabetical or manual ordering
	PhaseManualOrdering                  // Re-select roles in the desired order
	PhaseDescriptionChoice               // Whether to attach descriptions
	PhaseDescriptionEntry                // Awaiting a description reply per role
	PhaseEmojiChoice                     // Whether to attach emoji (emoji variant only)
	PhaseEmojiEntry                      // Picking an emoji per role
	PhaseMaxSelectionChoice              // Upper bound on simultaneous picks
	PhaseBodyAuthoring                   // Message content and embeds loop
	PhaseMessageEntry                    // Awaiting the message content reply
	PhaseEmbedEntry                      // Awaiting an embed JSON reply
	PhasePublish                         // Terminal: selector is published
	PhaseCancelled                       // Terminal: setup discarded
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRoleSelection:
		return "role_selection"
	case PhaseOrderingChoice:
		return "ordering_choice"
	case PhaseManualOrdering:
		return "manual_ordering"
	case PhaseDescriptionChoice:
		return "description_choice"
	case PhaseDescriptionEntry:
		return "description_entry"
	case PhaseEmojiChoice:
		return "emoji_choice"
	case PhaseEmojiEntry:
		return "emoji_entry"
	case PhaseMaxSelectionChoice:
		return "max_selection_choice"
	case PhaseBodyAuthoring:
		return "body_authoring"
	case PhaseMessageEntry:
		return "message_entry"
	case PhaseEmbedEntry:
		return "embed_entry"
	case PhasePublish:
		return "publish"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// AwaitsReply reports whether the phase waits for a text reply
// instead of a component interaction.
func (p Phase) AwaitsReply() bool {
	switch p {
	case PhaseDescriptionEntry, PhaseMessageEntry, PhaseEmbedEntry:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the session has finished.
func (p Phase) IsTerminal() bool {
	return p == PhasePublish || p == PhaseCancelled
}
