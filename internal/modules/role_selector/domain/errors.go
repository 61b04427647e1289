package domain

import "errors"

// Validation errors raised while mutating a SelectorSession.
// They are recoverable: the wizard shows them as an inline note and stays in the current phase.
var (
	// ErrInvalidOrder is returned when a manual ordering is not a permutation of the selected roles.
	ErrInvalidOrder = errors.New("the order must contain every selected role exactly once")

	// ErrEmptyDescription is returned when a description reply has no text.
	ErrEmptyDescription = errors.New("the description cannot be empty")

	// ErrDescriptionTooLong is returned when a description exceeds Discord's option limit.
	ErrDescriptionTooLong = errors.New("the description must be at most 100 characters")

	// ErrUnknownEmoji is returned when an emoji is not part of the guild's directory.
	ErrUnknownEmoji = errors.New("that emoji is not available in this server")

	// ErrMaxSelectionsOutOfRange is returned when the maximum is outside [1, selected roles].
	ErrMaxSelectionsOutOfRange = errors.New("the maximum must be between 1 and the number of selected roles")

	// ErrContentTooLong is returned when the selector's message content exceeds Discord's limit.
	ErrContentTooLong = errors.New("the message must be at most 2000 characters")

	// ErrTooManyEmbeds is returned when a message would exceed Discord's embed limit.
	ErrTooManyEmbeds = errors.New("a message can hold at most 10 embeds")

	// ErrNoCurrentRole is returned when an entry phase has no role left to process.
	ErrNoCurrentRole = errors.New("no role is awaiting input")
)

// Embed parsing errors.
var (
	// ErrInvalidEmbedJSON is returned when an embed reply is not valid JSON.
	ErrInvalidEmbedJSON = errors.New("invalid embed JSON")

	// ErrEmptyEmbed is returned when an embed has no visible content.
	ErrEmptyEmbed = errors.New("the embed needs a title, description, fields, or image")

	// ErrEmbedTooLarge is returned when an embed exceeds one of Discord's size limits.
	ErrEmbedTooLarge = errors.New("the embed exceeds Discord's size limits")

	// ErrInvalidEmbedLink is returned when an embed URL is not an absolute http or https link.
	ErrInvalidEmbedLink = errors.New("embed links must be http or https URLs")

	// ErrInvalidEmbedTimestamp is returned when an embed timestamp is not an ISO 8601 date.
	ErrInvalidEmbedTimestamp = errors.New("the embed timestamp must be an ISO 8601 date, e.g. 2024-01-31T18:00:00Z")
)

// Repository errors.
var (
	// ErrEditInProgress is returned when a published selector already has an open edit session.
	ErrEditInProgress = errors.New("this role selector is already being edited")
)
