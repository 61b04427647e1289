package usecases

import "errors"

// Errors for the role selector module.
var (
	// ErrNotANumber is returned when a maximum-selection submission is not numeric.
	ErrNotANumber = errors.New("the maximum must be a number")

	// ErrDirectoryUnavailable is returned when the guild's roles or emoji cannot be read.
	ErrDirectoryUnavailable = errors.New("failed to read the server's roles")

	// ErrSetupMessageFailed is returned when the setup message cannot be sent.
	ErrSetupMessageFailed = errors.New("failed to send the setup message")

	// ErrNoRoles is returned when the guild has no roles a selector could offer.
	ErrNoRoles = errors.New("this server has no roles that can be offered")

	// ErrPublishFailed is shown when the finished selector could not be written to its message.
	ErrPublishFailed = errors.New("failed to publish the role selector, press Done to try again")

	// ErrSelectorUnreadable is returned when a published selector's message cannot be read back.
	ErrSelectorUnreadable = errors.New("failed to read the role selector")
)
