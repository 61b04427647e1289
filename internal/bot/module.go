package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler handles one command or component interaction.
// A returned error is logged and reported to the user as an ephemeral embed.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is any discordgo event handler function,
// e.g. func(*discordgo.Session, *discordgo.MessageDelete).
type EventHandler any

// ModuleDependencies is what the bot hands each module at Init.
type ModuleDependencies struct {
	Session *discordgo.Session
	Config  *Config
}

// Module is a feature unit of the bot.
type Module interface {
	Name() string

	// Commands are registered with Discord on startup.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers is keyed by command name.
	// Message and user commands use their display name.
	CommandHandlers() map[string]InteractionHandler

	// ComponentHandlers is keyed by custom ID namespace, the text before the first ':'.
	// A custom ID without ':' is its own namespace.
	ComponentHandlers() map[string]InteractionHandler

	EventHandlers() []EventHandler

	Init(deps ModuleDependencies) error
	Shutdown() error
}

// ConfigurableModule is implemented by modules that read their own environment.
// LoadConfig runs for every such module before the gateway connection is opened,
// so a bad configuration stops startup early.
type ConfigurableModule interface {
	LoadConfig() error
}
