package role_selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/zangra/internal/bot"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/usecases"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
	"github.com/sglre6355/zangra/internal/modules/role_selector/infrastructure"
	"github.com/sglre6355/zangra/internal/modules/role_selector/presentation"
)

func init() {
	bot.Register(&RoleSelectorModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*RoleSelectorModule)(nil)

// RoleSelectorModule provides role selector setup and the published selectors' role assignment.
type RoleSelectorModule struct {
	config   *Config
	handlers *presentation.Handlers
	store    domain.SelectorRepository

	// Context for setup sessions
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *RoleSelectorModule) Name() string {
	return "role_selector"
}

// Commands returns the application commands for this module.
func (m *RoleSelectorModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *RoleSelectorModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		presentation.CommandRoleSelector: m.handlers.HandleRoleSelector,
		presentation.CommandEditSelector: m.handlers.HandleEditCommand,
	}
}

// ComponentHandlers returns the component handlers for this module, keyed by custom ID namespace.
func (m *RoleSelectorModule) ComponentHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		domain.SetupNamespace:     m.handlers.HandleSetupComponent,
		domain.SelectorNamespace:  m.handlers.HandleSelectorComponent,
		domain.LegacySelectMenuID: m.handlers.HandleSelectorComponent,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *RoleSelectorModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handlers.HandleMessageCreate,
		m.handlers.HandleMessageDelete,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *RoleSelectorModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if cfg.Store == infrastructure.StorePostgres && cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required when ROLE_SELECTOR_STORE is postgres")
	}
	if cfg.RoleRate <= 0 || cfg.RoleBurst <= 0 {
		return fmt.Errorf("role mutation rate and burst must be positive, got %v and %d", cfg.RoleRate, cfg.RoleBurst)
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *RoleSelectorModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("role_selector module requires a Discord session")
	}
	if m.config == nil {
		return errors.New("role_selector module configuration not loaded")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	store, err := infrastructure.OpenSelectorStore(m.ctx, infrastructure.StoreConfig{
		Kind:        m.config.Store,
		SQLitePath:  m.config.SQLitePath,
		DatabaseURL: m.config.DatabaseURL,
	})
	if err != nil {
		m.cancel()
		return fmt.Errorf("failed to open selector store: %w", err)
	}
	m.store = store

	// Create infrastructure
	directory := infrastructure.NewDiscordDirectory(deps.Session)
	messenger := infrastructure.NewDiscordMessenger(deps.Session)
	members := infrastructure.NewDiscordMemberRoles(deps.Session, m.config.RoleRate, m.config.RoleBurst)
	waiter := infrastructure.NewInteractionWaiter()
	sessions := infrastructure.NewSessionRegistry()

	// Create services
	wizard := usecases.NewWizardService(
		directory,
		messenger,
		waiter,
		store,
		sessions,
		usecases.WizardConfig{
			SetupTimeout: m.config.SetupTimeout,
			ReplyTimeout: m.config.ReplyTimeout,
		},
	)
	runtime := usecases.NewRuntimeService(store, members)

	m.handlers = presentation.NewHandlers(m.ctx, wizard, runtime, sessions, waiter)

	slog.Info("role_selector module initialized", "store", m.config.Store)

	return nil
}

// Shutdown cancels running setup sessions and closes the store.
func (m *RoleSelectorModule) Shutdown() error {
	// Cancel context first so running sessions clean up
	if m.cancel != nil {
		m.cancel()
	}
	if m.handlers != nil {
		m.handlers.Wait()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
