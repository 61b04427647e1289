package role_selector

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/zangra/internal/bot"
	"github.com/sglre6355/zangra/internal/modules/role_selector/infrastructure"
)

func TestRoleSelectorModule_LoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := &RoleSelectorModule{}
		if err := m.LoadConfig(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.config.Store != infrastructure.StoreSQLite {
			t.Errorf("expected sqlite store, got %q", m.config.Store)
		}
		if m.config.SetupTimeout != 10*time.Minute {
			t.Errorf("expected 10m setup timeout, got %v", m.config.SetupTimeout)
		}
		if m.config.ReplyTimeout != 5*time.Minute {
			t.Errorf("expected 5m reply timeout, got %v", m.config.ReplyTimeout)
		}
	})

	t.Run("postgres requires url", func(t *testing.T) {
		t.Setenv("ROLE_SELECTOR_STORE", "postgres")
		m := &RoleSelectorModule{}
		if err := m.LoadConfig(); err == nil {
			t.Error("expected error without DATABASE_URL")
		}
	})

	t.Run("invalid rate", func(t *testing.T) {
		t.Setenv("ROLE_SELECTOR_ROLE_RATE", "0")
		m := &RoleSelectorModule{}
		if err := m.LoadConfig(); err == nil {
			t.Error("expected error for zero rate")
		}
	})
}

func TestRoleSelectorModule_Init(t *testing.T) {
	t.Run("requires session", func(t *testing.T) {
		m := &RoleSelectorModule{config: &Config{Store: infrastructure.StoreMemory}}
		if err := m.Init(bot.ModuleDependencies{}); err == nil {
			t.Error("expected error without session")
		}
	})

	t.Run("requires config", func(t *testing.T) {
		m := &RoleSelectorModule{}
		if err := m.Init(bot.ModuleDependencies{Session: &discordgo.Session{}}); err == nil {
			t.Error("expected error without loaded config")
		}
	})

	t.Run("wires handlers", func(t *testing.T) {
		m := &RoleSelectorModule{config: &Config{
			Store:     infrastructure.StoreMemory,
			RoleRate:  5,
			RoleBurst: 10,
		}}
		if err := m.Init(bot.ModuleDependencies{Session: &discordgo.Session{}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(func() {
			if err := m.Shutdown(); err != nil {
				t.Errorf("unexpected shutdown error: %v", err)
			}
		})

		if m.Name() != "role_selector" {
			t.Errorf("unexpected name %q", m.Name())
		}
		if len(m.CommandHandlers()) != len(m.Commands()) {
			t.Errorf("expected a handler per command, got %d handlers for %d commands",
				len(m.CommandHandlers()), len(m.Commands()))
		}
		for _, namespace := range []string{"rs_setup", "role_selector", "selectmenu"} {
			if m.ComponentHandlers()[namespace] == nil {
				t.Errorf("expected component handler for %q", namespace)
			}
		}
		if len(m.EventHandlers()) != 2 {
			t.Errorf("expected 2 event handlers, got %d", len(m.EventHandlers()))
		}
	})
}

func TestRoleSelectorModule_ShutdownWithoutInit(t *testing.T) {
	m := &RoleSelectorModule{}
	if err := m.Shutdown(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
