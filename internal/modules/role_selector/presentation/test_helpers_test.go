package presentation

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/bot"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/usecases"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
	"github.com/sglre6355/zangra/internal/modules/role_selector/infrastructure"
)

const (
	testGuildID    = "1"
	testChannelID  = "2"
	testOperatorID = "3"
	otherUserID    = "4"
)

type fakeDirectory struct {
	roles []domain.RoleRef
}

func (f *fakeDirectory) Roles(context.Context, snowflake.ID) ([]domain.RoleRef, error) {
	return f.roles, nil
}

func (f *fakeDirectory) Emojis(context.Context, snowflake.ID) ([]domain.EmojiRef, error) {
	return nil, nil
}

type fakeMessenger struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	sent      []snowflake.ID
	deleted   []snowflake.ID
	published *ports.PublishedSelector
}

func (f *fakeMessenger) SendMessage(context.Context, snowflake.ID, ports.View) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := 100 + f.nextID
	f.sent = append(f.sent, id)
	return id, nil
}

func (f *fakeMessenger) EditMessage(context.Context, snowflake.ID, snowflake.ID, ports.View) error {
	return nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) FetchSelector(context.Context, snowflake.ID, snowflake.ID) (*ports.PublishedSelector, error) {
	if f.published == nil {
		return nil, ports.ErrNotSelector
	}
	return f.published, nil
}

func (f *fakeMessenger) sentIDs() []snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

func (f *fakeMessenger) wasDeleted(id snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.deleted, id)
}

type fakeMemberRoles struct {
	mu      sync.Mutex
	current []snowflake.ID
	fetches int
	added   []snowflake.ID
	removed []snowflake.ID
}

func (f *fakeMemberRoles) CurrentRoles(context.Context, snowflake.ID, snowflake.ID) ([]snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return slices.Clone(f.current), nil
}

func (f *fakeMemberRoles) AddRoles(_ context.Context, _, _ snowflake.ID, roleIDs []snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, roleIDs...)
	return nil
}

func (f *fakeMemberRoles) RemoveRoles(_ context.Context, _, _ snowflake.ID, roleIDs []snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, roleIDs...)
	return nil
}

type handlerFixture struct {
	handlers  *Handlers
	directory *fakeDirectory
	messenger *fakeMessenger
	members   *fakeMemberRoles
	store     *infrastructure.MemoryStore
	sessions  *infrastructure.SessionRegistry
	waiter    *infrastructure.InteractionWaiter
	cancel    context.CancelFunc
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	f := &handlerFixture{
		directory: &fakeDirectory{roles: []domain.RoleRef{
			{ID: 11, Name: "Red"},
			{ID: 12, Name: "Blue"},
		}},
		messenger: &fakeMessenger{},
		members:   &fakeMemberRoles{},
		store:     infrastructure.NewMemoryStore(),
		sessions:  infrastructure.NewSessionRegistry(),
		waiter:    infrastructure.NewInteractionWaiter(),
		cancel:    cancel,
	}

	wizard := usecases.NewWizardService(
		f.directory,
		f.messenger,
		f.waiter,
		f.store,
		f.sessions,
		usecases.WizardConfig{SetupTimeout: time.Minute, ReplyTimeout: time.Minute},
	)
	runtime := usecases.NewRuntimeService(f.store, f.members)
	f.handlers = NewHandlers(ctx, wizard, runtime, f.sessions, f.waiter)

	t.Cleanup(func() {
		cancel()
		f.handlers.Wait()
	})
	return f
}

// waitForWaiter polls until a setup session is waiting for its next event.
func (f *handlerFixture) waitForWaiter(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.waiter.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the setup session to await input")
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *handlerFixture) seedSelector(t *testing.T, messageID snowflake.ID) {
	t.Helper()
	err := f.store.Insert(context.Background(), domain.PersistedSelector{
		MessageID: messageID,
		ChannelID: 2,
		GuildID:   1,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed selector: %v", err)
	}
}

func member(userID string, permissions int64) *discordgo.Member {
	return &discordgo.Member{
		User:        &discordgo.User{ID: userID},
		Permissions: permissions,
	}
}

func commandInteraction(data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Member:    member(testOperatorID, int64(discordgo.PermissionAdministrator)),
		Data:      data,
	}}
}

func createCommand(emojis bool) *discordgo.InteractionCreate {
	return commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name: CommandRoleSelector,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "create",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "emojis", Type: discordgo.ApplicationCommandOptionBoolean, Value: emojis},
				},
			},
		},
	})
}

func componentInteraction(
	userID string,
	messageID snowflake.ID,
	customID string,
	values []string,
	components []discordgo.MessageComponent,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Member:    member(userID, 0),
		Message: &discordgo.Message{
			ID:         messageID.String(),
			ChannelID:  testChannelID,
			Components: components,
		},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}}
}

// publishedComponents mirrors what Discord returns for a published selector offering the given roles.
func publishedComponents(customID string, roleIDs ...string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, len(roleIDs))
	for i, id := range roleIDs {
		options[i] = discordgo.SelectMenuOption{Label: id, Value: id}
	}
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.SelectMenu{CustomID: customID, MaxValues: len(roleIDs), Options: options},
		}},
	}
}

func editDescription(t *testing.T, r *bot.MockResponder) string {
	t.Helper()
	if r.LastEdit == nil || r.LastEdit.Embeds == nil || len(*r.LastEdit.Embeds) == 0 {
		t.Fatal("expected the deferred response to be edited with an embed")
	}
	return (*r.LastEdit.Embeds)[0].Description
}

func responseDescription(t *testing.T, r *bot.MockResponder) string {
	t.Helper()
	if r.LastResponse == nil || r.LastResponse.Data == nil || len(r.LastResponse.Data.Embeds) == 0 {
		t.Fatal("expected a response with an embed")
	}
	return r.LastResponse.Data.Embeds[0].Description
}
