package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

const (
	testGuildID    snowflake.ID = 1000
	testChannelID  snowflake.ID = 2000
	testOperatorID snowflake.ID = 3000
)

func testRoles(names ...string) []domain.RoleRef {
	roles := make([]domain.RoleRef, len(names))
	for i, name := range names {
		roles[i] = domain.RoleRef{ID: snowflake.ID(i + 1), Name: name}
	}
	return roles
}

type mockDirectory struct {
	mu        sync.Mutex
	roles     []domain.RoleRef
	emojis    []domain.EmojiRef
	rolesErr  error
	emojisErr error
}

func (m *mockDirectory) Roles(_ context.Context, _ snowflake.ID) ([]domain.RoleRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles, m.rolesErr
}

func (m *mockDirectory) Emojis(_ context.Context, _ snowflake.ID) ([]domain.EmojiRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emojis, m.emojisErr
}

func (m *mockDirectory) setRoles(roles []domain.RoleRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = roles
}

type mockMessenger struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	views     map[snowflake.ID]ports.View
	sent      []snowflake.ID
	edits     int
	deleted   []snowflake.ID
	sendErr   error
	editErr   error
	deleteErr error

	// failPublishes fails that many edits that write a published selector.
	failPublishes int
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{
		nextID: 100,
		views:  make(map[snowflake.ID]ports.View),
	}
}

func (m *mockMessenger) SendMessage(_ context.Context, _ snowflake.ID, view ports.View) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	id := m.nextID
	m.nextID++
	m.views[id] = view
	m.sent = append(m.sent, id)
	return id, nil
}

func (m *mockMessenger) EditMessage(_ context.Context, _, messageID snowflake.ID, view ports.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	if m.failPublishes > 0 && selectorMenu(view) != nil {
		m.failPublishes--
		return errors.New("unknown message")
	}
	m.edits++
	m.views[messageID] = view
	return nil
}

func (m *mockMessenger) DeleteMessage(_ context.Context, _, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.views, messageID)
	return nil
}

// FetchSelector reads the selector back out of the last view stored for the message.
func (m *mockMessenger) FetchSelector(_ context.Context, _, messageID snowflake.ID) (*ports.PublishedSelector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	view, ok := m.views[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	for _, row := range view.Components {
		menu := row.SelectMenu
		if menu == nil || domain.DecodeSelectorControl(menu.CustomID) != domain.SelectorControlSelect {
			continue
		}
		out := &ports.PublishedSelector{
			MaxSelections: menu.MaxValues,
			Content:       view.Content,
			Embeds:        view.Embeds,
			HasEmojis:     len(menu.Options) > 0,
		}
		for _, opt := range menu.Options {
			id, err := snowflake.Parse(opt.Value)
			if err != nil {
				return nil, err
			}
			out.RoleIDs = append(out.RoleIDs, id)
			if opt.Emoji == nil {
				out.HasEmojis = false
			}
		}
		return out, nil
	}
	return nil, errors.New("no selector menu")
}

func (m *mockMessenger) view(id snowflake.ID) (ports.View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[id]
	return v, ok
}

func (m *mockMessenger) wasDeleted(id snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func (m *mockMessenger) editCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edits
}

// scriptedAwaiter replays a fixed list of events, then times out.
type scriptedAwaiter struct {
	mu      sync.Mutex
	script  []awaitResult
	replyID snowflake.ID
}

type awaitResult struct {
	component *ports.ComponentInteraction
	reply     *ports.MessageReply
	err       error
}

func click(action domain.Action, values ...string) awaitResult {
	return clickBy(testOperatorID, action, values...)
}

func clickBy(userID snowflake.ID, action domain.Action, values ...string) awaitResult {
	return awaitResult{component: &ports.ComponentInteraction{
		UserID:   userID,
		CustomID: action.CustomID(),
		Values:   values,
	}}
}

func reply(text string) awaitResult {
	return awaitResult{reply: &ports.MessageReply{AuthorID: testOperatorID, Content: text}}
}

func idValues(ids ...int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}

func newScriptedAwaiter(script ...awaitResult) *scriptedAwaiter {
	return &scriptedAwaiter{script: script, replyID: 900}
}

func (a *scriptedAwaiter) pop() (awaitResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.script) == 0 {
		return awaitResult{}, false
	}
	next := a.script[0]
	a.script = a.script[1:]
	return next, true
}

func (a *scriptedAwaiter) AwaitComponent(
	ctx context.Context,
	messageID snowflake.ID,
	_ time.Duration,
) (ports.ComponentInteraction, error) {
	if err := ctx.Err(); err != nil {
		return ports.ComponentInteraction{}, err
	}
	next, ok := a.pop()
	if !ok {
		return ports.ComponentInteraction{}, ports.ErrAwaitTimeout
	}
	if next.err != nil {
		return ports.ComponentInteraction{}, next.err
	}
	if next.component == nil {
		return ports.ComponentInteraction{}, fmt.Errorf("script expected a reply, got a component wait")
	}
	ci := *next.component
	ci.MessageID = messageID
	return ci, nil
}

func (a *scriptedAwaiter) AwaitReply(
	ctx context.Context,
	channelID, referencedID, _ snowflake.ID,
	_ time.Duration,
) (ports.ReplyOrComponent, error) {
	if err := ctx.Err(); err != nil {
		return ports.ReplyOrComponent{}, err
	}
	next, ok := a.pop()
	if !ok {
		return ports.ReplyOrComponent{}, ports.ErrAwaitTimeout
	}
	if next.err != nil {
		return ports.ReplyOrComponent{}, next.err
	}
	if next.component != nil {
		ci := *next.component
		ci.MessageID = referencedID
		return ports.ReplyOrComponent{Component: &ci}, nil
	}

	a.mu.Lock()
	a.replyID++
	id := a.replyID
	a.mu.Unlock()

	r := *next.reply
	r.ChannelID = channelID
	r.ReferencedID = referencedID
	r.MessageID = id
	return ports.ReplyOrComponent{Reply: &r}, nil
}

type mockSelectorRepository struct {
	mu        sync.Mutex
	rows      map[snowflake.ID]domain.PersistedSelector
	insertErr error
	existsErr error
}

func newMockSelectorRepository() *mockSelectorRepository {
	return &mockSelectorRepository{rows: make(map[snowflake.ID]domain.PersistedSelector)}
}

func (m *mockSelectorRepository) Insert(_ context.Context, s domain.PersistedSelector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.rows[s.MessageID]; !ok {
		m.rows[s.MessageID] = s
	}
	return nil
}

func (m *mockSelectorRepository) Exists(_ context.Context, messageID snowflake.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.rows[messageID]
	return ok, nil
}

func (m *mockSelectorRepository) Delete(_ context.Context, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, messageID)
	return nil
}

func (m *mockSelectorRepository) Close() error {
	return nil
}

func (m *mockSelectorRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.SelectorSession
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[snowflake.ID]*domain.SelectorSession)}
}

func (m *mockSessionRepository) Get(id snowflake.ID) (*domain.SelectorSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mockSessionRepository) Save(session *domain.SelectorSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if target := session.EditTarget(); target != 0 {
		for _, s := range m.sessions {
			if s.EditTarget() == target && s != session {
				return domain.ErrEditInProgress
			}
		}
	}
	m.sessions[session.OwnerMessageID()] = session
	return nil
}

func (m *mockSessionRepository) Delete(id snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *mockSessionRepository) FindByEditTarget(target snowflake.ID) (*domain.SelectorSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.EditTarget() == target {
			return s, true
		}
	}
	return nil, false
}

func (m *mockSessionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type mockMemberRoles struct {
	mu         sync.Mutex
	current    []snowflake.ID
	currentErr error
	addErr     error
	removeErr  error
	added      []snowflake.ID
	removed    []snowflake.ID
	calls      int
}

func (m *mockMemberRoles) CurrentRoles(_ context.Context, _, _ snowflake.ID) ([]snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.current, m.currentErr
}

func (m *mockMemberRoles) AddRoles(_ context.Context, _, _ snowflake.ID, roleIDs []snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, roleIDs...)
	return nil
}

func (m *mockMemberRoles) RemoveRoles(_ context.Context, _, _ snowflake.ID, roleIDs []snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, roleIDs...)
	return nil
}

// wizardFixture bundles a WizardService with its test doubles.
type wizardFixture struct {
	directory *mockDirectory
	messenger *mockMessenger
	awaiter   *scriptedAwaiter
	selectors *mockSelectorRepository
	sessions  *mockSessionRepository
	service   *WizardService
}

func newWizardFixture(roles []domain.RoleRef, script ...awaitResult) *wizardFixture {
	f := &wizardFixture{
		directory: &mockDirectory{roles: roles},
		messenger: newMockMessenger(),
		awaiter:   newScriptedAwaiter(script...),
		selectors: newMockSelectorRepository(),
		sessions:  newMockSessionRepository(),
	}
	f.service = NewWizardService(f.directory, f.messenger, f.awaiter, f.selectors, f.sessions, WizardConfig{
		SetupTimeout: time.Minute,
		ReplyTimeout: time.Minute,
	})
	return f
}

func (f *wizardFixture) start(t *testing.T, emojis bool) *domain.SelectorSession {
	t.Helper()
	out, err := f.service.Start(context.Background(), StartInput{
		GuildID:       testGuildID,
		ChannelID:     testChannelID,
		OperatorID:    testOperatorID,
		EmojisEnabled: emojis,
	})
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	return out.Session
}

// selectorMenu returns the published select menu of a view.
func selectorMenu(view ports.View) *ports.SelectMenu {
	for _, row := range view.Components {
		if row.SelectMenu != nil && row.SelectMenu.CustomID == domain.SelectorControlSelect.CustomID() {
			return row.SelectMenu
		}
	}
	return nil
}

// findButton returns the button with the given custom ID.
func findButton(view ports.View, customID string) (ports.Button, bool) {
	for _, row := range view.Components {
		for _, b := range row.Buttons {
			if b.CustomID == customID {
				return b, true
			}
		}
	}
	return ports.Button{}, false
}

// findMenu returns the select menu with the given custom ID.
func findMenu(view ports.View, customID string) *ports.SelectMenu {
	for _, row := range view.Components {
		if row.SelectMenu != nil && row.SelectMenu.CustomID == customID {
			return row.SelectMenu
		}
	}
	return nil
}

// push appends events to the script.
func (a *scriptedAwaiter) push(results ...awaitResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.script = append(a.script, results...)
}
