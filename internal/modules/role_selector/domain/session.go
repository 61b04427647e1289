package domain

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

// Discord text limits.
const (
	MaxDescriptionLength = 100  // Select option description
	MaxContentLength     = 2000 // Message content
)

// SessionParams holds what is needed to open a SelectorSession.
type SessionParams struct {
	GuildID       snowflake.ID
	ChannelID     snowflake.ID
	OperatorID    snowflake.ID
	Directory     *Directory
	EmojisEnabled bool

	// EditTarget is the published selector being edited. Zero when creating.
	EditTarget snowflake.ID

	// Seed pre-populates the session in edit mode.
	Seed *SessionSeed
}

// SessionSeed is the state read back from a published selector.
type SessionSeed struct {
	RoleIDs       []snowflake.ID
	MaxSelections int
	Content       string
	Embeds        []Embed
}

// SelectorSession is the state of one in-progress role selector setup.
// It is owned by a single wizard run and mutated only by the step controller.
type SelectorSession struct {
	guildID       snowflake.ID
	channelID     snowflake.ID
	operatorID    snowflake.ID
	editTarget    snowflake.ID
	directory     *Directory
	emojisEnabled bool

	// ownerMessageID is the setup message; it stays stable for the session's lifetime.
	ownerMessageID snowflake.ID

	phase            Phase
	pageIndex        int
	selectedRoles    []snowflake.ID
	roleDescriptions map[snowflake.ID]string
	roleEmojis       map[snowflake.ID]snowflake.ID
	cursor           int // Index into selectedRoles during entry phases
	maxSelections    int
	bodyContent      string
	bodyEmbeds       []Embed
	notice           string
}

// NewSelectorSession creates a session in PhaseRoleSelection.
// Seeded roles absent from the directory are dropped.
func NewSelectorSession(params SessionParams) *SelectorSession {
	dir := params.Directory
	if dir == nil {
		dir = NewDirectory(nil, nil)
	}

	s := &SelectorSession{
		guildID:          params.GuildID,
		channelID:        params.ChannelID,
		operatorID:       params.OperatorID,
		editTarget:       params.EditTarget,
		directory:        dir,
		emojisEnabled:    params.EmojisEnabled,
		phase:            PhaseRoleSelection,
		roleDescriptions: make(map[snowflake.ID]string),
		roleEmojis:       make(map[snowflake.ID]snowflake.ID),
	}

	if seed := params.Seed; seed != nil {
		for _, id := range seed.RoleIDs {
			if len(s.selectedRoles) == PageSize {
				break
			}
			if dir.HasRole(id) && !slices.Contains(s.selectedRoles, id) {
				s.selectedRoles = append(s.selectedRoles, id)
			}
		}
		s.maxSelections = min(max(seed.MaxSelections, 0), len(s.selectedRoles))
		s.bodyContent = seed.Content
		s.bodyEmbeds = slices.Clone(seed.Embeds)
		if len(s.bodyEmbeds) > MaxEmbedsPerMessage {
			s.bodyEmbeds = s.bodyEmbeds[:MaxEmbedsPerMessage]
		}
	}

	return s
}

// AttachOwnerMessage records the setup message once it has been sent.
func (s *SelectorSession) AttachOwnerMessage(messageID snowflake.ID) {
	s.ownerMessageID = messageID
}

// OwnerMessageID returns the setup message ID.
func (s *SelectorSession) OwnerMessageID() snowflake.ID {
	return s.ownerMessageID
}

// GuildID returns the guild ID.
func (s *SelectorSession) GuildID() snowflake.ID {
	return s.guildID
}

// ChannelID returns the channel the setup runs in.
func (s *SelectorSession) ChannelID() snowflake.ID {
	return s.channelID
}

// OperatorID returns the member driving the setup.
func (s *SelectorSession) OperatorID() snowflake.ID {
	return s.operatorID
}

// EditTarget returns the published selector being edited, or zero.
func (s *SelectorSession) EditTarget() snowflake.ID {
	return s.editTarget
}

// IsEditing reports whether the session edits an existing selector.
func (s *SelectorSession) IsEditing() bool {
	return s.editTarget != 0
}

// EmojisEnabled reports whether the emoji phases are part of this session.
func (s *SelectorSession) EmojisEnabled() bool {
	return s.emojisEnabled
}

// Directory returns the directory snapshot.
func (s *SelectorSession) Directory() *Directory {
	return s.directory
}

// Phase returns the current phase.
func (s *SelectorSession) Phase() Phase {
	return s.phase
}

// Enter moves the session to the given phase.
// Paging and the entry cursor restart; any notice is kept so it can be shown in the new phase.
func (s *SelectorSession) Enter(phase Phase) {
	s.phase = phase
	s.pageIndex = 0
	s.cursor = 0
}

// PageIndex returns the zero-based page cursor.
func (s *SelectorSession) PageIndex() int {
	return s.pageIndex
}

// pagedItemCount is the length of the list the page cursor currently walks.
func (s *SelectorSession) pagedItemCount() int {
	if s.phase == PhaseEmojiEntry {
		return s.directory.EmojiCount()
	}
	return s.directory.RoleCount()
}

// PageCount returns the number of pages of the list being paged.
func (s *SelectorSession) PageCount() int {
	return PageCount(s.pagedItemCount())
}

// HasPreviousPage reports whether Previous is enabled.
func (s *SelectorSession) HasPreviousPage() bool {
	return s.pageIndex > 0
}

// HasNextPage reports whether Next is enabled.
func (s *SelectorSession) HasNextPage() bool {
	return s.pageIndex < s.PageCount()-1
}

// NextPage advances the page cursor, clamped to the last page.
func (s *SelectorSession) NextPage() {
	s.pageIndex = ClampPage(s.pageIndex+1, s.pagedItemCount())
}

// PreviousPage moves the page cursor back, clamped to the first page.
func (s *SelectorSession) PreviousPage() {
	s.pageIndex = ClampPage(s.pageIndex-1, s.pagedItemCount())
}

// RolesOnPage returns the directory roles on the current page.
func (s *SelectorSession) RolesOnPage() []RoleRef {
	return s.directory.rolePage(s.pageIndex)
}

// EmojisOnPage returns the directory emoji on the current page.
func (s *SelectorSession) EmojisOnPage() []EmojiRef {
	return s.directory.emojiPage(s.pageIndex)
}

// SelectionLimit returns how many roles may be checked on the current page
// so that the running total never exceeds PageSize.
func (s *SelectorSession) SelectionLimit() int {
	page := s.RolesOnPage()
	onPage := make(map[snowflake.ID]struct{}, len(page))
	for _, r := range page {
		onPage[r.ID] = struct{}{}
	}
	outside := 0
	for _, id := range s.selectedRoles {
		if _, ok := onPage[id]; !ok {
			outside++
		}
	}
	return max(0, min(PageSize-outside, len(page)))
}

// ApplyPageSelection replaces the selection for the current page with submitted.
// Roles on other pages are untouched, and submitted IDs not on the current page are ignored.
// Newly checked roles are appended in submission order. Returns true if the selection changed.
func (s *SelectorSession) ApplyPageSelection(submitted []snowflake.ID) bool {
	page := s.RolesOnPage()
	onPage := make(map[snowflake.ID]struct{}, len(page))
	for _, r := range page {
		onPage[r.ID] = struct{}{}
	}

	checked := make(map[snowflake.ID]struct{}, len(submitted))
	for _, id := range submitted {
		if _, ok := onPage[id]; ok {
			checked[id] = struct{}{}
		}
	}

	changed := false
	kept := s.selectedRoles[:0:0]
	for _, id := range s.selectedRoles {
		_, isOnPage := onPage[id]
		_, isChecked := checked[id]
		if isOnPage && !isChecked {
			changed = true
			continue
		}
		kept = append(kept, id)
	}

	limit := PageSize
	for _, id := range submitted {
		if _, ok := checked[id]; !ok || slices.Contains(kept, id) {
			continue
		}
		if len(kept) >= limit {
			break
		}
		kept = append(kept, id)
		changed = true
	}

	s.selectedRoles = kept
	return changed
}

// IsSelected reports whether the role is selected.
func (s *SelectorSession) IsSelected(id snowflake.ID) bool {
	return slices.Contains(s.selectedRoles, id)
}

// SelectedRoles returns a copy of the selected role IDs in order.
func (s *SelectorSession) SelectedRoles() []snowflake.ID {
	return slices.Clone(s.selectedRoles)
}

// SortAlphabetically orders the selection by role name as stored in the directory.
func (s *SelectorSession) SortAlphabetically() {
	slices.SortStableFunc(s.selectedRoles, func(a, b snowflake.ID) int {
		ra, _ := s.directory.Role(a)
		rb, _ := s.directory.Role(b)
		return strings.Compare(ra.Name, rb.Name)
	})
}

// ApplyManualOrder replaces the selection order.
// order must be a permutation of the current selection.
func (s *SelectorSession) ApplyManualOrder(order []snowflake.ID) error {
	if len(order) != len(s.selectedRoles) {
		return ErrInvalidOrder
	}
	seen := make(map[snowflake.ID]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup || !s.IsSelected(id) {
			return ErrInvalidOrder
		}
		seen[id] = struct{}{}
	}
	s.selectedRoles = slices.Clone(order)
	return nil
}

// Cursor returns the index of the role awaiting input in an entry phase.
func (s *SelectorSession) Cursor() int {
	return s.cursor
}

// CurrentRole returns the role awaiting a description or emoji.
func (s *SelectorSession) CurrentRole() (RoleRef, bool) {
	if s.cursor < 0 || s.cursor >= len(s.selectedRoles) {
		return RoleRef{}, false
	}
	return s.directory.Role(s.selectedRoles[s.cursor])
}

// EntryComplete reports whether every selected role has been visited in the current entry phase.
func (s *SelectorSession) EntryComplete() bool {
	return s.cursor >= len(s.selectedRoles)
}

// SetDescription records the description for the current role and advances the cursor.
func (s *SelectorSession) SetDescription(text string) error {
	role, ok := s.CurrentRole()
	if !ok {
		return ErrNoCurrentRole
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(text) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	s.roleDescriptions[role.ID] = text
	s.cursor++
	return nil
}

// ClearDescriptions drops all descriptions.
func (s *SelectorSession) ClearDescriptions() {
	clear(s.roleDescriptions)
}

// RoleDescriptions returns a copy of the descriptions.
func (s *SelectorSession) RoleDescriptions() map[snowflake.ID]string {
	out := make(map[snowflake.ID]string, len(s.roleDescriptions))
	for k, v := range s.roleDescriptions {
		out[k] = v
	}
	return out
}

// DescriptionsComplete reports whether every selected role has a description.
func (s *SelectorSession) DescriptionsComplete() bool {
	return coversExactly(s.selectedRoles, s.roleDescriptions)
}

// SetEmoji records the emoji for the current role and advances the cursor.
func (s *SelectorSession) SetEmoji(emojiID snowflake.ID) error {
	role, ok := s.CurrentRole()
	if !ok {
		return ErrNoCurrentRole
	}
	if _, ok := s.directory.Emoji(emojiID); !ok {
		return ErrUnknownEmoji
	}
	s.roleEmojis[role.ID] = emojiID
	s.cursor++
	s.pageIndex = 0
	return nil
}

// ClearEmojis drops all emoji assignments.
func (s *SelectorSession) ClearEmojis() {
	clear(s.roleEmojis)
}

// RoleEmojis returns a copy of the emoji assignments.
func (s *SelectorSession) RoleEmojis() map[snowflake.ID]snowflake.ID {
	out := make(map[snowflake.ID]snowflake.ID, len(s.roleEmojis))
	for k, v := range s.roleEmojis {
		out[k] = v
	}
	return out
}

// EmojisComplete reports whether every selected role has an emoji.
func (s *SelectorSession) EmojisComplete() bool {
	return coversExactly(s.selectedRoles, s.roleEmojis)
}

// MaxSelections returns how many roles an end user may hold from the published selector.
func (s *SelectorSession) MaxSelections() int {
	return s.maxSelections
}

// SetMaxSelections sets the maximum, which must be in [1, len(selectedRoles)].
func (s *SelectorSession) SetMaxSelections(n int) error {
	if n < 1 || n > len(s.selectedRoles) {
		return ErrMaxSelectionsOutOfRange
	}
	s.maxSelections = n
	return nil
}

// BodyContent returns the message content of the published selector.
func (s *SelectorSession) BodyContent() string {
	return s.bodyContent
}

// SetBodyContent replaces the message content.
func (s *SelectorSession) SetBodyContent(content string) error {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > MaxContentLength {
		return ErrContentTooLong
	}
	s.bodyContent = content
	return nil
}

// BodyEmbeds returns a copy of the embeds of the published selector.
func (s *SelectorSession) BodyEmbeds() []Embed {
	return slices.Clone(s.bodyEmbeds)
}

// AddEmbed appends an embed.
func (s *SelectorSession) AddEmbed(e Embed) error {
	if len(s.bodyEmbeds) >= MaxEmbedsPerMessage {
		return ErrTooManyEmbeds
	}
	s.bodyEmbeds = append(s.bodyEmbeds, e)
	return nil
}

// ClearEmbeds drops all embeds.
func (s *SelectorSession) ClearEmbeds() {
	s.bodyEmbeds = nil
}

// Notice returns the inline note shown with the next render.
func (s *SelectorSession) Notice() string {
	return s.notice
}

// SetNotice sets the inline note shown with the next render.
func (s *SelectorSession) SetNotice(notice string) {
	s.notice = notice
}

// ClearNotice removes the inline note.
func (s *SelectorSession) ClearNotice() {
	s.notice = ""
}

// DropVanishedRoles removes selected roles that are missing from live,
// along with their descriptions and emoji, and clamps the maximum.
// It returns the dropped role IDs.
func (s *SelectorSession) DropVanishedRoles(live *Directory) []snowflake.ID {
	if live == nil {
		return nil
	}
	var dropped []snowflake.ID
	kept := s.selectedRoles[:0:0]
	for _, id := range s.selectedRoles {
		if !live.HasRole(id) {
			dropped = append(dropped, id)
			delete(s.roleDescriptions, id)
			delete(s.roleEmojis, id)
			continue
		}
		kept = append(kept, id)
	}
	s.selectedRoles = kept
	if s.maxSelections > len(kept) {
		s.maxSelections = len(kept)
	}
	return dropped
}

// Snapshot returns an immutable view of the session for rendering.
func (s *SelectorSession) Snapshot() SessionSnapshot {
	selected := make([]RoleRef, 0, len(s.selectedRoles))
	for _, id := range s.selectedRoles {
		if r, ok := s.directory.Role(id); ok {
			selected = append(selected, r)
		}
	}

	emojis := make(map[snowflake.ID]EmojiRef, len(s.roleEmojis))
	for roleID, emojiID := range s.roleEmojis {
		if e, ok := s.directory.Emoji(emojiID); ok {
			emojis[roleID] = e
		}
	}

	snap := SessionSnapshot{
		OwnerMessageID:    s.ownerMessageID,
		GuildID:           s.guildID,
		ChannelID:         s.channelID,
		Editing:           s.IsEditing(),
		Phase:             s.phase,
		PageIndex:         s.pageIndex,
		PageCount:         s.PageCount(),
		SelectionLimit:    s.SelectionLimit(),
		SelectedRoles:     selected,
		RoleDescriptions:  s.RoleDescriptions(),
		RoleEmojis:        emojis,
		DescriptionsReady: s.DescriptionsComplete(),
		EmojisReady:       s.EmojisComplete(),
		Cursor:            s.cursor,
		MaxSelections:     s.maxSelections,
		BodyContent:       s.bodyContent,
		BodyEmbeds:        s.BodyEmbeds(),
		HasEmojiDirectory: s.directory.EmojiCount() > 0,
		Notice:            s.notice,
	}
	switch s.phase {
	case PhaseRoleSelection:
		snap.PageRoles = s.RolesOnPage()
	case PhaseEmojiEntry:
		snap.PageEmojis = s.EmojisOnPage()
	}
	if r, ok := s.CurrentRole(); ok {
		snap.CurrentRole = &r
	}
	return snap
}

// SessionSnapshot is a read-only copy of a SelectorSession used by render functions.
type SessionSnapshot struct {
	OwnerMessageID snowflake.ID
	GuildID        snowflake.ID
	ChannelID      snowflake.ID
	Editing        bool

	Phase          Phase
	PageIndex      int
	PageCount      int
	PageRoles      []RoleRef  // Set in PhaseRoleSelection
	PageEmojis     []EmojiRef // Set in PhaseEmojiEntry
	SelectionLimit int

	SelectedRoles     []RoleRef
	RoleDescriptions  map[snowflake.ID]string
	RoleEmojis        map[snowflake.ID]EmojiRef
	DescriptionsReady bool // Descriptions cover exactly SelectedRoles
	EmojisReady       bool // Emoji cover exactly SelectedRoles

	CurrentRole *RoleRef
	Cursor      int

	MaxSelections     int
	BodyContent       string
	BodyEmbeds        []Embed
	HasEmojiDirectory bool
	Notice            string
}

// IsSelected reports whether the role is part of the snapshot's selection.
func (s SessionSnapshot) IsSelected(id snowflake.ID) bool {
	for _, r := range s.SelectedRoles {
		if r.ID == id {
			return true
		}
	}
	return false
}

func coversExactly[V any](ids []snowflake.ID, m map[snowflake.ID]V) bool {
	if len(m) == 0 || len(m) != len(ids) {
		return false
	}
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			return false
		}
	}
	return true
}
