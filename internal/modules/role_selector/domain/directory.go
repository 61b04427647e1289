package domain

import "github.com/disgoorg/snowflake/v2"

// PageSize is the number of entries shown per page.
// Discord rejects select menus with more than 25 options.
const PageSize = 25

// RoleRef identifies a guild role by ID and display name.
type RoleRef struct {
	ID   snowflake.ID
	Name string
}

// EmojiRef identifies a guild custom emoji.
type EmojiRef struct {
	ID       snowflake.ID
	Name     string
	Animated bool
}

// Directory is a read-only snapshot of a guild's roles and custom emoji,
// taken once when a setup session starts.
type Directory struct {
	roles      []RoleRef
	roleIndex  map[snowflake.ID]int
	emojis     []EmojiRef
	emojiIndex map[snowflake.ID]int
}

// NewDirectory creates a Directory from the given roles and emoji.
// The slices are copied; their order is the display order.
// Duplicate IDs keep their first occurrence.
func NewDirectory(roles []RoleRef, emojis []EmojiRef) *Directory {
	d := &Directory{
		roles:      make([]RoleRef, 0, len(roles)),
		roleIndex:  make(map[snowflake.ID]int, len(roles)),
		emojis:     make([]EmojiRef, 0, len(emojis)),
		emojiIndex: make(map[snowflake.ID]int, len(emojis)),
	}
	for _, r := range roles {
		if _, ok := d.roleIndex[r.ID]; ok {
			continue
		}
		d.roleIndex[r.ID] = len(d.roles)
		d.roles = append(d.roles, r)
	}
	for _, e := range emojis {
		if _, ok := d.emojiIndex[e.ID]; ok {
			continue
		}
		d.emojiIndex[e.ID] = len(d.emojis)
		d.emojis = append(d.emojis, e)
	}
	return d
}

// Roles returns a copy of all roles in display order.
func (d *Directory) Roles() []RoleRef {
	out := make([]RoleRef, len(d.roles))
	copy(out, d.roles)
	return out
}

// Role returns the role with the given ID.
func (d *Directory) Role(id snowflake.ID) (RoleRef, bool) {
	i, ok := d.roleIndex[id]
	if !ok {
		return RoleRef{}, false
	}
	return d.roles[i], true
}

// HasRole reports whether the directory contains the role.
func (d *Directory) HasRole(id snowflake.ID) bool {
	_, ok := d.roleIndex[id]
	return ok
}

// RoleCount returns the number of roles.
func (d *Directory) RoleCount() int {
	return len(d.roles)
}

// Emojis returns a copy of all emoji in display order.
func (d *Directory) Emojis() []EmojiRef {
	out := make([]EmojiRef, len(d.emojis))
	copy(out, d.emojis)
	return out
}

// Emoji returns the emoji with the given ID.
func (d *Directory) Emoji(id snowflake.ID) (EmojiRef, bool) {
	i, ok := d.emojiIndex[id]
	if !ok {
		return EmojiRef{}, false
	}
	return d.emojis[i], true
}

// EmojiCount returns the number of custom emoji.
func (d *Directory) EmojiCount() int {
	return len(d.emojis)
}

// rolePage returns the roles on the given zero-based page.
func (d *Directory) rolePage(page int) []RoleRef {
	start, end := pageBounds(len(d.roles), page)
	out := make([]RoleRef, end-start)
	copy(out, d.roles[start:end])
	return out
}

// emojiPage returns the emoji on the given zero-based page.
func (d *Directory) emojiPage(page int) []EmojiRef {
	start, end := pageBounds(len(d.emojis), page)
	out := make([]EmojiRef, end-start)
	copy(out, d.emojis[start:end])
	return out
}

// PageCount returns the number of pages needed for total entries.
// An empty list still has one (empty) page.
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ClampPage limits page to [0, PageCount(total)-1].
func ClampPage(page, total int) int {
	last := PageCount(total) - 1
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}

func pageBounds(total, page int) (start, end int) {
	page = ClampPage(page, total)
	start = page * PageSize
	if start > total {
		start = total
	}
	end = start + PageSize
	if end > total {
		end = total
	}
	return start, end
}
