package ports

import "github.com/sglre6355/zangra/internal/modules/role_selector/domain"

// View is a transport-neutral message: content, embeds, and component rows.
type View struct {
	Content    string
	Embeds     []domain.Embed
	Components []ActionRow
}

// ActionRow holds either buttons or a single select menu.
type ActionRow struct {
	Buttons    []Button
	SelectMenu *SelectMenu
}

// ButtonStyle is the colour of a button.
type ButtonStyle int

const (
	ButtonStylePrimary ButtonStyle = iota
	ButtonStyleSecondary
	ButtonStyleSuccess
	ButtonStyleDanger
)

// Button is a clickable control.
type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// SelectMenu is a string select menu.
type SelectMenu struct {
	CustomID    string
	Placeholder string
	MinValues   int
	MaxValues   int
	Disabled    bool
	Options     []SelectOption
}

// SelectOption is one entry of a SelectMenu.
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Emoji       *domain.EmojiRef
	Default     bool
}
