package domain

import "strings"

// Custom-ID namespaces. Component custom IDs are "<namespace>:<name>".
const (
	// SetupNamespace prefixes controls on setup messages.
	SetupNamespace = "rs_setup"

	// SelectorNamespace prefixes controls on published role selectors.
	SelectorNamespace = "role_selector"

	// LegacySelectMenuID is the custom ID used by selectors published
	// before namespaced IDs were introduced.
	LegacySelectMenuID = "selectmenu"
)

// Action is a recognized control on a setup message.
type Action int

const (
	ActionIgnored Action = iota // Anything not recognized
	ActionPreviousPage
	ActionNextPage
	ActionContinue
	ActionCancel
	ActionSelectRoles
	ActionAlphabetical
	ActionManual
	ActionSubmitOrder
	ActionYes
	ActionNo
	ActionSelectEmoji
	ActionSelectMax
	ActionSetMessage
	ActionAddEmbed
	ActionClearEmbeds
	ActionDone
)

var actionNames = map[Action]string{
	ActionPreviousPage: "previous_page",
	ActionNextPage:     "next_page",
	ActionContinue:     "continue",
	ActionCancel:       "cancel",
	ActionSelectRoles:  "select_roles",
	ActionAlphabetical: "alphabetical",
	ActionManual:       "manual",
	ActionSubmitOrder:  "submit_order",
	ActionYes:          "yes",
	ActionNo:           "no",
	ActionSelectEmoji:  "select_emoji",
	ActionSelectMax:    "select_max",
	ActionSetMessage:   "set_message",
	ActionAddEmbed:     "add_embed",
	ActionClearEmbeds:  "clear_embeds",
	ActionDone:         "done",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		m[name] = a
	}
	return m
}()

// String returns the action's name, or "ignored".
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "ignored"
}

// CustomID returns the component custom ID for the action.
// ActionIgnored has no custom ID.
func (a Action) CustomID() string {
	name, ok := actionNames[a]
	if !ok {
		return ""
	}
	return SetupNamespace + ":" + name
}

// DecodeAction maps a component custom ID to an Action.
// IDs outside the setup namespace or with unknown names decode to ActionIgnored.
func DecodeAction(customID string) Action {
	namespace, name, ok := strings.Cut(customID, ":")
	if !ok || namespace != SetupNamespace {
		return ActionIgnored
	}
	if a, ok := actionsByName[name]; ok {
		return a
	}
	return ActionIgnored
}

// SelectorControl is a recognized control on a published role selector.
type SelectorControl int

const (
	SelectorControlUnknown SelectorControl = iota
	SelectorControlSelect                  // The role select menu
	SelectorControlClear                   // Remove all of this menu's roles
	SelectorControlEdit                    // Re-open setup in edit mode
)

// CustomID returns the component custom ID for the control.
func (c SelectorControl) CustomID() string {
	switch c {
	case SelectorControlSelect:
		return SelectorNamespace + ":select"
	case SelectorControlClear:
		return SelectorNamespace + ":clear"
	case SelectorControlEdit:
		return SelectorNamespace + ":edit"
	default:
		return ""
	}
}

// DecodeSelectorControl maps a component custom ID to a SelectorControl.
func DecodeSelectorControl(customID string) SelectorControl {
	switch customID {
	case SelectorControlSelect.CustomID(), LegacySelectMenuID:
		return SelectorControlSelect
	case SelectorControlClear.CustomID():
		return SelectorControlClear
	case SelectorControlEdit.CustomID():
		return SelectorControlEdit
	default:
		return SelectorControlUnknown
	}
}
