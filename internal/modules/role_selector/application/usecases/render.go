package usecases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

const (
	colorSetup  = 0x5865F2
	colorNotice = 0xFEE75C
)

// RenderSetup draws the setup message for the snapshot's phase.
func RenderSetup(snap domain.SessionSnapshot) ports.View {
	var view ports.View

	switch snap.Phase {
	case domain.PhaseRoleSelection:
		view = renderRoleSelection(snap)
	case domain.PhaseOrderingChoice:
		view = prompt("Choose an ordering for the list", selectedList(snap),
			buttonRow(
				button(domain.ActionAlphabetical, "Alphabetical", ports.ButtonStylePrimary, false),
				button(domain.ActionManual, "Manual", ports.ButtonStylePrimary, false),
				cancelButton(),
			))
	case domain.PhaseManualOrdering:
		view = renderManualOrdering(snap)
	case domain.PhaseDescriptionChoice:
		view = prompt("Add descriptions to selections?", selectedList(snap), yesNoRow(true))
	case domain.PhaseDescriptionEntry:
		view = renderEntryPrompt(snap, "Reply with a description for the role: %s")
		view.Components = append(view.Components, buttonRow(cancelButton()))
	case domain.PhaseEmojiChoice:
		desc := selectedList(snap)
		if !snap.HasEmojiDirectory {
			desc = "This server has no custom emoji."
		}
		view = prompt("Add an emoji to each selection?", desc, yesNoRow(snap.HasEmojiDirectory))
	case domain.PhaseEmojiEntry:
		view = renderEmojiEntry(snap)
	case domain.PhaseMaxSelectionChoice:
		view = renderMaxSelection(snap)
	case domain.PhaseBodyAuthoring:
		view = renderBodyAuthoring(snap)
	case domain.PhaseMessageEntry:
		view = prompt("Reply to me with the message", "", buttonRow(cancelButton()))
	case domain.PhaseEmbedEntry:
		view = prompt("Reply with JSON representing the embed",
			"Use Discord's embed object format. A ```json code block is accepted.", buttonRow(cancelButton()))
	default:
		view = prompt("Setup finished", "")
	}

	if snap.Notice != "" {
		view.Embeds = append(view.Embeds, domain.Embed{
			Description: snap.Notice,
			Color:       colorNotice,
		})
	}
	return view
}

// RenderSelector draws the published role selector.
// Descriptions and emoji are shown only when they cover every selected role.
func RenderSelector(snap domain.SessionSnapshot) ports.View {
	options := make([]ports.SelectOption, 0, len(snap.SelectedRoles))
	for _, role := range snap.SelectedRoles {
		opt := ports.SelectOption{
			Label: role.Name,
			Value: role.ID.String(),
		}
		if snap.DescriptionsReady {
			opt.Description = snap.RoleDescriptions[role.ID]
		}
		if snap.EmojisReady {
			if e, ok := snap.RoleEmojis[role.ID]; ok {
				opt.Emoji = &e
			}
		}
		options = append(options, opt)
	}

	return ports.View{
		Content: snap.BodyContent,
		Embeds:  snap.BodyEmbeds,
		Components: []ports.ActionRow{
			{
				SelectMenu: &ports.SelectMenu{
					CustomID:    domain.SelectorControlSelect.CustomID(),
					Placeholder: "Select Roles",
					MinValues:   0,
					MaxValues:   max(snap.MaxSelections, 1),
					Options:     options,
				},
			},
			{
				Buttons: []ports.Button{
					{
						CustomID: domain.SelectorControlClear.CustomID(),
						Label:    "Clear Roles",
						Style:    ports.ButtonStyleSecondary,
					},
					{
						CustomID: domain.SelectorControlEdit.CustomID(),
						Label:    "Edit",
						Style:    ports.ButtonStyleSecondary,
					},
				},
			},
		},
	}
}

func renderRoleSelection(snap domain.SessionSnapshot) ports.View {
	title := "Select Roles for this Role Selector"
	if snap.Editing {
		title = "Edit the roles of this Role Selector"
	}
	view := prompt(title, "Selected roles:\n"+roleNames(snap.SelectedRoles))
	view.Embeds[0].Footer = &domain.EmbedFooter{
		Text: fmt.Sprintf("Page %d/%d", snap.PageIndex+1, snap.PageCount),
	}

	if len(snap.PageRoles) > 0 {
		options := make([]ports.SelectOption, 0, len(snap.PageRoles))
		for _, role := range snap.PageRoles {
			options = append(options, ports.SelectOption{
				Label:   role.Name,
				Value:   role.ID.String(),
				Default: snap.IsSelected(role.ID),
			})
		}
		view.Components = append(view.Components, ports.ActionRow{
			SelectMenu: &ports.SelectMenu{
				CustomID:    domain.ActionSelectRoles.CustomID(),
				Placeholder: "Select Roles",
				MinValues:   0,
				MaxValues:   max(snap.SelectionLimit, 1),
				Disabled:    snap.SelectionLimit < 1,
				Options:     options,
			},
		})
	}

	view.Components = append(view.Components, buttonRow(
		button(domain.ActionPreviousPage, "Previous Page", ports.ButtonStyleSecondary, snap.PageIndex == 0),
		button(domain.ActionNextPage, "Next Page", ports.ButtonStyleSecondary, snap.PageIndex >= snap.PageCount-1),
		button(domain.ActionContinue, "Continue", ports.ButtonStyleSuccess, len(snap.SelectedRoles) == 0),
		cancelButton(),
	))
	return view
}

func renderManualOrdering(snap domain.SessionSnapshot) ports.View {
	view := prompt("Make selections in the desired order",
		"Pick every role, one after another, in the order they should be listed.")

	options := make([]ports.SelectOption, 0, len(snap.SelectedRoles))
	for _, role := range snap.SelectedRoles {
		options = append(options, ports.SelectOption{Label: role.Name, Value: role.ID.String()})
	}
	view.Components = append(view.Components,
		ports.ActionRow{
			SelectMenu: &ports.SelectMenu{
				CustomID:    domain.ActionSubmitOrder.CustomID(),
				Placeholder: "Select in order",
				MinValues:   len(options),
				MaxValues:   len(options),
				Options:     options,
			},
		},
		buttonRow(cancelButton()),
	)
	return view
}

func renderEntryPrompt(snap domain.SessionSnapshot, format string) ports.View {
	if snap.CurrentRole == nil {
		return prompt("Waiting", "")
	}
	view := prompt(fmt.Sprintf(format, snap.CurrentRole.Name), "")
	view.Embeds[0].Footer = &domain.EmbedFooter{
		Text: fmt.Sprintf("Role %d/%d", snap.Cursor+1, len(snap.SelectedRoles)),
	}
	return view
}

func renderEmojiEntry(snap domain.SessionSnapshot) ports.View {
	view := renderEntryPrompt(snap, "Pick an emoji for the role: %s")
	if snap.CurrentRole == nil {
		return view
	}
	view.Embeds[0].Footer.Text += fmt.Sprintf(" · Page %d/%d", snap.PageIndex+1, snap.PageCount)

	options := make([]ports.SelectOption, 0, len(snap.PageEmojis))
	for _, e := range snap.PageEmojis {
		emoji := e
		options = append(options, ports.SelectOption{
			Label: e.Name,
			Value: e.ID.String(),
			Emoji: &emoji,
		})
	}
	if len(options) > 0 {
		view.Components = append(view.Components, ports.ActionRow{
			SelectMenu: &ports.SelectMenu{
				CustomID:    domain.ActionSelectEmoji.CustomID(),
				Placeholder: "Pick an emoji",
				MinValues:   1,
				MaxValues:   1,
				Options:     options,
			},
		})
	}
	view.Components = append(view.Components, buttonRow(
		button(domain.ActionPreviousPage, "Previous Page", ports.ButtonStyleSecondary, snap.PageIndex == 0),
		button(domain.ActionNextPage, "Next Page", ports.ButtonStyleSecondary, snap.PageIndex >= snap.PageCount-1),
		cancelButton(),
	))
	return view
}

func renderMaxSelection(snap domain.SessionSnapshot) ports.View {
	view := prompt("What is the maximum number of selections a user can make?", "")

	options := make([]ports.SelectOption, 0, len(snap.SelectedRoles))
	for i := 1; i <= len(snap.SelectedRoles); i++ {
		n := strconv.Itoa(i)
		options = append(options, ports.SelectOption{
			Label:   n,
			Value:   n,
			Default: i == snap.MaxSelections,
		})
	}
	view.Components = append(view.Components,
		ports.ActionRow{
			SelectMenu: &ports.SelectMenu{
				CustomID:    domain.ActionSelectMax.CustomID(),
				Placeholder: "Pick a number",
				MinValues:   1,
				MaxValues:   1,
				Options:     options,
			},
		},
		buttonRow(cancelButton()),
	)
	return view
}

func renderBodyAuthoring(snap domain.SessionSnapshot) ports.View {
	var b strings.Builder
	b.WriteString("This embed will be deleted once setup is complete.\n\n")
	if snap.BodyContent != "" {
		fmt.Fprintf(&b, "**Message:**\n%s\n\n", snap.BodyContent)
	} else {
		b.WriteString("**Message:** none\n\n")
	}
	fmt.Fprintf(&b, "**Embeds:** %d/%d", len(snap.BodyEmbeds), domain.MaxEmbedsPerMessage)

	view := prompt("Set a message or embeds?", b.String(), buttonRow(
		button(domain.ActionSetMessage, "Set Message", ports.ButtonStylePrimary, false),
		button(domain.ActionAddEmbed, "Add Embed", ports.ButtonStylePrimary,
			len(snap.BodyEmbeds) >= domain.MaxEmbedsPerMessage),
		button(domain.ActionClearEmbeds, "Clear Embeds", ports.ButtonStyleSecondary, len(snap.BodyEmbeds) == 0),
		button(domain.ActionDone, "Done", ports.ButtonStyleSuccess, false),
		cancelButton(),
	))
	// Preview the newest embeds; the prompt and a notice take two of the ten slots.
	preview := snap.BodyEmbeds
	if len(preview) > domain.MaxEmbedsPerMessage-2 {
		preview = preview[len(preview)-(domain.MaxEmbedsPerMessage-2):]
	}
	view.Embeds = append(view.Embeds, preview...)
	return view
}

func prompt(title, description string, rows ...ports.ActionRow) ports.View {
	return ports.View{
		Embeds: []domain.Embed{{
			Title:       title,
			Description: description,
			Color:       colorSetup,
		}},
		Components: rows,
	}
}

func yesNoRow(yesEnabled bool) ports.ActionRow {
	return buttonRow(
		button(domain.ActionYes, "Yes", ports.ButtonStyleSuccess, !yesEnabled),
		button(domain.ActionNo, "No", ports.ButtonStyleSecondary, false),
		cancelButton(),
	)
}

func buttonRow(buttons ...ports.Button) ports.ActionRow {
	return ports.ActionRow{Buttons: buttons}
}

func button(action domain.Action, label string, style ports.ButtonStyle, disabled bool) ports.Button {
	return ports.Button{
		CustomID: action.CustomID(),
		Label:    label,
		Style:    style,
		Disabled: disabled,
	}
}

func cancelButton() ports.Button {
	return button(domain.ActionCancel, "Cancel", ports.ButtonStyleDanger, false)
}

func selectedList(snap domain.SessionSnapshot) string {
	return "Selected roles:\n" + roleNames(snap.SelectedRoles)
}

func roleNames(roles []domain.RoleRef) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return strings.Join(names, "\n")
}
