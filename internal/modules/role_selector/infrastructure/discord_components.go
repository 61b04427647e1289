package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

var buttonStyles = map[ports.ButtonStyle]discordgo.ButtonStyle{
	ports.ButtonStylePrimary:   discordgo.PrimaryButton,
	ports.ButtonStyleSecondary: discordgo.SecondaryButton,
	ports.ButtonStyleSuccess:   discordgo.SuccessButton,
	ports.ButtonStyleDanger:    discordgo.DangerButton,
}

// ToComponents converts view rows to discordgo components.
func ToComponents(rows []ports.ActionRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		var components []discordgo.MessageComponent
		if menu := row.SelectMenu; menu != nil {
			components = append(components, toSelectMenu(menu))
		}
		for _, b := range row.Buttons {
			components = append(components, discordgo.Button{
				CustomID: b.CustomID,
				Label:    b.Label,
				Style:    buttonStyles[b.Style],
				Disabled: b.Disabled,
			})
		}
		if len(components) > 0 {
			out = append(out, discordgo.ActionsRow{Components: components})
		}
	}
	return out
}

func toSelectMenu(menu *ports.SelectMenu) discordgo.SelectMenu {
	minValues := menu.MinValues
	options := make([]discordgo.SelectMenuOption, 0, len(menu.Options))
	for _, opt := range menu.Options {
		o := discordgo.SelectMenuOption{
			Label:       opt.Label,
			Value:       opt.Value,
			Description: opt.Description,
			Default:     opt.Default,
		}
		if opt.Emoji != nil {
			o.Emoji = &discordgo.ComponentEmoji{
				ID:       opt.Emoji.ID.String(),
				Name:     opt.Emoji.Name,
				Animated: opt.Emoji.Animated,
			}
		}
		options = append(options, o)
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    menu.CustomID,
		Placeholder: menu.Placeholder,
		MinValues:   &minValues,
		MaxValues:   menu.MaxValues,
		Disabled:    menu.Disabled,
		Options:     options,
	}
}

// ToEmbeds converts domain embeds to discordgo embeds.
func ToEmbeds(embeds []domain.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Type:        discordgo.EmbedTypeRich,
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       e.Color,
			Timestamp:   e.Timestamp,
		}
		if e.Footer != nil {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
		}
		if e.Image != nil {
			me.Image = &discordgo.MessageEmbedImage{URL: e.Image.URL}
		}
		if e.Thumbnail != nil {
			me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail.URL}
		}
		if e.Author != nil {
			me.Author = &discordgo.MessageEmbedAuthor{Name: e.Author.Name, URL: e.Author.URL, IconURL: e.Author.IconURL}
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		out = append(out, me)
	}
	return out
}

// FromEmbeds converts rich discordgo embeds back to domain embeds.
// Link previews and other generated embeds are skipped.
func FromEmbeds(embeds []*discordgo.MessageEmbed) []domain.Embed {
	var out []domain.Embed
	for _, me := range embeds {
		if me == nil || (me.Type != "" && me.Type != discordgo.EmbedTypeRich) {
			continue
		}
		e := domain.Embed{
			Title:       me.Title,
			Description: me.Description,
			URL:         me.URL,
			Color:       me.Color,
			Timestamp:   me.Timestamp,
		}
		if me.Footer != nil {
			e.Footer = &domain.EmbedFooter{Text: me.Footer.Text, IconURL: me.Footer.IconURL}
		}
		if me.Image != nil {
			e.Image = &domain.EmbedMedia{URL: me.Image.URL}
		}
		if me.Thumbnail != nil {
			e.Thumbnail = &domain.EmbedMedia{URL: me.Thumbnail.URL}
		}
		if me.Author != nil {
			e.Author = &domain.EmbedAuthor{Name: me.Author.Name, URL: me.Author.URL, IconURL: me.Author.IconURL}
		}
		for _, f := range me.Fields {
			if f == nil {
				continue
			}
			e.Fields = append(e.Fields, domain.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		out = append(out, e)
	}
	return out
}

// SelectorMenu finds the role select menu of a published selector message.
// Both current and legacy custom IDs are recognised.
func SelectorMenu(components []discordgo.MessageComponent) *discordgo.SelectMenu {
	for _, c := range components {
		var children []discordgo.MessageComponent
		switch row := c.(type) {
		case *discordgo.ActionsRow:
			children = row.Components
		case discordgo.ActionsRow:
			children = row.Components
		default:
			continue
		}
		for _, child := range children {
			var menu *discordgo.SelectMenu
			switch m := child.(type) {
			case *discordgo.SelectMenu:
				menu = m
			case discordgo.SelectMenu:
				menu = &m
			}
			if menu != nil && domain.DecodeSelectorControl(menu.CustomID) == domain.SelectorControlSelect {
				return menu
			}
		}
	}
	return nil
}

// MenuRoleIDs returns the role IDs offered by a selector menu, in order.
func MenuRoleIDs(menu *discordgo.SelectMenu) []snowflake.ID {
	if menu == nil {
		return nil
	}
	ids := make([]snowflake.ID, 0, len(menu.Options))
	for _, opt := range menu.Options {
		id, err := snowflake.Parse(opt.Value)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ParseSelectorMessage reads a published selector back out of its message.
func ParseSelectorMessage(msg *discordgo.Message) (*ports.PublishedSelector, bool) {
	menu := SelectorMenu(msg.Components)
	if menu == nil {
		return nil, false
	}

	hasEmojis := len(menu.Options) > 0
	for _, opt := range menu.Options {
		if opt.Emoji == nil || opt.Emoji.ID == "" {
			hasEmojis = false
			break
		}
	}

	return &ports.PublishedSelector{
		RoleIDs:       MenuRoleIDs(menu),
		MaxSelections: menu.MaxValues,
		Content:       msg.Content,
		Embeds:        FromEmbeds(msg.Embeds),
		HasEmojis:     hasEmojis,
	}, true
}
