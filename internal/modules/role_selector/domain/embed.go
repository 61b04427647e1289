package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Discord embed limits.
const (
	MaxEmbedsPerMessage  = 10
	maxEmbedTitle        = 256
	maxEmbedDescription  = 4096
	maxEmbedFields       = 25
	maxEmbedFieldName    = 256
	maxEmbedFieldValue   = 1024
	maxEmbedFooterText   = 2048
	maxEmbedAuthorName   = 256
	maxEmbedTotalLetters = 6000
)

// Embed is a rich embed attached to a published role selector.
// The JSON shape follows Discord's embed object so operators can paste
// embeds produced by common embed builders.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Image       *EmbedMedia  `json:"image,omitempty"`
	Thumbnail   *EmbedMedia  `json:"thumbnail,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedFooter is the footer of an Embed.
type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedMedia is an image or thumbnail of an Embed.
type EmbedMedia struct {
	URL string `json:"url"`
}

// EmbedAuthor is the author block of an Embed.
type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedField is a name/value field of an Embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// ParseEmbed parses an operator's embed reply.
// The reply may be wrapped in a Markdown code block.
func ParseEmbed(raw string) (Embed, error) {
	raw = stripCodeFence(raw)

	var e Embed
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Embed{}, fmt.Errorf("%w: %v", ErrInvalidEmbedJSON, err)
	}
	if err := e.Validate(); err != nil {
		return Embed{}, err
	}
	return e, nil
}

// Validate checks the embed against Discord's limits.
func (e Embed) Validate() error {
	if e.IsEmpty() {
		return ErrEmptyEmbed
	}

	total := 0
	check := func(what, s string, limit int) error {
		n := utf8.RuneCountInString(s)
		total += n
		if n > limit {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrEmbedTooLarge, what, limit)
		}
		return nil
	}

	if err := check("title", e.Title, maxEmbedTitle); err != nil {
		return err
	}
	if err := check("description", e.Description, maxEmbedDescription); err != nil {
		return err
	}
	if e.Footer != nil {
		if err := check("footer", e.Footer.Text, maxEmbedFooterText); err != nil {
			return err
		}
	}
	if e.Author != nil {
		if err := check("author name", e.Author.Name, maxEmbedAuthorName); err != nil {
			return err
		}
	}
	if len(e.Fields) > maxEmbedFields {
		return fmt.Errorf("%w: more than %d fields", ErrEmbedTooLarge, maxEmbedFields)
	}
	for i, f := range e.Fields {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("%w: field %d needs a name and a value", ErrInvalidEmbedJSON, i+1)
		}
		if err := check(fmt.Sprintf("field %d name", i+1), f.Name, maxEmbedFieldName); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("field %d value", i+1), f.Value, maxEmbedFieldValue); err != nil {
			return err
		}
	}
	if total > maxEmbedTotalLetters {
		return fmt.Errorf("%w: more than %d characters in total", ErrEmbedTooLarge, maxEmbedTotalLetters)
	}

	for _, l := range e.links() {
		if l.url != "" && !isWebLink(l.url) {
			return fmt.Errorf("%w: %s", ErrInvalidEmbedLink, l.field)
		}
	}
	if e.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			return ErrInvalidEmbedTimestamp
		}
	}
	return nil
}

type embedLink struct {
	field string
	url   string
}

// links returns every URL the embed carries.
func (e Embed) links() []embedLink {
	links := []embedLink{{"url", e.URL}}
	if e.Footer != nil {
		links = append(links, embedLink{"footer icon_url", e.Footer.IconURL})
	}
	if e.Image != nil {
		links = append(links, embedLink{"image url", e.Image.URL})
	}
	if e.Thumbnail != nil {
		links = append(links, embedLink{"thumbnail url", e.Thumbnail.URL})
	}
	if e.Author != nil {
		links = append(links,
			embedLink{"author url", e.Author.URL},
			embedLink{"author icon_url", e.Author.IconURL},
		)
	}
	return links
}

func isWebLink(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsEmpty reports whether the embed has nothing Discord would display.
func (e Embed) IsEmpty() bool {
	return strings.TrimSpace(e.Title) == "" &&
		strings.TrimSpace(e.Description) == "" &&
		len(e.Fields) == 0 &&
		(e.Image == nil || e.Image.URL == "") &&
		(e.Thumbnail == nil || e.Thumbnail.URL == "") &&
		(e.Author == nil || e.Author.Name == "") &&
		(e.Footer == nil || e.Footer.Text == "")
}

// stripCodeFence removes a surrounding ``` or ```json block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop an optional language tag on the opening line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
