package models

import (
	"strings"
	"time"
)

// Sender identifies who produced a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Citation is a web source attached to a grounded reply
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Valid reports whether the citation carries a usable URI.
func (c Citation) Valid() bool {
	return strings.TrimSpace(c.URI) != ""
}

// Normalized trims the fields and falls back to the URI when the title is blank.
func (c Citation) Normalized() Citation {
	c.URI = strings.TrimSpace(c.URI)
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = c.URI
	}
	return c
}

// FilterCitations drops malformed entries and never returns nil.
func FilterCitations(in []Citation) []Citation {
	out := make([]Citation, 0, len(in))
	for _, c := range in {
		if !c.Valid() {
			continue
		}
		out = append(out, c.Normalized())
	}
	return out
}

// Message is one immutable transcript entry
type Message struct {
	ID        string     `json:"id"`
	Sender    Sender     `json:"sender"`
	Text      string     `json:"text"`
	Sources   []Citation `json:"sources,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
