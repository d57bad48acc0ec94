// Package transcript holds the ordered message log of a view.
package transcript

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/aura/internal/models"
)

// Store is an append-only, ordered list of messages. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	title    string
	messages []models.Message
	now      func() time.Time
}

// New creates a store titled after its view. Seed messages are kept in order
// ahead of anything appended later.
func New(title string, seed ...models.Message) *Store {
	s := &Store{
		title:    title,
		messages: make([]models.Message, 0, len(seed)+8),
		now:      time.Now,
	}
	s.messages = append(s.messages, seed...)
	return s
}

// Greeting returns the assistant message that opens the chat transcript.
func Greeting() models.Message {
	return models.Message{
		ID:        models.GreetingID,
		Sender:    models.SenderAssistant,
		Text:      models.GreetingText,
		CreatedAt: time.Now(),
	}
}

// NewID returns a fresh, time-ordered message id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Title returns the store's title
func (s *Store) Title() string {
	return s.title
}

// Append adds a message and returns it
func (s *Store) Append(sender models.Sender, text string, sources []models.Citation) models.Message {
	msg := models.Message{
		ID:        NewID(),
		Sender:    sender,
		Text:      text,
		CreatedAt: s.now(),
	}
	if len(sources) > 0 {
		msg.Sources = append([]models.Citation(nil), sources...)
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// Messages returns a copy of the transcript in insertion order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastReply returns the most recent assistant message
func (s *Store) LastReply() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == models.SenderAssistant {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// SearchResult is a message matching a search query
type SearchResult struct {
	Index   int
	Message models.Message
	Snippet string
}

// Search returns the messages whose text contains query, case-insensitively.
func (s *Store) Search(query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []SearchResult
	for i, msg := range s.Messages() {
		if strings.Contains(strings.ToLower(msg.Text), strings.ToLower(query)) {
			results = append(results, SearchResult{
				Index:   i,
				Message: msg,
				Snippet: extractSnippet(msg.Text, query, 100),
			})
		}
	}
	return results
}

// extractSnippet extracts a snippet around the first occurrence of query.
// Positions are counted in runes so multi-byte text is never split.
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}

	needle := []rune(query)
	idx := indexFold(runes, needle)
	if idx == -1 {
		return string(runes[:maxLen]) + "..."
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(needle) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = max(end-maxLen, 0)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

// indexFold returns the rune index of the first case-insensitive match of
// sub in s, or -1.
func indexFold(s, sub []rune) int {
	if len(sub) == 0 {
		return -1
	}
	want := string(sub)
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(string(s[i:i+len(sub)]), want) {
			return i
		}
	}
	return -1
}
