package transcript

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/diogo/aura/internal/models"
)

func TestNewSeedsGreeting(t *testing.T) {
	store := New("Standard Query", Greeting())

	msgs := store.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].ID != models.GreetingID {
		t.Errorf("greeting id = %q, want %q", msgs[0].ID, models.GreetingID)
	}
	if msgs[0].Sender != models.SenderAssistant {
		t.Errorf("greeting sender = %q, want assistant", msgs[0].Sender)
	}
	if msgs[0].Text != models.GreetingText {
		t.Errorf("unexpected greeting text: %q", msgs[0].Text)
	}
}

func TestAppendKeepsOrderAndDistinctIDs(t *testing.T) {
	store := New("Deep Analysis")

	user := store.Append(models.SenderUser, "why", nil)
	reply := store.Append(models.SenderAssistant, "because", nil)

	if user.ID == "" || reply.ID == "" {
		t.Fatal("ids must not be empty")
	}
	if user.ID == reply.ID {
		t.Fatalf("ids must be distinct, both %q", user.ID)
	}

	msgs := store.Messages()
	if len(msgs) != 2 || msgs[0].Text != "why" || msgs[1].Text != "because" {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestAppendCopiesSources(t *testing.T) {
	store := New("Web Query")
	sources := []models.Citation{{URI: "https://a.test", Title: "A"}}

	store.Append(models.SenderAssistant, "grounded", sources)
	sources[0].Title = "mutated"

	if got := store.Messages()[0].Sources[0].Title; got != "A" {
		t.Errorf("stored source changed with caller slice: %q", got)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	store := New("Standard Query", Greeting())

	msgs := store.Messages()
	msgs[0].Text = "changed"

	if store.Messages()[0].Text != models.GreetingText {
		t.Error("Messages must return a copy")
	}
}

func TestLastReply(t *testing.T) {
	store := New("Standard Query")
	if _, ok := store.LastReply(); ok {
		t.Fatal("empty store has no reply")
	}

	store.Append(models.SenderAssistant, "first", nil)
	store.Append(models.SenderUser, "question", nil)

	reply, ok := store.LastReply()
	if !ok || reply.Text != "first" {
		t.Errorf("LastReply = %+v, %v", reply, ok)
	}
}

func TestConcurrentAppend(t *testing.T) {
	store := New("Standard Query")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Append(models.SenderUser, "x", nil)
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, msg := range store.Messages() {
		if seen[msg.ID] {
			t.Fatalf("duplicate id %q", msg.ID)
		}
		seen[msg.ID] = true
	}
	if store.Len() != 50 {
		t.Errorf("Len = %d, want 50", store.Len())
	}
}

func TestSearch(t *testing.T) {
	store := New("Standard Query")
	store.Append(models.SenderUser, "Tell me about Benzene rings", nil)
	store.Append(models.SenderAssistant, "Benzene is aromatic. "+strings.Repeat("x", 200), nil)
	store.Append(models.SenderUser, "thanks", nil)

	results := store.Search("benzene")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Index != 1 {
		t.Errorf("second result index = %d, want 1", results[1].Index)
	}
	if !strings.HasSuffix(results[1].Snippet, "...") {
		t.Errorf("long snippet should be truncated: %q", results[1].Snippet)
	}

	if store.Search("   ") != nil {
		t.Error("blank query should return nil")
	}
}

func TestSearchSnippetMultibyte(t *testing.T) {
	store := New("Standard Query")
	text := strings.Repeat("é", 120) + " Café au lait " + strings.Repeat("ü", 120)
	store.Append(models.SenderAssistant, text, nil)

	results := store.Search("CAFÉ")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	snippet := results[0].Snippet
	if !utf8.ValidString(snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", snippet)
	}
	if !strings.Contains(snippet, "Café") {
		t.Errorf("snippet should contain the match: %q", snippet)
	}
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Errorf("snippet should be trimmed on both sides: %q", snippet)
	}
}
