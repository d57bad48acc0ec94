package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/aura/internal/transcript"
)

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search this conversation..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	return ti
}

// openSearch starts searching the transcript of the active view
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	if m.reg.Controller(m.mode) == nil {
		m.feedback = "Nothing to search in this view"
		return m, nil
	}
	m.searching = true
	m.feedback = ""
	m.search.SetValue("")
	m.search.Width = max(m.contentWidth()-10, 20)
	m.search.Focus()
	m.textarea.Blur()
	m.refresh()
	return m, textinput.Blink
}

// closeSearch leaves search and shows the transcript again
func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.textarea.Focus()
	m.refresh()
	m.viewport.GotoBottom()
}

// updateSearch handles keys while the search input is open
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.closeSearch()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	m.viewport.GotoTop()
	return m, cmd
}

// renderSearchResults renders the messages of the active view matching the
// search query, with a snippet around each match.
func (m Model) renderSearchResults(width int) string {
	query := strings.TrimSpace(m.search.Value())
	if query == "" {
		return placeholderStyle.Render("Matching messages will appear here.")
	}

	results := m.reg.Controller(m.mode).Store().Search(query)
	if len(results) == 0 {
		return placeholderStyle.Render(fmt.Sprintf("No messages match %q.", query))
	}

	lines := []string{subtitleStyle.Render(fmt.Sprintf("%d matching messages", len(results)))}
	for _, r := range results {
		lines = append(lines, "", searchResultLabel(r), lipgloss.NewStyle().Width(width).Render(r.Snippet))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func searchResultLabel(r transcript.SearchResult) string {
	label := fmt.Sprintf("#%d ", r.Index+1)
	if r.Message.IsUser() {
		return userLabelStyle.Render(label + "You")
	}
	return assistantLabelStyle.Render(label + "Aura")
}
