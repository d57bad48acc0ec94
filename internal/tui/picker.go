package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/aura/internal/models"
)

// newImagePicker creates a file picker restricted to image files
func newImagePicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = models.SupportedImageExtensions()
	fp.ShowHidden = false
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	fp.Styles.Selected = fp.Styles.Selected.Foreground(colorPrimary)
	fp.Styles.Cursor = fp.Styles.Cursor.Foreground(colorAccent)
	return fp
}

// updatePicker handles messages while the file picker is open
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			m.picking = false
			m.feedback = "Image selection cancelled"
			return m, nil
		}
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(ws.Width, ws.Height)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		if err := m.reg.Image.SelectFile(path); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.feedback = ""
		}
		m.refresh()
		return m, nil
	}

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.feedback = path + " is not a supported image (" + strings.Join(models.SupportedImageExtensions(), " ") + ")"
	}

	return m, cmd
}

// renderPicker renders the file picker panel
func (m Model) renderPicker() string {
	contentWidth := m.contentWidth()

	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Select an image"),
		subtitleStyle.Render(m.picker.CurrentDirectory),
	))

	sections := []string{
		header,
		messagesAreaStyle.Width(contentWidth).Render(m.picker.View()),
		hintStyle.Render("Enter: select  •  Esc: cancel"),
	}
	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
