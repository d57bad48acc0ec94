package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings of the interface
type KeyMap struct {
	Submit      key.Binding
	Newline     key.Binding
	NextMode    key.Binding
	PrevMode    key.Binding
	JumpMode    key.Binding
	PickImage   key.Binding
	RemoveImage key.Binding
	Copy        key.Binding
	Export      key.Binding
	Search      key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("Alt+Enter", "newline"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next view"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous view"),
		),
		JumpMode: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "f1", "f2", "f3", "f4"),
			key.WithHelp("Alt+1-4", "jump to view"),
		),
		PickImage: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("Ctrl+O", "open image"),
		),
		RemoveImage: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "remove image"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("Ctrl+Y", "copy reply"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "export"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("Ctrl+F", "search"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "quit"),
		),
	}
}

// jumpTarget maps a jump key to a navigation index
func jumpTarget(k string) (int, bool) {
	switch k {
	case "alt+1", "f1":
		return 0, true
	case "alt+2", "f2":
		return 1, true
	case "alt+3", "f3":
		return 2, true
	case "alt+4", "f4":
		return 3, true
	default:
		return 0, false
	}
}
