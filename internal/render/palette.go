package render

import "github.com/charmbracelet/lipgloss"

// Palette defines the colors of the interactive interface
type Palette struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// AuraPalette is the default: cyan accents on slate
	AuraPalette = Palette{
		Name: "aura",

		Background: lipgloss.Color("#0f172a"),
		Surface:    lipgloss.Color("#1e293b"),
		Border:     lipgloss.Color("#334155"),

		Primary:   lipgloss.Color("#22d3ee"),
		Secondary: lipgloss.Color("#34d399"),
		Accent:    lipgloss.Color("#0891b2"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),

		Text:     lipgloss.Color("#e2e8f0"),
		TextDim:  lipgloss.Color("#94a3b8"),
		TextMute: lipgloss.Color("#64748b"),
	}

	// TokyoNightPalette is based on the Tokyo Night color scheme
	TokyoNightPalette = Palette{
		Name: "tokyonight",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}
)

// PaletteByName returns a palette, falling back to AuraPalette
func PaletteByName(name string) Palette {
	switch name {
	case TokyoNightPalette.Name:
		return TokyoNightPalette
	default:
		return AuraPalette
	}
}
