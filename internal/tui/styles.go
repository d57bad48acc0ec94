// Package tui provides the terminal user interface for aura.
package tui

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/render"
)

// Color variables (updated from the palette)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when the palette changes)
var (
	// Sidebar
	sidebarStyle      lipgloss.Style
	brandStyle        lipgloss.Style
	brandTaglineStyle lipgloss.Style
	navItemStyle      lipgloss.Style
	navSelectedStyle  lipgloss.Style
	navBusyStyle      lipgloss.Style

	// Header panel
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Messages area panel
	messagesAreaStyle lipgloss.Style

	// Message bubbles
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// Image panel
	imageSectionHeaderStyle lipgloss.Style
	imageSummaryStyle       lipgloss.Style
	placeholderStyle        lipgloss.Style

	// Input area panel
	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	loadingStyle lipgloss.Style

	// Status bar
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle    lipgloss.Style
	feedbackStyle lipgloss.Style
)

// Gradient colors for the loading animation (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#22d3ee"),
	lipgloss.Color("#06b6d4"),
	lipgloss.Color("#0891b2"),
	lipgloss.Color("#0e7490"),
	lipgloss.Color("#155e75"),
	lipgloss.Color("#0e7490"),
	lipgloss.Color("#0891b2"),
	lipgloss.Color("#06b6d4"),
}

func init() {
	ApplyPalette(render.AuraPalette)
}

// ApplyPalette refreshes all styles from p
func ApplyPalette(p render.Palette) {
	colorSurface = p.Surface
	colorBorder = p.Border
	colorPrimary = p.Primary
	colorSecondary = p.Secondary
	colorAccent = p.Accent
	colorWarning = p.Warning
	colorError = p.Error
	colorText = p.Text
	colorTextDim = p.TextDim
	colorTextMute = p.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	sidebarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 1)

	brandStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	brandTaglineStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginBottom(1)

	navItemStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		PaddingLeft(2)

	navSelectedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Background(colorSurface).
		Bold(true).
		PaddingLeft(1).
		SetString(">")

	navBusyStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	imageSectionHeaderStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	imageSummaryStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	placeholderStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)
}

// configHint points at the environment for a missing credential and at the
// config file for any other setting.
func configHint(err error) string {
	key := errors.GetConfigKey(err)
	if key == config.EnvAPIKey || stderrors.Is(err, errors.ErrMissingCredential) {
		return "Set API_KEY (or GEMINI_API_KEY) in the environment or in a .env file"
	}
	if key == "" {
		return "Check the configuration file (see `aura config`)"
	}
	return fmt.Sprintf("Fix %q in the configuration file (see `aura config`)", key)
}

// FormatError returns a styled error message with a hint for the error kind.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch errors.Classify(err) {
	case errors.KindConfig:
		sb.WriteString(dimStyle.Render("\n  Hint: " + configHint(err)))
	case errors.KindAuth:
		sb.WriteString(dimStyle.Render("\n  Hint: The API key was rejected. Check that API_KEY is valid"))
	case errors.KindUsageLimit:
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later"))
	case errors.KindNetwork:
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case errors.KindTimeout:
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
	}

	return sb.String()
}
