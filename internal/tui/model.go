package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/render"
	"github.com/diogo/aura/internal/transcript"
	"github.com/diogo/aura/internal/view"
)

const sidebarWidth = 28

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	replyMsg struct {
		ex    *view.Exchange
		mode  view.Mode
		reply view.Reply
	}
	analysisMsg struct {
		a    *view.Analysis
		text string
	}
	exportedMsg struct {
		path string
		err  error
	}
)

// Model represents the TUI state
type Model struct {
	ctx    context.Context
	reg    *view.Registry
	cfg    config.Config
	logger *slog.Logger
	keys   KeyMap
	mode   view.Mode

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   filepicker.Model
	search   textinput.Model

	// State
	picking        bool
	searching      bool
	ready          bool
	feedback       string
	err            error
	animationFrame int

	copyText func(string) error

	// Dimensions
	width  int
	height int
}

// NewModel creates the application model over reg, starting in mode.
func NewModel(ctx context.Context, reg *view.Registry, cfg config.Config, mode view.Mode, logger *slog.Logger) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	ta := textarea.New()
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		ctx:      ctx,
		reg:      reg,
		cfg:      cfg,
		logger:   logger,
		keys:     DefaultKeyMap(),
		textarea: ta,
		spinner:  s,
		picker:   newImagePicker(),
		search:   newSearchInput(),
		copyText: clipboard.WriteAll,
	}
	m.enterMode(mode)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Mode returns the active view
func (m Model) Mode() view.Mode {
	return m.mode
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Replies and ticks are applied whatever overlay is open
	if next, cmd, ok := m.updateAsync(msg); ok {
		return next, cmd
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok && m.searching {
		return m.updateSearch(k)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			next, cmd := m.submit()
			if cmd == nil {
				return next, nil
			}
			return next, tea.Batch(cmd, next.spinner.Tick, animationTick())

		case key.Matches(msg, m.keys.NextMode):
			m.switchMode(m.mode.Next())
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.switchMode(m.mode.Prev())
			return m, nil

		case key.Matches(msg, m.keys.JumpMode):
			if i, ok := jumpTarget(msg.String()); ok {
				m.switchMode(view.Modes()[i].Mode)
			}
			return m, nil

		case key.Matches(msg, m.keys.PickImage):
			if m.mode != view.ModeImage {
				m.switchMode(view.ModeImage)
			}
			if m.reg.Image.Busy() {
				m.feedback = "Wait for the analysis to finish before changing the image"
				return m, nil
			}
			m.picking = true
			m.feedback = ""
			return m, m.picker.Init()

		case key.Matches(msg, m.keys.RemoveImage):
			if m.mode == view.ModeImage {
				if err := m.reg.Image.RemoveImage(); err != nil {
					m.feedback = "Wait for the analysis to finish before changing the image"
					return m, nil
				}
				m.feedback = "Image removed"
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Search):
			return m.openSearch()

		case key.Matches(msg, m.keys.Copy):
			m.copyLastReply()
			return m, nil

		case key.Matches(msg, m.keys.Export):
			return m, m.export()

		case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		// Input is locked while the active view has a request in flight
		if !m.reg.Busy(m.mode) {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateAsync applies request results and animation ticks. It reports
// whether msg was one of them.
func (m Model) updateAsync(msg tea.Msg) (Model, tea.Cmd, bool) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case replyMsg:
		if c := m.reg.Controller(msg.mode); c != nil {
			c.Resolve(msg.ex, msg.reply)
		}
		if msg.mode == m.mode {
			m.refresh()
			if !m.searching {
				m.viewport.GotoBottom()
			}
		}

	case analysisMsg:
		m.reg.Image.Resolve(msg.a, msg.text)
		if m.mode == view.ModeImage {
			m.refresh()
			m.viewport.GotoTop()
		}

	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.feedback = "Exported to " + msg.path
		}

	case spinner.TickMsg:
		if m.anyBusy() {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case animationTickMsg:
		if m.anyBusy() {
			m.animationFrame++
			cmd = animationTick()
		}

	default:
		return m, nil, false
	}

	return m, cmd, true
}

// submit starts a request for the active view. The returned command performs
// the remote call; it is nil when the view rejected the submission.
func (m Model) submit() (Model, tea.Cmd) {
	ctx := m.ctx
	m.err = nil
	m.feedback = ""

	if m.mode == view.ModeImage {
		m.reg.Image.SetPrompt(m.textarea.Value())
		a, ok := m.reg.Image.Analyze()
		m.refresh()
		if !ok {
			return m, nil
		}
		m.animationFrame = 0
		return m, func() tea.Msg {
			return analysisMsg{a: a, text: a.Run(ctx)}
		}
	}

	c := m.reg.Controller(m.mode)
	c.SetInput(m.textarea.Value())
	ex, ok := c.Submit(c.Input())
	if !ok {
		return m, nil
	}
	m.textarea.Reset()
	m.animationFrame = 0
	m.refresh()
	m.viewport.GotoBottom()

	mode := m.mode
	return m, func() tea.Msg {
		return replyMsg{ex: ex, mode: mode, reply: ex.Run(ctx)}
	}
}

// switchMode stores the draft of the current view and shows mode
func (m *Model) switchMode(mode view.Mode) {
	if mode == m.mode {
		return
	}
	if m.mode == view.ModeImage {
		m.reg.Image.SetPrompt(m.textarea.Value())
	} else if c := m.reg.Controller(m.mode); c != nil {
		c.SetInput(m.textarea.Value())
	}
	m.feedback = ""
	m.err = nil
	m.enterMode(mode)
}

// enterMode loads the draft and content of mode
func (m *Model) enterMode(mode view.Mode) {
	m.mode = mode
	info := mode.Info()
	m.textarea.Placeholder = info.Placeholder

	if mode == view.ModeImage {
		m.textarea.SetValue(m.reg.Image.Prompt())
	} else if c := m.reg.Controller(mode); c != nil {
		m.textarea.SetValue(c.Input())
	}
	m.refresh()
	m.viewport.GotoBottom()
}

func (m Model) anyBusy() bool {
	for _, info := range view.Modes() {
		if m.reg.Busy(info.Mode) {
			return true
		}
	}
	return false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 7
	statusHeight := 2
	vpHeight := max(height-headerHeight-inputHeight-statusHeight-2, 5)
	contentWidth := m.contentWidth()

	if !m.ready {
		m.viewport = viewport.New(contentWidth-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth - 4
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refresh()
}

func (m Model) contentWidth() int {
	return max(m.width-sidebarWidth-2, 20)
}

// refresh rebuilds the viewport content for the active view
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	if m.mode == view.ModeImage {
		m.viewport.SetContent(m.renderImagePanel(m.viewport.Width))
		return
	}
	if m.searching {
		m.viewport.SetContent(m.renderSearchResults(m.viewport.Width))
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.reg.Controller(m.mode).Messages(), m.viewport.Width))
}

func (m Model) renderOptions(width int) render.Options {
	return render.OptionsFromConfig(m.cfg.Markdown, width)
}

// renderTranscript renders messages as chat bubbles
func (m Model) renderTranscript(messages []models.Message, width int) string {
	var content strings.Builder
	bubbleWidth := max(width-6, 10)

	for i, msg := range messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Aura")
			rendered, err := render.Reply(msg.Text, msg.Sources, m.renderOptions(bubbleWidth-4))
			if err != nil {
				m.logger.Warn("markdown render failed", "error", err)
			}
			content.WriteString(label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// renderImagePanel renders the selected image, validation error and result
func (m Model) renderImagePanel(width int) string {
	img := m.reg.Image
	var sections []string

	sections = append(sections, imageSectionHeaderStyle.Render("Image"))
	if preview := img.Preview(); !preview.IsZero() {
		sections = append(sections, imageSummaryStyle.Render("🖼  "+preview.Summary()))
	} else {
		sections = append(sections,
			placeholderStyle.Render("No image selected. Press Ctrl+O to choose one."),
			placeholderStyle.Render("PNG, JPG, GIF, WEBP up to 10MB"),
		)
	}

	if e := img.Err(); e != "" {
		sections = append(sections, "", errorStyle.Render(e))
	}

	sections = append(sections, "", imageSectionHeaderStyle.Render("Analysis"))
	switch result := img.Result(); {
	case img.Busy():
		sections = append(sections, loadingStyle.Render(view.ModeImage.Indicator()))
	case result == "":
		sections = append(sections, placeholderStyle.Render("Analysis output will appear here."))
	default:
		rendered, err := render.Reply(result, nil, m.renderOptions(width-2))
		if err != nil {
			m.logger.Warn("markdown render failed", "error", err)
		}
		sections = append(sections, rendered)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// copyLastReply puts the newest reply of the active view on the clipboard
func (m *Model) copyLastReply() {
	var text string
	if m.mode == view.ModeImage {
		text = m.reg.Image.Result()
	} else if reply, ok := m.reg.Controller(m.mode).Store().LastReply(); ok {
		text = reply.Text
		if s := render.SourcesMarkdown(reply.Sources); s != "" {
			text += "\n\n" + s
		}
	}

	if text == "" {
		m.feedback = "Nothing to copy"
		return
	}
	if err := m.copyText(text); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return
	}
	m.feedback = "Copied reply to clipboard"
}

// export writes the active transcript into the export directory
func (m *Model) export() tea.Cmd {
	c := m.reg.Controller(m.mode)
	if c == nil {
		m.feedback = "Nothing to export in this view"
		return nil
	}
	store := c.Store()
	cfg := m.cfg
	opts := transcript.DefaultExportOptions()
	opts.Format = transcript.ParseExportFormat(cfg.ExportFormat)

	return func() tea.Msg {
		dir, err := config.GetExportDir(cfg)
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := store.WriteExport(dir, opts)
		return exportedMsg{path: path, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	sidebar := m.renderSidebar()
	var main string
	if m.picking {
		main = m.renderPicker()
	} else {
		main = m.renderMain()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// renderSidebar renders the brand and the view navigation
func (m Model) renderSidebar() string {
	lines := []string{
		brandStyle.Render("AURA"),
		brandTaglineStyle.Render("Molecular Registry Sentinel"),
	}

	for i, info := range view.Modes() {
		label := fmt.Sprintf("%d %s", i+1, info.Title)
		if m.reg.Busy(info.Mode) {
			label += navBusyStyle.Render(" ●")
		}
		if info.Mode == m.mode {
			lines = append(lines, navSelectedStyle.Render(label))
		} else {
			lines = append(lines, navItemStyle.Render(label))
		}
	}

	return sidebarStyle.
		Width(sidebarWidth - 2).
		Height(max(m.height-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderMain renders the header, content, input and status bar
func (m Model) renderMain() string {
	contentWidth := m.contentWidth()
	info := m.mode.Info()

	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(info.Heading),
		subtitleStyle.Render(info.Description),
	))

	messages := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	var input string
	if m.searching {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Search"),
			m.search.View(),
			hintStyle.Render("Enter/Esc: back to conversation"),
		)
	} else if m.reg.Busy(m.mode) {
		input = m.renderLoadingAnimation(info.Indicator)
	} else {
		label := "You"
		if m.mode == view.ModeImage {
			label = "Prompt"
		}
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render(label),
			m.textarea.View(),
		)
	}

	sections := []string{
		header,
		messages,
		inputPanelStyle.Width(contentWidth).Render(input),
		m.renderStatusBar(contentWidth),
	}

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoadingAnimation renders the in-flight indicator of the active view
func (m Model) renderLoadingAnimation(text string) string {
	frame := m.animationFrame

	var bar strings.Builder
	for i := 0; i < 12; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render("█"))
	}

	return fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		bar.String(),
		lipgloss.NewStyle().Foreground(colorText).Render(text),
	)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	bindings := []key.Binding{m.keys.Submit, m.keys.NextMode}
	if m.mode == view.ModeImage {
		bindings = append(bindings, m.keys.PickImage, m.keys.RemoveImage)
	} else {
		bindings = append(bindings, m.keys.Search, m.keys.Export)
	}
	bindings = append(bindings, m.keys.Copy, m.keys.Quit)

	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Run starts the interactive interface and blocks until the user quits.
func Run(ctx context.Context, reg *view.Registry, cfg config.Config, mode view.Mode, logger *slog.Logger) error {
	if cfg.Theme != "" {
		ApplyPalette(render.PaletteByName(cfg.Theme))
	}

	m := NewModel(ctx, reg, cfg, mode, logger)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
