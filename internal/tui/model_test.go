package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/aura/internal/config"
	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/view"
)

type fakeInference struct {
	calls int
}

func (f *fakeInference) Converse(ctx context.Context, prompt string) string {
	f.calls++
	return "chat: " + prompt
}

func (f *fakeInference) AnalyzeImage(ctx context.Context, prompt string, img models.Image) string {
	f.calls++
	return "image: " + prompt
}

func (f *fakeInference) DeepReason(ctx context.Context, prompt string) string {
	f.calls++
	return "deep: " + prompt
}

func (f *fakeInference) WebQuery(ctx context.Context, prompt string) models.GroundedReply {
	f.calls++
	return models.GroundedReply{
		Text:    "web: " + prompt,
		Sources: []models.Citation{{URI: "https://example.test", Title: "Example"}},
	}
}

func newTestModel(t *testing.T, mode view.Mode) (Model, *view.Registry, *fakeInference) {
	t.Helper()
	fake := &fakeInference{}
	reg := view.NewRegistry(fake)
	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "notty"

	m := NewModel(context.Background(), reg, cfg, mode, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), reg, fake
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func TestNewModelStartsInMode(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeDeep)

	assert.Equal(t, view.ModeDeep, m.Mode())
	assert.Equal(t, view.ModeDeep.Info().Placeholder, m.textarea.Placeholder)
	assert.Contains(t, m.View(), "Deep Analysis")
}

func TestChatSubmitCycle(t *testing.T) {
	m, reg, fake := newTestModel(t, view.ModeChat)
	m = typeText(m, "hello")

	m, cmd := m.submit()
	require.NotNil(t, cmd)
	assert.True(t, reg.Chat.Busy())
	assert.Empty(t, m.textarea.Value())

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	msgs := reg.Chat.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[1].Text)
	assert.Equal(t, "chat: hello", msgs[2].Text)
	assert.False(t, reg.Chat.Busy())
	assert.Equal(t, 1, fake.calls)
	assert.Contains(t, m.viewport.View(), "chat: hello")
}

func TestBlankSubmitDoesNothing(t *testing.T) {
	m, reg, fake := newTestModel(t, view.ModeWeb)

	_, cmd := m.submit()
	assert.Nil(t, cmd)
	assert.Empty(t, reg.Web.Messages())
	assert.Zero(t, fake.calls)
}

func TestInputLockedWhileBusy(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)
	m = typeText(m, "first")
	m, cmd := m.submit()
	require.NotNil(t, cmd)

	m = typeText(m, "typed while busy")
	assert.Empty(t, m.textarea.Value())
	assert.Contains(t, m.View(), view.ModeChat.Indicator())
}

func TestModeSwitchKeepsDrafts(t *testing.T) {
	m, reg, _ := newTestModel(t, view.ModeChat)
	m = typeText(m, "chat draft")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, view.ModeImage, m.Mode())
	assert.Empty(t, m.textarea.Value())
	assert.Equal(t, "chat draft", reg.Chat.Input())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, view.ModeChat, m.Mode())
	assert.Equal(t, "chat draft", m.textarea.Value())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyF4})
	m = updated.(Model)
	assert.Equal(t, view.ModeWeb, m.Mode())
}

func TestWebReplyShowsSources(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeWeb)
	m = typeText(m, "news")

	m, cmd := m.submit()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	content := m.viewport.View()
	assert.Contains(t, content, "web: news")
	assert.Contains(t, content, "Example")
}

func TestImageValidationShown(t *testing.T) {
	m, reg, fake := newTestModel(t, view.ModeImage)
	m = typeText(m, "what is this")

	m, cmd := m.submit()
	assert.Nil(t, cmd)
	assert.Equal(t, models.ImageValidationMessage, reg.Image.Err())
	assert.Contains(t, m.viewport.View(), "Please provide an image")
	assert.Zero(t, fake.calls)
}

func TestImageAnalysisCycle(t *testing.T) {
	m, reg, _ := newTestModel(t, view.ModeImage)
	require.NoError(t, reg.Image.SelectImage(models.Image{Name: "a.gif", MIMEType: "image/gif", Data: []byte("GIF89a")}))
	m = typeText(m, "identify")

	m, cmd := m.submit()
	require.NotNil(t, cmd)
	assert.True(t, reg.Image.Busy())

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, "image: identify", reg.Image.Result())
	assert.Equal(t, "identify", m.textarea.Value())
	assert.Contains(t, m.viewport.View(), "image: identify")
}

func TestLateReplyAfterModeSwitch(t *testing.T) {
	m, reg, _ := newTestModel(t, view.ModeDeep)
	m = typeText(m, "slow question")
	m, cmd := m.submit()
	require.NotNil(t, cmd)

	m.switchMode(view.ModeChat)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.Len(t, reg.Deep.Messages(), 2)
	assert.False(t, reg.Deep.Busy())
	assert.Equal(t, view.ModeChat, m.Mode())
}

func TestCopyLastReply(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m.copyLastReply()
	assert.Equal(t, models.GreetingText, copied)
	assert.Equal(t, "Copied reply to clipboard", m.feedback)

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m.copyLastReply()
	assert.Error(t, m.err)

	m.switchMode(view.ModeImage)
	m.copyLastReply()
	assert.Equal(t, "Nothing to copy", m.feedback)
}

func TestExportWritesTranscript(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := newTestModel(t, view.ModeChat)
	m.cfg.ExportDir = dir

	cmd := m.export()
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.True(t, strings.HasPrefix(msg.path, dir))

	updated, _ := m.Update(msg)
	assert.Contains(t, updated.(Model).feedback, "Exported to")

	m.switchMode(view.ModeImage)
	assert.Nil(t, m.export())
}

func TestExportUsesConfiguredFormat(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := newTestModel(t, view.ModeWeb)
	m.cfg.ExportDir = dir
	m.cfg.ExportFormat = config.ExportJSON

	cmd := m.export()
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.True(t, strings.HasSuffix(msg.path, ".json"))
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPickerCancel(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)
	assert.True(t, m.picking)
	assert.Equal(t, view.ModeImage, m.Mode())
	assert.Contains(t, m.View(), "Select an image")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.False(t, m.picking)
}

func TestReplyArrivesWhilePickerOpen(t *testing.T) {
	m, reg, _ := newTestModel(t, view.ModeChat)
	m = typeText(m, "hello")
	m, cmd := m.submit()
	require.NotNil(t, cmd)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)
	require.True(t, m.picking)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.True(t, m.picking, "picker stays open")
	assert.False(t, reg.Chat.Busy())
	require.Len(t, reg.Chat.Messages(), 3)
	assert.Equal(t, "chat: hello", reg.Chat.Messages()[2].Text)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	m.switchMode(view.ModeChat)
	assert.Contains(t, m.viewport.View(), "chat: hello")
}

func TestImageLockedDuringAnalysis(t *testing.T) {
	m, reg, _ := newTestModel(t, view.ModeImage)
	require.NoError(t, reg.Image.SelectImage(models.Image{Name: "a.gif", MIMEType: "image/gif", Data: []byte("GIF89a")}))
	m = typeText(m, "identify")
	m, cmd := m.submit()
	require.NotNil(t, cmd)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)
	assert.False(t, m.picking)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	img, ok := reg.Image.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.gif", img.Name)
	assert.Contains(t, m.feedback, "Wait for the analysis")

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, "image: identify", reg.Image.Result())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.True(t, updated.(Model).picking)
}

func TestSearchTranscript(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)
	m = typeText(m, "benzene rings")
	m, cmd := m.submit()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m = updated.(Model)
	require.True(t, m.searching)

	m = typeText(m, "BENZENE")
	assert.Empty(t, m.textarea.Value())
	content := m.viewport.View()
	assert.Contains(t, content, "2 matching messages")
	assert.Contains(t, content, "chat: benzene rings")
	assert.NotContains(t, content, "MolecularRegistry")

	m = typeText(m, "xyz")
	assert.Contains(t, m.viewport.View(), "No messages match")

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Nil(t, cmd, "esc leaves search without quitting")
	assert.False(t, m.searching)
	assert.Contains(t, m.viewport.View(), "chat: benzene rings")
}

func TestSearchUnavailableInImageView(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeImage)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m = updated.(Model)
	assert.False(t, m.searching)
	assert.Equal(t, "Nothing to search in this view", m.feedback)
}

func TestSidebarListsModes(t *testing.T) {
	m, _, _ := newTestModel(t, view.ModeChat)
	out := m.renderSidebar()

	for _, info := range view.Modes() {
		assert.Contains(t, out, info.Title)
	}
	assert.Contains(t, out, "AURA")
}

func TestFormatError(t *testing.T) {
	assert.Empty(t, FormatError(nil))
	assert.Contains(t, FormatError(errors.New("boom")), "boom")
}

func TestFormatErrorConfigHints(t *testing.T) {
	missing := apierrors.NewConfigError(config.EnvAPIKey, "environment variable not set", apierrors.ErrMissingCredential)
	assert.Contains(t, FormatError(missing), "Set API_KEY")

	transport := apierrors.NewConfigError("transport", `unknown transport "pigeon"`, nil)
	out := FormatError(transport)
	assert.NotContains(t, out, "API_KEY")
	assert.Contains(t, out, `Fix "transport" in the configuration file`)

	budget := apierrors.NewConfigError("thinking_budget", "must not be negative", nil)
	assert.NotContains(t, FormatError(budget), "API_KEY")
}
