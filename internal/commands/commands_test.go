package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/aura/internal/config"
	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/render"
	"github.com/diogo/aura/internal/view"
)

type fakeClient struct {
	prompts []string
	image   models.Image
	sources []models.Citation
	closed  bool
}

func (f *fakeClient) Converse(ctx context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return "chat: " + prompt
}

func (f *fakeClient) AnalyzeImage(ctx context.Context, prompt string, img models.Image) string {
	f.prompts = append(f.prompts, prompt)
	f.image = img
	return "image: " + prompt
}

func (f *fakeClient) DeepReason(ctx context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return "deep: " + prompt
}

func (f *fakeClient) WebQuery(ctx context.Context, prompt string) models.GroundedReply {
	f.prompts = append(f.prompts, prompt)
	return models.GroundedReply{Text: "web: " + prompt, Sources: f.sources}
}

func (f *fakeClient) Close() {
	f.closed = true
}

type harness struct {
	deps    *Dependencies
	client  *fakeClient
	cfg     config.Config
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	created int
	tuiMode view.Mode
	tuiReg  *view.Registry
	copied  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(render.EnvStyle, "")

	h := &harness{
		client: &fakeClient{},
		cfg:    config.DefaultConfig(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.cfg.Markdown.Style = "notty"
	logPath := filepath.Join(t.TempDir(), "aura.log")

	h.deps = &Dependencies{
		Stdin:          strings.NewReader(""),
		Stdout:         h.stdout,
		Stderr:         h.stderr,
		LoadConfig:     func() (config.Config, error) { return h.cfg, nil },
		LoadCredential: func() (string, error) { return "test-key", nil },
		LogPath:        func(config.Config) (string, error) { return logPath, nil },
		NewClient: func(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (InferenceClient, error) {
			h.created++
			return h.client, nil
		},
		RunTUI: func(ctx context.Context, reg *view.Registry, cfg config.Config, mode view.Mode, logger *slog.Logger) error {
			h.tuiMode = mode
			h.tuiReg = reg
			return nil
		},
		CopyText: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		StdinPiped: func() bool { return false },
		IsTerminal: func() bool { return false },
		TermWidth:  func() int { return 100 },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootStartsInterfaceInConfiguredView(t *testing.T) {
	h := newHarness(t)
	h.cfg.DefaultView = "deep_analysis"

	require.NoError(t, h.run())

	assert.Equal(t, view.ModeDeep, h.tuiMode)
	require.NotNil(t, h.tuiReg)
	assert.Len(t, h.tuiReg.Chat.Messages(), 1, "chat view starts with the greeting")
	assert.True(t, h.client.closed)
}

func TestRootModeFlag(t *testing.T) {
	tests := []struct {
		arg  string
		want view.Mode
	}{
		{"web_query", view.ModeWeb},
		{"IMAGE", view.ModeImage},
		{"3", view.ModeDeep},
		{"chat", view.ModeChat},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, h.run("--mode", tt.arg))
			assert.Equal(t, tt.want, h.tuiMode)
		})
	}
}

func TestRootRejectsUnknownMode(t *testing.T) {
	h := newHarness(t)

	err := h.run("--mode", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Empty(t, h.tuiMode)
}

func TestMissingCredentialIsFatal(t *testing.T) {
	h := newHarness(t)
	h.deps.LoadCredential = func() (string, error) {
		return "", apierrors.NewConfigError(config.EnvAPIKey, "environment variable not set", apierrors.ErrMissingCredential)
	}

	err := h.run()
	require.Error(t, err)
	assert.True(t, apierrors.IsConfigError(err))
	assert.Equal(t, 0, h.created, "no client without a credential")
	assert.Empty(t, h.tuiMode)

	err = h.run("ask", "hello")
	assert.True(t, errors.Is(err, apierrors.ErrMissingCredential))
}

func TestVersionFlag(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--version"))
	assert.Contains(t, h.stdout.String(), "aura "+Version)
	assert.Equal(t, 0, h.created)
}

func TestAskPrintsReply(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("ask", "hello", "world"))

	assert.Equal(t, "chat: hello world\n", h.stdout.String())
	assert.Equal(t, []string{"hello world"}, h.client.prompts)
	assert.True(t, h.client.closed)
}

func TestDeepReadsPromptFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "problem.md")
	require.NoError(t, os.WriteFile(path, []byte("why is the sky blue"), 0o600))

	require.NoError(t, h.run("deep", "-f", path))

	assert.Equal(t, "deep: why is the sky blue\n", h.stdout.String())
}

func TestAskReadsPipedStdin(t *testing.T) {
	h := newHarness(t)
	h.deps.StdinPiped = func() bool { return true }
	h.deps.Stdin = strings.NewReader("from a pipe")

	require.NoError(t, h.run("ask"))

	assert.Equal(t, []string{"from a pipe"}, h.client.prompts)
}

func TestAskEmptyPrompt(t *testing.T) {
	h := newHarness(t)

	err := h.run("ask", "   ")
	assert.ErrorIs(t, err, apierrors.ErrEmptyPrompt)
	assert.Equal(t, 0, h.created)
}

func TestWebPrintsSources(t *testing.T) {
	h := newHarness(t)
	h.client.sources = []models.Citation{{Title: "Example", URI: "https://example.test"}}

	require.NoError(t, h.run("web", "news"))

	out := h.stdout.String()
	assert.True(t, strings.HasPrefix(out, "web: news\n\n"))
	assert.Contains(t, out, "**Sources:**")
	assert.Contains(t, out, "1. [Example](https://example.test)")
}

func TestOutputFlagWritesFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "answer.md")

	require.NoError(t, h.run("ask", "save me", "-o", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chat: save me", string(data))
	assert.Empty(t, h.stdout.String())
}

func TestDecoratedOutputCopiesReply(t *testing.T) {
	h := newHarness(t)
	h.cfg.CopyToClipboard = true
	h.deps.IsTerminal = func() bool { return true }

	require.NoError(t, h.run("ask", "pretty"))

	assert.Contains(t, h.stdout.String(), "Aura")
	assert.Contains(t, h.stdout.String(), "chat: pretty")
	assert.Equal(t, []string{"chat: pretty"}, h.copied)
	assert.Contains(t, h.stderr.String(), "Copied to clipboard")
}

func TestRawOutputSkipsClipboard(t *testing.T) {
	h := newHarness(t)
	h.cfg.CopyToClipboard = true
	h.deps.IsTerminal = func() bool { return true }

	require.NoError(t, h.run("ask", "plain", "--raw"))

	assert.Equal(t, "chat: plain\n", h.stdout.String())
	assert.Empty(t, h.copied)
}

func TestVerboseMirrorsLogs(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--verbose", "ask", "hi"))

	assert.Contains(t, h.stderr.String(), `"msg":"session started"`)
	assert.Contains(t, h.stderr.String(), `"msg":"view changed"`)
}

func writeGIF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pixel.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0o600))
	return path
}

func TestImageCommand(t *testing.T) {
	h := newHarness(t)
	path := writeGIF(t)

	require.NoError(t, h.run("image", path, "what", "is", "this"))

	assert.Equal(t, "image: what is this\n", h.stdout.String())
	assert.Equal(t, "image/gif", h.client.image.MIMEType)
	assert.Equal(t, "pixel.gif", h.client.image.Name)
}

func TestImageCommandRequiresPrompt(t *testing.T) {
	h := newHarness(t)
	path := writeGIF(t)

	err := h.run("image", path)
	require.Error(t, err)
	assert.Equal(t, models.ImageValidationMessage, err.Error())
	assert.Empty(t, h.client.prompts)
}

func TestImageCommandRejectsNonImage(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	err := h.run("image", path, "describe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")
	assert.Empty(t, h.client.prompts)
}

func TestConfigCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("config"))
	out := h.stdout.String()
	assert.Contains(t, out, `"transport": "sdk"`)
	assert.Contains(t, out, "config: ")
	assert.Equal(t, 0, h.created)
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("config", "init"))
	path, err := config.GetConfigPath()
	require.NoError(t, err)
	assert.FileExists(t, path)

	err = h.run("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, h.run("config", "init", "--force"))
}

func TestGlobalFlagsApply(t *testing.T) {
	cfg := config.DefaultConfig()
	flags := &globalFlags{verbose: true, transport: config.TransportREST, theme: "tokyonight"}

	flags.apply(&cfg)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, config.TransportREST, cfg.Transport)
	assert.Equal(t, "tokyonight", cfg.Theme)
}

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Aura is thinking...")
	s.start()
	s.stopWithSuccess("Done")
	s.stopWithError()

	assert.Contains(t, buf.String(), "Done")
	assert.Contains(t, buf.String(), "\033[?25h", "cursor restored")
}
