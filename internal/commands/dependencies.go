package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/aura/internal/api"
	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/tui"
	"github.com/diogo/aura/internal/view"
)

// InferenceClient is the remote client a session drives.
type InferenceClient interface {
	view.Inference
	Close()
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	LoadConfig     func() (config.Config, error)
	LoadDotEnv     func()
	LoadCredential func() (string, error)
	LogPath        func(cfg config.Config) (string, error)

	// NewClient builds the inference client for a session.
	NewClient func(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (InferenceClient, error)

	// RunTUI runs the interactive interface until the user quits.
	RunTUI func(ctx context.Context, reg *view.Registry, cfg config.Config, mode view.Mode, logger *slog.Logger) error

	CopyText func(string) error

	// StdinPiped reports whether a prompt can be read from Stdin.
	StdinPiped func() bool
	// IsTerminal reports whether Stdout is a terminal.
	IsTerminal func() bool
	TermWidth  func() int
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		LoadConfig:     config.LoadConfig,
		LoadDotEnv:     func() { config.LoadDotEnv() },
		LoadCredential: config.LoadCredential,
		LogPath:        config.GetLogPath,
		NewClient: func(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (InferenceClient, error) {
			c, err := api.New(ctx, cfg, apiKey, logger)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		RunTUI:     tui.Run,
		CopyText:   clipboard.WriteAll,
		StdinPiped: stdinPiped,
		IsTerminal: isStdoutTTY,
		TermWidth:  getTerminalWidth,
	}
}

// stdinPiped reports whether stdin is a pipe or file rather than a terminal
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
