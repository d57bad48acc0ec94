package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/view"
)

// session is everything a command needs to talk to the model
type session struct {
	cfg    config.Config
	logger *slog.Logger
	client InferenceClient
	reg    *view.Registry
	logs   io.Closer
}

// openSession loads configuration and credentials, opens the log file and
// builds the view registry. A missing credential is returned as a
// ConfigError before anything else is created.
func openSession(ctx context.Context, deps *Dependencies, flags *globalFlags, mirror io.Writer) (*session, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, err
	}
	flags.apply(&cfg)

	if deps.LoadDotEnv != nil {
		deps.LoadDotEnv()
	}
	apiKey, err := deps.LoadCredential()
	if err != nil {
		return nil, err
	}

	path, err := deps.LogPath(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Verbose {
		mirror = nil
	}
	logger, logs, err := logging.Open(path, cfg.Verbose, mirror)
	if err != nil {
		return nil, err
	}

	client, err := deps.NewClient(ctx, cfg, apiKey, logger)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s := &session{cfg: cfg, logger: logger, client: client, logs: logs}
	s.reg = view.NewRegistry(client,
		view.WithLogger(logger),
		view.OnChange(s.logChange),
	)
	logger.Info("session started", "transport", cfg.Transport, "verbose", cfg.Verbose)
	return s, nil
}

func (s *session) logChange(m view.Mode) {
	if s.reg == nil {
		return
	}
	s.logger.Debug("view changed", "mode", string(m), "busy", s.reg.Busy(m))
}

// Close discards the views, then the client, then the log file
func (s *session) Close() {
	s.reg.Close()
	s.client.Close()
	s.logger.Info("session closed")
	s.logs.Close()
}
