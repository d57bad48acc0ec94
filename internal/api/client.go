package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/diogo/aura/internal/config"
	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/models"
)

// Client is the remote inference client shared by all views. Every
// operation returns a usable reply: failures are logged and replaced by the
// operation's fallback text.
type Client struct {
	backend        Backend
	models         config.ModelsConfig
	thinkingBudget int32
	logger         *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModels sets the per-view model names
func WithModels(m config.ModelsConfig) ClientOption {
	return func(c *Client) {
		c.models = m
	}
}

// WithThinkingBudget sets the reasoning budget used by DeepReason
func WithThinkingBudget(budget int32) ClientOption {
	return func(c *Client) {
		c.thinkingBudget = budget
	}
}

// WithLogger sets the logger used to record absorbed failures
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient wraps a backend
func NewClient(backend Backend, opts ...ClientOption) *Client {
	c := &Client{
		backend:        backend,
		models:         config.DefaultModels(),
		thinkingBudget: models.DefaultThinkingBudget,
		logger:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New builds the backend selected by cfg and wraps it. It fails fast when the
// credential is blank or the transport is unknown.
func New(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.Transport {
	case config.TransportREST:
		backend, err = NewRESTBackend(apiKey, cfg.BaseURL)
	default:
		backend, err = NewSDKBackend(ctx, apiKey, cfg.BaseURL)
	}
	if err != nil {
		return nil, err
	}

	return NewClient(backend,
		WithModels(cfg.Models),
		WithThinkingBudget(cfg.ThinkingBudget),
		WithLogger(logger),
	), nil
}

// Close shuts down the backend
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	_ = c.backend.Close()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Models returns the per-view model names
func (c *Client) Models() config.ModelsConfig {
	return c.models
}

// Converse answers a plain text prompt.
func (c *Client) Converse(ctx context.Context, prompt string) string {
	resp, err := c.generate(ctx, "chat", &models.Request{
		Model: c.models.Chat,
		Parts: []models.Part{models.TextPart(prompt)},
	})
	if err != nil {
		return models.FallbackChat
	}
	return resp.Text
}

// AnalyzeImage sends the image inline, followed by the prompt, in one request.
func (c *Client) AnalyzeImage(ctx context.Context, prompt string, img models.Image) string {
	resp, err := c.generate(ctx, "image", &models.Request{
		Model: c.models.Vision,
		Parts: []models.Part{
			models.InlinePart(img.MIMEType, img.Data),
			models.TextPart(prompt),
		},
	})
	if err != nil {
		return models.FallbackImage
	}
	return resp.Text
}

// DeepReason answers with extended reasoning enabled.
func (c *Client) DeepReason(ctx context.Context, prompt string) string {
	resp, err := c.generate(ctx, "deep", &models.Request{
		Model:          c.models.Deep,
		Parts:          []models.Part{models.TextPart(prompt)},
		ThinkingBudget: c.thinkingBudget,
	})
	if err != nil {
		return models.FallbackDeep
	}
	return resp.Text
}

// WebQuery answers with Google Search grounding. Sources is never nil.
func (c *Client) WebQuery(ctx context.Context, prompt string) models.GroundedReply {
	resp, err := c.generate(ctx, "web", &models.Request{
		Model:        c.models.Web,
		Parts:        []models.Part{models.TextPart(prompt)},
		WebGrounding: true,
	})
	if err != nil {
		return models.GroundedReply{Text: models.FallbackWeb, Sources: []models.Citation{}}
	}
	return models.GroundedReply{Text: resp.Text, Sources: models.FilterCitations(resp.Citations)}
}

// generate runs one backend call and converts every failure mode, panics
// included, into an error that has already been logged.
func (c *Client) generate(ctx context.Context, op string, req *models.Request) (resp *models.Response, err error) {
	start := time.Now()
	logger := c.logger.With("op", op, "model", req.Model)

	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("backend panic: %v", r)
		}
		if err != nil {
			attrs := []any{
				"kind", apierrors.Classify(err),
				"status", apierrors.GetHTTPStatus(err),
				"duration", time.Since(start),
				"error", err,
			}
			if body := apierrors.GetResponseBody(err); body != "" {
				attrs = append(attrs, "body", truncate(body, maxLoggedBody))
			}
			logger.Error("inference request failed", attrs...)
			return
		}
		logger.Debug("inference request finished",
			"duration", time.Since(start),
			"finish_reason", resp.FinishReason,
			"citations", len(resp.Citations),
		)
	}()

	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err = c.backend.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, apierrors.ErrNoContent
	}
	return resp, nil
}

// maxLoggedBody caps the error response body copied into the log
const maxLoggedBody = 2048

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
