package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/transcript"
)

// Reply is the view-facing shape of a remote answer
type Reply struct {
	Text    string
	Sources []models.Citation
}

// TextReply shapes a plain text answer
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// GroundedReply shapes a web answer with its sources
func GroundedReply(r models.GroundedReply) Reply {
	return Reply{Text: r.Text, Sources: r.Sources}
}

// Controller drives a transcript view. It is Idle or Busy; while Busy, new
// submissions are ignored.
type Controller struct {
	mode     Mode
	call     func(ctx context.Context, prompt string) Reply
	store    *transcript.Store
	logger   *slog.Logger
	onChange func(Mode)

	mu      sync.Mutex
	input   string
	busy    bool
	closed  bool
	current *Exchange
}

// Exchange is one accepted submission awaiting its reply
type Exchange struct {
	c      *Controller
	prompt string

	// Message is the user message appended on submit.
	Message models.Message
}

// New creates a transcript controller. request performs the remote call and
// shape converts its result into a Reply.
func New[R any](mode Mode, request func(ctx context.Context, prompt string) R, shape func(R) Reply, opts ...Option) *Controller {
	o := buildOptions(mode, opts)
	return &Controller{
		mode: mode,
		call: func(ctx context.Context, prompt string) Reply {
			return shape(request(ctx, prompt))
		},
		store:    o.store,
		logger:   o.logger,
		onChange: o.onChange,
	}
}

// Mode returns the controller's mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Store returns the controller's transcript
func (c *Controller) Store() *transcript.Store {
	return c.store
}

// SetInput replaces the pending input
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
}

// Input returns the pending input
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Busy reports whether an exchange is outstanding
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Messages returns the transcript in order
func (c *Controller) Messages() []models.Message {
	return c.store.Messages()
}

// Submit starts an exchange for text. It returns false, changing nothing,
// when text is blank or the controller is busy or closed.
func (c *Controller) Submit(text string) (*Exchange, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.busy || c.closed {
		c.mu.Unlock()
		return nil, false
	}
	ex := &Exchange{
		c:       c,
		prompt:  text,
		Message: c.store.Append(models.SenderUser, text, nil),
	}
	c.input = ""
	c.busy = true
	c.current = ex
	c.mu.Unlock()

	c.logger.Debug("exchange started", "message_id", ex.Message.ID, "prompt_len", len(text))
	c.notify()
	return ex, true
}

// Prompt returns the submitted text
func (e *Exchange) Prompt() string {
	return e.prompt
}

// Run performs the remote call. It blocks until the reply arrives.
func (e *Exchange) Run(ctx context.Context) Reply {
	if ctx == nil {
		ctx = context.Background()
	}
	return e.c.call(ctx, e.prompt)
}

// Resolve records the reply for ex and returns to Idle. It reports false,
// writing nothing, when the controller is closed or ex is not the current
// exchange.
func (c *Controller) Resolve(ex *Exchange, reply Reply) bool {
	_, ok := c.resolve(ex, reply)
	return ok
}

func (c *Controller) resolve(ex *Exchange, reply Reply) (models.Message, bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("dropped reply for closed view")
		return models.Message{}, false
	}
	if ex == nil || ex != c.current {
		c.mu.Unlock()
		c.logger.Warn("ignored stale exchange")
		return models.Message{}, false
	}
	msg := c.store.Append(models.SenderAssistant, reply.Text, reply.Sources)
	c.busy = false
	c.current = nil
	c.mu.Unlock()

	c.logger.Debug("exchange resolved", "message_id", msg.ID, "sources", len(msg.Sources))
	c.notify()
	return msg, true
}

// Send submits text, waits for the reply and records it.
func (c *Controller) Send(ctx context.Context, text string) (models.Message, bool) {
	ex, ok := c.Submit(text)
	if !ok {
		return models.Message{}, false
	}
	return c.resolve(ex, ex.Run(ctx))
}

// Close discards the view. Replies arriving afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.mode)
	}
}
