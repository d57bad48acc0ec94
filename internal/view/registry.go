package view

import (
	"context"

	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/transcript"
)

// Inference is the remote client used by the views
type Inference interface {
	Converse(ctx context.Context, prompt string) string
	AnalyzeImage(ctx context.Context, prompt string, img models.Image) string
	DeepReason(ctx context.Context, prompt string) string
	WebQuery(ctx context.Context, prompt string) models.GroundedReply
}

// Registry owns one controller per mode for the life of the process, so a
// transcript survives switching away from its view and back.
type Registry struct {
	Chat  *Controller
	Image *ImageController
	Deep  *Controller
	Web   *Controller
}

// NewRegistry creates the four controllers over client
func NewRegistry(client Inference, opts ...Option) *Registry {
	with := func(extra ...Option) []Option {
		return append(append([]Option(nil), opts...), extra...)
	}

	return &Registry{
		Chat: New(ModeChat, client.Converse, TextReply,
			with(WithStore(transcript.New(ModeChat.Title(), transcript.Greeting())))...),
		Image: NewImageController(client.AnalyzeImage, opts...),
		Deep:  New(ModeDeep, client.DeepReason, TextReply, with(WithStore(transcript.New(ModeDeep.Title())))...),
		Web:   New(ModeWeb, client.WebQuery, GroundedReply, with(WithStore(transcript.New(ModeWeb.Title())))...),
	}
}

// Controller returns the transcript controller for m, or nil for ModeImage
func (r *Registry) Controller(m Mode) *Controller {
	switch m {
	case ModeChat:
		return r.Chat
	case ModeDeep:
		return r.Deep
	case ModeWeb:
		return r.Web
	default:
		return nil
	}
}

// Busy reports whether the view for m has a request in flight
func (r *Registry) Busy(m Mode) bool {
	if m == ModeImage {
		return r.Image.Busy()
	}
	if c := r.Controller(m); c != nil {
		return c.Busy()
	}
	return false
}

// Close discards every view
func (r *Registry) Close() {
	r.Chat.Close()
	r.Image.Close()
	r.Deep.Close()
	r.Web.Close()
}
