package view

import (
	"log/slog"

	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/transcript"
)

type options struct {
	store    *transcript.Store
	logger   *slog.Logger
	onChange func(Mode)
	previews Previews
}

// Option configures a controller
type Option func(*options)

// WithStore sets the transcript a Controller appends to
func WithStore(store *transcript.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the controller logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OnChange registers an observer called after every state transition. It is
// invoked without the controller lock held.
func OnChange(fn func(Mode)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithPreviews sets the preview handle source of an ImageController
func WithPreviews(p Previews) Option {
	return func(o *options) {
		o.previews = p
	}
}

func buildOptions(mode Mode, opts []Option) options {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = transcript.New(mode.Title())
	}
	if o.previews == nil {
		o.previews = NewMemoryPreviews()
	}
	o.logger = o.logger.With("mode", string(mode))
	return o
}
