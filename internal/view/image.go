package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/diogo/aura/internal/models"
)

// ErrAnalysisInProgress is returned when the image selection is changed
// while an analysis is outstanding.
var ErrAnalysisInProgress = errors.New("image analysis in progress")

// ImageController drives the image analysis view: one selected image, a
// prompt and the latest result.
type ImageController struct {
	analyze  func(ctx context.Context, prompt string, img models.Image) string
	previews Previews
	logger   *slog.Logger
	onChange func(Mode)

	mu      sync.Mutex
	image   *models.Image
	preview PreviewHandle
	prompt  string
	result  string
	errMsg  string
	busy    bool
	closed  bool
	current *Analysis
}

// Analysis is one accepted analysis request
type Analysis struct {
	c      *ImageController
	prompt string
	image  models.Image
}

// NewImageController creates the image analysis controller
func NewImageController(analyze func(ctx context.Context, prompt string, img models.Image) string, opts ...Option) *ImageController {
	o := buildOptions(ModeImage, opts)
	return &ImageController{
		analyze:  analyze,
		previews: o.previews,
		logger:   o.logger,
		onChange: o.onChange,
	}
}

// Mode returns ModeImage
func (c *ImageController) Mode() Mode {
	return ModeImage
}

// SelectImage makes img the current image, replacing any previous one.
func (c *ImageController) SelectImage(img models.Image) error {
	if !models.IsImageMIME(img.MIMEType) {
		return fmt.Errorf("unsupported file type %q: not an image", img.MIMEType)
	}
	if len(img.Data) > models.MaxImageSize {
		c.logger.Warn("selected image exceeds advisory size",
			"name", img.Name, "size", len(img.Data), "max", models.MaxImageSize)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("image view is closed")
	}
	if c.busy {
		c.mu.Unlock()
		return ErrAnalysisInProgress
	}

	// the previous image stays selected if the new one cannot be previewed
	handle, err := c.previews.Acquire(img)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to preview image: %w", err)
	}
	c.previews.Release(c.preview)
	c.image = &img
	c.preview = handle
	c.errMsg = ""
	c.mu.Unlock()

	c.logger.Debug("image selected", "name", img.Name, "mime", img.MIMEType, "size", len(img.Data))
	c.notify()
	return nil
}

// SelectFile reads path and selects it as the current image
func (c *ImageController) SelectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	return c.SelectImage(models.Image{
		Name:     filepath.Base(path),
		MIMEType: detectMIME(path, data),
		Data:     data,
	})
}

// detectMIME sniffs the content, falling back to the file extension.
func detectMIME(path string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if models.IsImageMIME(sniffed) {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return byExt
	}
	return sniffed
}

// RemoveImage clears the selection and releases its preview. It fails
// while an analysis is outstanding.
func (c *ImageController) RemoveImage() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrAnalysisInProgress
	}
	c.previews.Release(c.preview)
	c.preview = PreviewHandle{}
	c.image = nil
	c.mu.Unlock()

	c.notify()
	return nil
}

// SetPrompt replaces the analysis prompt
func (c *ImageController) SetPrompt(s string) {
	c.mu.Lock()
	c.prompt = s
	c.mu.Unlock()
}

// Prompt returns the analysis prompt
func (c *ImageController) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

// Result returns the latest analysis text
func (c *ImageController) Result() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the validation message, if any
func (c *ImageController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Busy reports whether an analysis is outstanding
func (c *ImageController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Selected returns the current image
func (c *ImageController) Selected() (models.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image == nil {
		return models.Image{}, false
	}
	return *c.image, true
}

// Preview returns the preview handle of the current image
func (c *ImageController) Preview() PreviewHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Analyze starts an analysis of the selected image with the current prompt.
// Without an image or prompt it records the validation message instead.
func (c *ImageController) Analyze() (*Analysis, bool) {
	c.mu.Lock()
	if c.busy || c.closed {
		c.mu.Unlock()
		return nil, false
	}
	if c.image == nil || strings.TrimSpace(c.prompt) == "" {
		c.errMsg = models.ImageValidationMessage
		c.mu.Unlock()
		c.notify()
		return nil, false
	}

	a := &Analysis{c: c, prompt: c.prompt, image: *c.image}
	c.errMsg = ""
	c.result = ""
	c.busy = true
	c.current = a
	c.mu.Unlock()

	c.logger.Debug("analysis started", "name", a.image.Name)
	c.notify()
	return a, true
}

// Run performs the remote call
func (a *Analysis) Run(ctx context.Context) string {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.c.analyze(ctx, a.prompt, a.image)
}

// Resolve records the analysis result and returns to Idle. Late or stale
// results are dropped.
func (c *ImageController) Resolve(a *Analysis, text string) bool {
	c.mu.Lock()
	if c.closed || a == nil || a != c.current {
		c.mu.Unlock()
		c.logger.Debug("dropped analysis result")
		return false
	}
	c.result = text
	c.busy = false
	c.current = nil
	c.mu.Unlock()

	c.notify()
	return true
}

// Run is the synchronous form of Analyze, Run and Resolve.
func (c *ImageController) Run(ctx context.Context) (string, bool) {
	a, ok := c.Analyze()
	if !ok {
		return "", false
	}
	text := a.Run(ctx)
	if !c.Resolve(a, text) {
		return "", false
	}
	return text, true
}

// Close releases the preview and discards the view
func (c *ImageController) Close() {
	c.mu.Lock()
	c.previews.Release(c.preview)
	c.preview = PreviewHandle{}
	c.image = nil
	c.closed = true
	c.mu.Unlock()
}

func (c *ImageController) notify() {
	if c.onChange != nil {
		c.onChange(ModeImage)
	}
}
