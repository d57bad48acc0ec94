package view

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	// Registered decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/diogo/aura/internal/models"
)

// PreviewHandle is a displayable reference to a selected image. The zero
// value refers to nothing.
type PreviewHandle struct {
	ID       uint64
	Name     string
	MIMEType string
	Size     int
	Width    int
	Height   int
}

// IsZero reports whether the handle refers to nothing
func (h PreviewHandle) IsZero() bool {
	return h.ID == 0
}

// Summary renders a one-line description of the preview
func (h PreviewHandle) Summary() string {
	if h.IsZero() {
		return ""
	}
	s := fmt.Sprintf("%s · %s · %s", h.Name, h.MIMEType, formatSize(h.Size))
	if h.Width > 0 && h.Height > 0 {
		s += fmt.Sprintf(" · %dx%d", h.Width, h.Height)
	}
	return s
}

// Previews acquires and releases preview handles. Every acquired handle must
// be released exactly once.
type Previews interface {
	Acquire(img models.Image) (PreviewHandle, error)
	Release(h PreviewHandle)
}

// MemoryPreviews is an in-process Previews that tracks live handles.
type MemoryPreviews struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]PreviewHandle
}

// NewMemoryPreviews creates an empty MemoryPreviews
func NewMemoryPreviews() *MemoryPreviews {
	return &MemoryPreviews{live: make(map[uint64]PreviewHandle)}
}

// Acquire registers a new handle for img
func (p *MemoryPreviews) Acquire(img models.Image) (PreviewHandle, error) {
	if len(img.Data) == 0 {
		return PreviewHandle{}, fmt.Errorf("image %q is empty", img.Name)
	}

	h := PreviewHandle{
		Name:     img.Name,
		MIMEType: img.MIMEType,
		Size:     len(img.Data),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err == nil {
		h.Width, h.Height = cfg.Width, cfg.Height
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	h.ID = p.next
	p.live[h.ID] = h
	return h, nil
}

// Release forgets h. Unknown and zero handles are ignored.
func (p *MemoryPreviews) Release(h PreviewHandle) {
	if h.IsZero() {
		return
	}
	p.mu.Lock()
	delete(p.live, h.ID)
	p.mu.Unlock()
}

// Live returns the number of outstanding handles
func (p *MemoryPreviews) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

func formatSize(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
