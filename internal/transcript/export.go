package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/aura/internal/models"
)

// ExportFormat represents the format for exporting transcripts
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	if f == ExportFormatJSON {
		return ".json"
	}
	return ".md"
}

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format         ExportFormat
	IncludeSources bool
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         ExportFormatMarkdown,
		IncludeSources: true,
	}
}

// ExportToMarkdown renders the transcript as Markdown
func (s *Store) ExportToMarkdown(opts ExportOptions) string {
	messages := s.Messages()

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(s.title)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("**Exported:** %s\n", s.now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		role := "User"
		if msg.Sender == models.SenderAssistant {
			role = "Aura"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if opts.IncludeSources && len(msg.Sources) > 0 {
			sb.WriteString("\n**Sources:**\n\n")
			for j, src := range msg.Sources {
				sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n", j+1, src.Title, src.URI))
			}
		}

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportToJSON renders the transcript as indented JSON
func (s *Store) ExportToJSON(opts ExportOptions) ([]byte, error) {
	type exportTranscript struct {
		Title      string           `json:"title"`
		ExportedAt time.Time        `json:"exported_at"`
		Messages   []models.Message `json:"messages"`
	}

	messages := s.Messages()
	if !opts.IncludeSources {
		for i := range messages {
			messages[i].Sources = nil
		}
	}

	return json.MarshalIndent(exportTranscript{
		Title:      s.title,
		ExportedAt: s.now(),
		Messages:   messages,
	}, "", "  ")
}

// Export renders the transcript in the requested format
func (s *Store) Export(opts ExportOptions) ([]byte, error) {
	if opts.Format == ExportFormatJSON {
		return s.ExportToJSON(opts)
	}
	return []byte(s.ExportToMarkdown(opts)), nil
}

// WriteExport writes the transcript into dir and returns the file path.
func (s *Store) WriteExport(dir string, opts ExportOptions) (string, error) {
	data, err := s.Export(opts)
	if err != nil {
		return "", fmt.Errorf("failed to export transcript: %w", err)
	}

	base := fmt.Sprintf("%s-%s", slug(s.title), s.now().Format("20060102-150405"))
	for n := 1; n <= maxExportSuffix; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		path := filepath.Join(dir, name+opts.Format.Extension())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("failed to write export: too many exports named %s", base)
}

// maxExportSuffix bounds the "-N" suffixes tried for exports written within
// the same second.
const maxExportSuffix = 100

// ParseExportFormat maps a configured format name onto an ExportFormat,
// defaulting to markdown.
func ParseExportFormat(name string) ExportFormat {
	if strings.EqualFold(strings.TrimSpace(name), string(ExportFormatJSON)) {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

func slug(title string) string {
	var sb strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash && sb.Len() > 0:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "transcript"
	}
	return out
}
