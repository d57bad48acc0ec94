package render

import (
	"fmt"
	"strings"

	"github.com/diogo/aura/internal/models"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	r, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, r)

	return r.Render(content)
}

// SourcesMarkdown formats citations as a numbered markdown list under a
// "Sources" heading. It returns "" when there are none.
func SourcesMarkdown(sources []models.Citation) string {
	if len(sources) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("**Sources:**\n\n")
	for i, src := range sources {
		sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, src.Title, src.URI))
	}
	return sb.String()
}

// Reply renders a reply and its sources. If rendering fails the plain
// markdown is returned alongside the error.
func Reply(text string, sources []models.Citation, opts Options) (string, error) {
	content := text
	if s := SourcesMarkdown(sources); s != "" {
		content += "\n\n" + s
	}

	out, err := Markdown(content, opts)
	if err != nil {
		return content, err
	}
	return strings.TrimRight(out, "\n"), nil
}
