package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCitations(t *testing.T) {
	in := []Citation{
		{URI: "", Title: "missing uri"},
		{URI: "https://go.dev", Title: "Go"},
		{URI: "   ", Title: "blank uri"},
		{URI: " https://pkg.go.dev ", Title: ""},
	}

	got := FilterCitations(in)

	require.Len(t, got, 2)
	assert.Equal(t, Citation{URI: "https://go.dev", Title: "Go"}, got[0])
	assert.Equal(t, Citation{URI: "https://pkg.go.dev", Title: "https://pkg.go.dev"}, got[1])
}

func TestFilterCitationsNeverNil(t *testing.T) {
	assert.NotNil(t, FilterCitations(nil))
	assert.Empty(t, FilterCitations(nil))
}

func TestIsImageMIME(t *testing.T) {
	tests := map[string]bool{
		"image/png":        true,
		"IMAGE/JPEG":       true,
		"image/webp":       true,
		"text/plain":       false,
		"":                 false,
		"application/json": false,
	}
	for mimeType, want := range tests {
		assert.Equal(t, want, IsImageMIME(mimeType), mimeType)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	assert.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent",
		GenerateEndpoint("", Model25Flash))
	assert.Equal(t, "http://127.0.0.1:9/models/m:generateContent", GenerateEndpoint("http://127.0.0.1:9", "m"))
}
