package api

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/aura/internal/config"
	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/logging"
	"github.com/diogo/aura/internal/models"
)

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transport = "carrier-pigeon"

	_, err := New(context.Background(), cfg, "key", nil)
	assert.True(t, apierrors.IsConfigError(err))

	_, err = New(context.Background(), config.DefaultConfig(), "", nil)
	assert.True(t, errors.Is(err, apierrors.ErrMissingCredential))
}

func TestNewSelectsTransport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transport = config.TransportREST

	client, err := New(context.Background(), cfg, "key", nil)
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.backend.(*restBackend)
	assert.True(t, ok)
	assert.Equal(t, cfg.Models, client.Models())
}

func TestClientRequests(t *testing.T) {
	backend := &MockBackend{Response: &models.Response{Text: "ok"}}
	client := NewClient(backend)
	ctx := context.Background()

	assert.Equal(t, "ok", client.Converse(ctx, "hello"))
	assert.Equal(t, models.Model25Flash, backend.LastRequest.Model)
	assert.Equal(t, []models.Part{models.TextPart("hello")}, backend.LastRequest.Parts)
	assert.Zero(t, backend.LastRequest.ThinkingBudget)
	assert.False(t, backend.LastRequest.WebGrounding)

	assert.Equal(t, "ok", client.DeepReason(ctx, "why"))
	assert.Equal(t, models.Model25Pro, backend.LastRequest.Model)
	assert.Equal(t, models.DefaultThinkingBudget, backend.LastRequest.ThinkingBudget)

	img := models.Image{Name: "cat.png", MIMEType: "image/png", Data: []byte{1, 2, 3}}
	assert.Equal(t, "ok", client.AnalyzeImage(ctx, "what is it", img))
	assert.Equal(t, []models.Part{
		models.InlinePart("image/png", []byte{1, 2, 3}),
		models.TextPart("what is it"),
	}, backend.LastRequest.Parts)

	reply := client.WebQuery(ctx, "news")
	assert.Equal(t, "ok", reply.Text)
	assert.NotNil(t, reply.Sources)
	assert.True(t, backend.LastRequest.WebGrounding)

	assert.Equal(t, 4, backend.CallCount())
}

func TestClientFallbacks(t *testing.T) {
	ctx := context.Background()
	img := models.Image{MIMEType: "image/png", Data: []byte{1}}

	backends := map[string]*MockBackend{
		"error":      {Err: apierrors.NewAPIError(500, "x", "boom")},
		"auth":       {Err: apierrors.NewAuthError("bad key")},
		"nil":        {},
		"empty text": {Response: &models.Response{Text: "   "}},
		"panic":      {Panic: "kaboom"},
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			client := NewClient(backend)

			assert.Equal(t, models.FallbackChat, client.Converse(ctx, "a"))
			assert.Equal(t, models.FallbackImage, client.AnalyzeImage(ctx, "a", img))
			assert.Equal(t, models.FallbackDeep, client.DeepReason(ctx, "a"))

			reply := client.WebQuery(ctx, "a")
			assert.Equal(t, models.FallbackWeb, reply.Text)
			assert.NotNil(t, reply.Sources)
			assert.Empty(t, reply.Sources)
		})
	}
}

func TestFailureLogCarriesResponseBody(t *testing.T) {
	var buf bytes.Buffer
	body := `{"error":{"code":500,"status":"INTERNAL"}}` + strings.Repeat("x", maxLoggedBody)
	backend := &MockBackend{Err: apierrors.NewAPIErrorWithBody(500, "generateContent", "boom", body)}
	client := NewClient(backend, WithLogger(logging.New(&buf, false)))

	assert.Equal(t, models.FallbackChat, client.Converse(context.Background(), "hi"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"inference request failed"`)
	assert.Contains(t, out, `"body":"{\"error\":{\"code\":500`)
	assert.Contains(t, out, "...(truncated)")
	assert.Less(t, len(out), len(body)+1024)
}

func TestWebQueryFiltersSources(t *testing.T) {
	backend := &MockBackend{Response: &models.Response{
		Text: "X",
		Citations: []models.Citation{
			{URI: "", Title: "A"},
			{URI: "https://b", Title: "B"},
		},
	}}

	reply := NewClient(backend).WebQuery(context.Background(), "q")

	assert.Equal(t, "X", reply.Text)
	assert.Equal(t, []models.Citation{{URI: "https://b", Title: "B"}}, reply.Sources)
}

func TestClosedClientFallsBack(t *testing.T) {
	backend := &MockBackend{Response: &models.Response{Text: "ok"}}
	client := NewClient(backend)
	client.Close()
	client.Close()

	assert.True(t, backend.Closed)
	assert.Equal(t, models.FallbackChat, client.Converse(context.Background(), "hi"))
	assert.Zero(t, backend.CallCount())
}

func TestClientOptions(t *testing.T) {
	m := config.ModelsConfig{Chat: "c", Vision: "v", Deep: "d", Web: "w"}
	backend := &MockBackend{Response: &models.Response{Text: "ok"}}
	client := NewClient(backend, WithModels(m), WithThinkingBudget(1024), WithLogger(nil))

	client.DeepReason(context.Background(), "x")
	assert.Equal(t, "d", backend.LastRequest.Model)
	assert.Equal(t, int32(1024), backend.LastRequest.ThinkingBudget)
	assert.NotNil(t, client.logger)
}
