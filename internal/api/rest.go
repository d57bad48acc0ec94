package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// httpDoer is the part of tls_client.HttpClient the REST backend needs.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// restBackend talks to the v1beta REST endpoint directly.
type restBackend struct {
	httpClient httpDoer
	apiKey     string
	baseURL    string
}

// NewRESTBackend creates a backend that issues generateContent requests over
// a tls-client HTTP client. baseURL may be empty for the public endpoint.
func NewRESTBackend(apiKey, baseURL string) (Backend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.NewConfigError("API_KEY", "empty API key", apierrors.ErrMissingCredential)
	}

	// No overall timeout: a call settles when the service answers or the
	// connection fails.
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(0),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return newRESTBackend(httpClient, apiKey, baseURL), nil
}

func newRESTBackend(doer httpDoer, apiKey, baseURL string) *restBackend {
	return &restBackend{
		httpClient: doer,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Generate sends req and parses the reply
func (b *restBackend) Generate(ctx context.Context, req *models.Request) (*models.Response, error) {
	if req == nil || len(req.Parts) == 0 {
		return nil, apierrors.ErrEmptyPrompt
	}

	payload, err := buildPayload(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := models.GenerateEndpoint(b.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apierrors.NewTimeoutError(err.Error())
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, endpoint, errorBody)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	return parseResponse(body)
}

// Close releases idle connections
func (b *restBackend) Close() error {
	if c, ok := b.httpClient.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
	return nil
}

type restBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restPart struct {
	Text       string    `json:"text,omitempty"`
	InlineData *restBlob `json:"inlineData,omitempty"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restThinkingConfig struct {
	ThinkingBudget int32 `json:"thinkingBudget"`
}

type restGenerationConfig struct {
	ThinkingConfig *restThinkingConfig `json:"thinkingConfig,omitempty"`
}

type restTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type restPayload struct {
	Contents         []restContent         `json:"contents"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
	Tools            []restTool            `json:"tools,omitempty"`
}

// buildPayload creates the JSON body for a generateContent request
func buildPayload(req *models.Request) (string, error) {
	parts := make([]restPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Inline != nil {
			parts = append(parts, restPart{InlineData: &restBlob{
				MIMEType: p.Inline.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Inline.Data),
			}})
			continue
		}
		parts = append(parts, restPart{Text: p.Text})
	}

	payload := restPayload{
		Contents: []restContent{{Role: "user", Parts: parts}},
	}

	if req.ThinkingBudget > 0 {
		payload.GenerationConfig = &restGenerationConfig{
			ThinkingConfig: &restThinkingConfig{ThinkingBudget: req.ThinkingBudget},
		}
	}

	if req.WebGrounding {
		payload.Tools = []restTool{{GoogleSearch: &struct{}{}}}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
