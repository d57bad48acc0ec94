package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
)

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// sdkBackend uses the official Go SDK.
type sdkBackend struct {
	models contentGenerator
}

// NewSDKBackend creates a backend on top of google.golang.org/genai.
func NewSDKBackend(ctx context.Context, apiKey, baseURL string) (Backend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.NewConfigError("API_KEY", "empty API key", apierrors.ErrMissingCredential)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &sdkBackend{models: client.Models}, nil
}

// Generate sends req through the SDK
func (b *sdkBackend) Generate(ctx context.Context, req *models.Request) (*models.Response, error) {
	if req == nil || len(req.Parts) == 0 {
		return nil, apierrors.ErrEmptyPrompt
	}

	contents, config := sdkRequest(req)

	resp, err := b.models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, sdkError(err, req.Model)
	}

	return sdkResponse(resp)
}

// Close is a no-op; the SDK client holds no background resources.
func (b *sdkBackend) Close() error {
	return nil
}

func sdkRequest(req *models.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Inline != nil {
			parts = append(parts, genai.NewPartFromBytes(p.Inline.Data, p.Inline.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}

	config := &genai.GenerateContentConfig{}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(req.ThinkingBudget)}
	}
	if req.WebGrounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config
}

func sdkResponse(resp *genai.GenerateContentResponse) (*models.Response, error) {
	if resp == nil {
		return nil, apierrors.NewParseError("nil response", "")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, apierrors.NewBlockedError(string(resp.PromptFeedback.BlockReason))
		}
		return nil, apierrors.NewParseError("no candidates found", PathCandidates)
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}
	}

	finish := string(cand.FinishReason)
	if strings.TrimSpace(text.String()) == "" {
		switch cand.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
			return nil, apierrors.NewBlockedError(finish)
		}
		return nil, fmt.Errorf("finish reason %q: %w", finish, apierrors.ErrNoContent)
	}

	return &models.Response{
		Text:         text.String(),
		Citations:    sdkCitations(cand.GroundingMetadata),
		FinishReason: finish,
		ModelVersion: resp.ModelVersion,
	}, nil
}

func sdkCitations(meta *genai.GroundingMetadata) []models.Citation {
	if meta == nil {
		return models.FilterCitations(nil)
	}
	raw := make([]models.Citation, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		raw = append(raw, models.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return models.FilterCitations(raw)
}

// sdkError maps SDK failures onto the shared taxonomy
func sdkError(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(err.Error())
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return apierrors.NewNetworkErrorWithEndpoint("generate content", model, err)
	}

	invalidKey := strings.Contains(apiErr.Message, "API key not valid")
	for _, d := range apiErr.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			invalidKey = true
		}
	}
	return classifyStatus(apiErr.Code, apiErr.Status, apiErr.Message, model, "", invalidKey)
}
