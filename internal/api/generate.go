package api

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
)

// parseResponse parses a generateContent response body
func parseResponse(body []byte) (*models.Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	// Some proxies answer 200 with an error envelope
	if parsed.Get(PathError).Exists() {
		return nil, envelopeError(int(parsed.Get(PathErrorCode).Int()), "", parsed)
	}

	candidate := parsed.Get(PathFirstCand)
	if !candidate.Exists() {
		if reason := parsed.Get(PathBlockReason).String(); reason != "" {
			return nil, apierrors.NewBlockedError(reason)
		}
		return nil, apierrors.NewParseError("no candidates found", PathCandidates)
	}

	var text strings.Builder
	candidate.Get(PathCandParts).ForEach(func(_, part gjson.Result) bool {
		// thought summaries are not part of the reply
		if part.Get(PathPartThought).Bool() {
			return true
		}
		text.WriteString(part.Get(PathPartText).String())
		return true
	})

	finish := candidate.Get(PathCandFinish).String()
	if strings.TrimSpace(text.String()) == "" {
		if finish == "SAFETY" || finish == "BLOCKLIST" || finish == "PROHIBITED_CONTENT" {
			return nil, apierrors.NewBlockedError(finish)
		}
		return nil, fmt.Errorf("finish reason %q: %w", finish, apierrors.ErrNoContent)
	}

	return &models.Response{
		Text:         text.String(),
		Citations:    extractCitations(candidate),
		FinishReason: finish,
		ModelVersion: parsed.Get(PathModelVersion).String(),
	}, nil
}

// extractCitations reads grounding chunks, skipping anything malformed.
func extractCitations(candidate gjson.Result) []models.Citation {
	var raw []models.Citation
	chunks := candidate.Get(PathCandGrounded)
	if chunks.IsArray() {
		chunks.ForEach(func(_, chunk gjson.Result) bool {
			if !chunk.IsObject() {
				return true
			}
			raw = append(raw, models.Citation{
				URI:   chunk.Get(PathChunkURI).String(),
				Title: chunk.Get(PathChunkTitle).String(),
			})
			return true
		})
	}
	return models.FilterCitations(raw)
}

// statusError converts a non-200 response into a typed error
func statusError(statusCode int, endpoint string, body []byte) error {
	parsed := gjson.ParseBytes(body)
	if gjson.ValidBytes(body) && parsed.Get(PathError).Exists() {
		return envelopeError(statusCode, endpoint, parsed)
	}
	return classifyStatus(statusCode, "", "", endpoint, string(body), false)
}

// envelopeError converts a {"error":{...}} envelope into a typed error
func envelopeError(statusCode int, endpoint string, parsed gjson.Result) error {
	message := parsed.Get(PathErrorMessage).String()
	status := parsed.Get(PathErrorStatus).String()

	invalidKey := false
	parsed.Get(PathErrorReasons).ForEach(func(_, reason gjson.Result) bool {
		if reason.String() == "API_KEY_INVALID" {
			invalidKey = true
			return false
		}
		return true
	})

	return classifyStatus(statusCode, status, message, endpoint, parsed.Raw, invalidKey)
}

func classifyStatus(statusCode int, status, message, endpoint, body string, invalidKey bool) error {
	if message == "" {
		message = "generate content failed"
	}

	switch {
	case invalidKey, statusCode == 401, statusCode == 403, status == "UNAUTHENTICATED", status == "PERMISSION_DENIED":
		return apierrors.NewAuthError(message)
	case statusCode == 429, status == "RESOURCE_EXHAUSTED":
		return apierrors.NewUsageLimitError(message)
	case statusCode == 504, status == "DEADLINE_EXCEEDED":
		return apierrors.NewTimeoutError(message)
	}

	apiErr := apierrors.NewAPIErrorWithBody(statusCode, endpoint, message, body)
	apiErr.Status = status
	return apiErr
}
