// Package api provides the Gemini API client: transport backends and the
// failure-normalizing inference client used by every view.
package api

import (
	"context"

	"github.com/diogo/aura/internal/models"
)

// Backend performs one generateContent call against the service.
type Backend interface {
	Generate(ctx context.Context, req *models.Request) (*models.Response, error)
	Close() error
}
