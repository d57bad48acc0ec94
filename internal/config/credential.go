package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/aura/internal/errors"
)

// Credential environment variables, in lookup order.
const (
	EnvAPIKey       = "API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// LoadDotEnv loads variables from the given .env files (default "./.env")
// without overriding values already present in the environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// LoadCredential resolves the static API key from the environment.
// A missing key is a ConfigError wrapping ErrMissingCredential.
func LoadCredential() (string, error) {
	for _, name := range []string{EnvAPIKey, EnvGeminiAPIKey} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", apierrors.NewConfigError(EnvAPIKey, "environment variable not set", apierrors.ErrMissingCredential)
}
