// Package config handles configuration and credential loading for aura.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
)

// Transports understood by the inference client
const (
	TransportSDK  = "sdk"
	TransportREST = "rest"
)

// Export formats accepted by ExportFormat
const (
	ExportMarkdown = "markdown"
	ExportJSON     = "json"
)

// EnvHome overrides the configuration directory.
const EnvHome = "AURA_HOME"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// ModelsConfig selects the model used by each view
type ModelsConfig struct {
	Chat   string `json:"chat"`
	Vision string `json:"vision"`
	Deep   string `json:"deep"`
	Web    string `json:"web"`
}

// Config represents the user configuration
type Config struct {
	// Transport selects the inference backend: "sdk" (google.golang.org/genai)
	// or "rest" (direct HTTP against the v1beta endpoint).
	Transport string `json:"transport"`
	// BaseURL overrides the REST endpoint root. Empty uses the public API.
	BaseURL        string       `json:"base_url,omitempty"`
	Models         ModelsConfig `json:"models"`
	ThinkingBudget int32        `json:"thinking_budget"`
	// DefaultView is the mode shown when the TUI starts.
	DefaultView     string `json:"default_view"`
	Verbose         bool   `json:"verbose"`
	CopyToClipboard bool   `json:"copy_to_clipboard"`
	LogFile         string `json:"log_file,omitempty"`
	ExportDir       string `json:"export_dir,omitempty"`
	// ExportFormat is the file format of Ctrl+E exports: "markdown" or "json".
	ExportFormat string         `json:"export_format"`
	Markdown     MarkdownConfig `json:"markdown,omitempty"`
	// Theme names the TUI color palette ("aura" or "tokyonight").
	Theme string `json:"theme,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultModels returns the model used by each view when none is configured
func DefaultModels() ModelsConfig {
	return ModelsConfig{
		Chat:   models.Model25Flash,
		Vision: models.Model25Flash,
		Deep:   models.Model25Pro,
		Web:    models.Model25Flash,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Transport:       TransportSDK,
		Models:          DefaultModels(),
		ThinkingBudget:  models.DefaultThinkingBudget,
		DefaultView:     "chat",
		Verbose:         false,
		CopyToClipboard: false,
		ExportFormat:    ExportMarkdown,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Validate checks values that cannot be defaulted silently
func (c Config) Validate() error {
	switch c.Transport {
	case TransportSDK, TransportREST:
	default:
		return apierrors.NewConfigError("transport", fmt.Sprintf("unknown transport %q (want %q or %q)", c.Transport, TransportSDK, TransportREST), nil)
	}
	if c.ThinkingBudget < 0 {
		return apierrors.NewConfigError("thinking_budget", "must not be negative", nil)
	}
	switch c.ExportFormat {
	case ExportMarkdown, ExportJSON:
	default:
		return apierrors.NewConfigError("export_format", fmt.Sprintf("unknown export format %q (want %q or %q)", c.ExportFormat, ExportMarkdown, ExportJSON), nil)
	}
	return nil
}

// withDefaults fills blank model names
func (c Config) withDefaults() Config {
	def := DefaultModels()
	if c.Models.Chat == "" {
		c.Models.Chat = def.Chat
	}
	if c.Models.Vision == "" {
		c.Models.Vision = def.Vision
	}
	if c.Models.Deep == "" {
		c.Models.Deep = def.Deep
	}
	if c.Models.Web == "" {
		c.Models.Web = def.Web
	}
	if c.Transport == "" {
		c.Transport = TransportSDK
	}
	if c.ExportFormat == "" {
		c.ExportFormat = ExportMarkdown
	}
	return c
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".aura"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, defaulting into the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aura.log"), nil
}

// GetExportDir returns the export directory from config, creating it if necessary
func GetExportDir(cfg Config) (string, error) {
	dir := cfg.ExportDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "exports")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
