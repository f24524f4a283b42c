// Package copilot – config.go defines all configuration structures
// for the CanvasPilot assistant.
package copilot

import (
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// Config holds all assistant configuration.
type Config struct {
	// Name is the assistant name shown in responses.
	Name string `yaml:"name"`

	// Model is the LLM model to use (e.g. "gpt-4o-mini").
	Model string `yaml:"model"`

	// Instructions are extra system prompt instructions appended to the
	// built-in canvas prompt.
	Instructions string `yaml:"instructions"`

	// API configures the LLM provider endpoint.
	API APIConfig `yaml:"api"`

	// Composio configures the spreadsheet proxy.
	Composio sheets.ComposioConfig `yaml:"composio"`

	// Gateway configures the HTTP API server.
	Gateway GatewayConfig `yaml:"gateway"`

	// Database configures session persistence.
	Database DatabaseConfig `yaml:"database"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the OpenAI-compatible LLM endpoint.
type APIConfig struct {
	// BaseURL is the API base (default: https://api.openai.com/v1).
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key"`
}

// GatewayConfig configures the HTTP server.
type GatewayConfig struct {
	// Host to bind (default: 127.0.0.1).
	Host string `yaml:"host"`

	// Port to listen on (default: 8090).
	Port int `yaml:"port"`

	// APIKey, when set, is required as a Bearer token on every request.
	APIKey string `yaml:"api_key"`

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig configures session persistence.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// MaxHistory is the max conversation entries sent back to the model.
	MaxHistory int `yaml:"max_history"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log format ("json", "text").
	Format string `yaml:"format"`
}

// DefaultConfig returns the default assistant configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:  "CanvasPilot",
		Model: "gpt-4o-mini",
		API: APIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Composio: sheets.ComposioConfig{
			BaseURL: "https://backend.composio.dev",
			UserID:  "default",
		},
		Gateway: GatewayConfig{
			Host:           "127.0.0.1",
			Port:           8090,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path:       "./data/canvaspilot.db",
			MaxHistory: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
