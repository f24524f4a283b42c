// Package copilot – keyring.go provides secure credential storage using the
// operating system's native keyring (Linux: Secret Service/GNOME Keyring,
// macOS: Keychain, Windows: Credential Manager).
//
// Priority for resolving secrets:
//  1. OS keyring (encrypted by the OS, requires user session)
//  2. Environment variable (CANVASPILOT_API_KEY, COMPOSIO_API_KEY, ...)
//  3. .env file (loaded by godotenv)
//  4. config.yaml value (least secure, plaintext on disk)
package copilot

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used in the OS keyring.
	keyringService = "canvaspilot"

	// keyringAPIKey is the key name for the LLM API key.
	keyringAPIKey = "api_key"

	// keyringComposioKey is the key name for the Composio API key.
	keyringComposioKey = "composio_api_key"
)

// StoreKeyring saves a secret to the OS keyring.
func StoreKeyring(key, value string) error {
	return keyring.Set(keyringService, key, value)
}

// GetKeyring retrieves a secret from the OS keyring.
// Returns empty string if not found.
func GetKeyring(key string) string {
	val, err := keyring.Get(keyringService, key)
	if err != nil {
		return ""
	}
	return val
}

// DeleteKeyring removes a secret from the OS keyring.
func DeleteKeyring(key string) error {
	return keyring.Delete(keyringService, key)
}

// KeyringAvailable checks if the OS keyring is accessible.
func KeyringAvailable() bool {
	testKey := "__canvaspilot_test__"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	return true
}

// ResolveSecrets resolves the LLM and Composio API keys using the priority
// chain keyring → env var → config value, updating cfg in place.
func ResolveSecrets(cfg *Config, logger *slog.Logger) {
	if val := GetKeyring(keyringAPIKey); val != "" {
		cfg.API.APIKey = val
		logger.Debug("LLM API key loaded from OS keyring")
	} else if cfg.API.APIKey != "" && !IsEnvReference(cfg.API.APIKey) {
		logger.Debug("LLM API key loaded from config/env")
	} else {
		logger.Warn("no LLM API key found. Set one with: canvaspilot setup or CANVASPILOT_API_KEY")
	}

	if val := GetKeyring(keyringComposioKey); val != "" {
		cfg.Composio.APIKey = val
		logger.Debug("Composio API key loaded from OS keyring")
	} else if cfg.Composio.APIKey != "" && !IsEnvReference(cfg.Composio.APIKey) {
		logger.Debug("Composio API key loaded from config/env")
	} else {
		logger.Warn("no Composio API key found; sheet operations will fail. " +
			"Set one with: canvaspilot setup or COMPOSIO_API_KEY")
	}
}

// MigrateKeyToKeyring moves an API key from config/env to the OS keyring.
func MigrateKeyToKeyring(name, apiKey string, logger *slog.Logger) error {
	if err := StoreKeyring(name, apiKey); err != nil {
		return fmt.Errorf("storing in keyring: %w", err)
	}
	logger.Info("key stored in OS keyring",
		"service", keyringService,
		"key", name,
		"hint", "You can now remove it from .env and config.yaml")
	return nil
}
