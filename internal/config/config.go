// Package config handles client-side configuration for ragchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvBackendURL overrides the configured backend URL when set.
const EnvBackendURL = "RAGCHAT_BACKEND_URL"

// DefaultBackendURL is used when neither the config file nor the environment
// supplies one.
const DefaultBackendURL = "http://localhost:8000"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", or "auto"
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// BackendURL is the base URL of the chat backend. The /chat and /health
	// paths are appended to it.
	BackendURL string `json:"backend_url"`
	// CopyToClipboard enables the ctrl+y copy binding in the chat TUI.
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BackendURL:      DefaultBackendURL,
		CopyToClipboard: true,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ragchat"), nil
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

// LoadConfig loads the configuration from disk, falling back to defaults when
// no config file exists. The RAGCHAT_BACKEND_URL environment variable, when
// set, wins over the file.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return applyEnv(cfg), fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if url := os.Getenv(EnvBackendURL); url != "" {
		cfg.BackendURL = url
	}
	return cfg
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
