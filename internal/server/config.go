// Package server implements the ragchat backend: a small HTTP service that
// accepts a prompt and streams back a completion as plain text.
package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// defaultSystemPrompt is used when neither the environment nor a prompts file
// provides one.
const defaultSystemPrompt = "You are a helpful assistant that answers questions using provided context."

// Config represents options given in the environment with the RAGCHAT prefix.
type Config struct {
	ListenAddr   string   `split_words:"true" default:":8000"`
	AllowOrigins []string `split_words:"true" default:"http://localhost:5173"`

	// Upstream OpenAI-compatible endpoint
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	ChatModel     string `split_words:"true" default:"gpt-4o-mini"`

	// SystemPrompt overrides the prompts file when set
	SystemPrompt string `split_words:"true"`
	// PromptsFile is a YAML file holding named system prompts
	PromptsFile string `split_words:"true" default:"config/prompts.yaml"`

	// Azure AI Search index used to ground completions. When the endpoint
	// is set the index is attached to every completion as a data source,
	// so answers come from the indexed documents.
	SearchEndpoint     string `envconfig:"AI_SEARCH_ENDPOINT"`
	SearchIndexName    string `envconfig:"AI_SEARCH_INDEX_NAME"`
	SearchAPIKey       string `envconfig:"AI_SEARCH_API_KEY"`
	EmbeddingModelName string `envconfig:"EMBEDDING_MODEL_NAME"`
}

// SearchEnabled reports whether a search index is configured.
func (c Config) SearchEnabled() bool {
	return c.SearchEndpoint != ""
}

// LoadConfig reads configuration from the environment and resolves the
// system prompt.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("RAGCHAT", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read configuration from environment: %w", err)
	}

	if cfg.OpenAIAPIKey == "" {
		return cfg, fmt.Errorf("RAGCHAT_OPENAI_API_KEY must be configured")
	}

	if cfg.SearchEnabled() && cfg.SearchIndexName == "" {
		return cfg, fmt.Errorf("RAGCHAT_AI_SEARCH_INDEX_NAME must be configured when a search endpoint is set")
	}

	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = loadSystemPrompt(cfg.PromptsFile)
	}

	return cfg, nil
}

// promptsFile mirrors the layout of config/prompts.yaml:
//
//	system_prompts:
//	  rag_assistant:
//	    content: |
//	      ...
type promptsFile struct {
	SystemPrompts map[string]struct {
		Content string `yaml:"content"`
	} `yaml:"system_prompts"`
}

// loadSystemPrompt reads the rag_assistant prompt from the prompts file,
// falling back to the built-in default when the file is missing or malformed.
func loadSystemPrompt(path string) string {
	if path == "" {
		return defaultSystemPrompt
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return defaultSystemPrompt
	}

	var prompts promptsFile
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return defaultSystemPrompt
	}

	entry, ok := prompts.SystemPrompts["rag_assistant"]
	if !ok || strings.TrimSpace(entry.Content) == "" {
		return defaultSystemPrompt
	}
	return strings.TrimSpace(entry.Content)
}
