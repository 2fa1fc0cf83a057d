package commands

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat backend service",
	Long: `Run the HTTP backend that the chat client talks to.

Configuration comes from RAGCHAT_-prefixed environment variables:
  RAGCHAT_LISTEN_ADDR      Listen address (default :8000)
  RAGCHAT_ALLOW_ORIGINS    Comma-separated CORS origins
  RAGCHAT_OPENAI_BASE_URL  Upstream OpenAI-compatible endpoint
  RAGCHAT_OPENAI_API_KEY   Upstream API key (required)
  RAGCHAT_CHAT_MODEL       Upstream model name
  RAGCHAT_SYSTEM_PROMPT    System prompt override
  RAGCHAT_PROMPTS_FILE     YAML prompts file (default config/prompts.yaml)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig()
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr, "ragchat: ", log.LstdFlags)
		completer := server.NewOpenAICompleter(cfg)
		s := server.New(cfg, completer, logger)

		logger.Printf("listening on %s", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, s.Handler(cfg, os.Stdout))
	},
}
