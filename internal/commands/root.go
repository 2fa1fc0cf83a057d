// Package commands provides CLI commands for ragchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/config"
)

var (
	// Global flags
	backendFlag string
	fileFlag    string
	rawFlag     bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ragchat [prompt]",
	Short: "Terminal client for a streaming RAG chat backend",
	Long: `ragchat talks to a document-grounded chat backend that streams its
replies as plain text.

Examples:
  ragchat chat                         Start interactive chat
  ragchat "What is in the handbook?"   Send a single question
  ragchat -f prompt.md                 Read prompt from file
  cat prompt.md | ragchat              Read prompt from stdin
  ragchat serve                        Run the backend service
  ragchat config                       Show configuration`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("ragchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawFlag)
		}

		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), rawFlag)
		}

		if len(args) > 0 {
			return runQuery(args[0], rawFlag)
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Backend base URL (overrides config)")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw reply without markdown rendering")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadClientConfig resolves the effective client configuration: config file,
// then environment, then the --backend flag.
func loadClientConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if backendFlag != "" {
		cfg.BackendURL = backendFlag
	}
	return cfg
}
