package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/config"
)

var setBackendFlag string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
	Long: `Show the current client configuration.

With --set-backend the backend URL is written to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setBackendFlag != "" {
			cfg, _ := config.LoadConfig()
			cfg.BackendURL = setBackendFlag
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("backend URL set to %s\n", setBackendFlag)
			return nil
		}

		cfg := loadClientConfig()
		path, _ := config.GetConfigPath()

		fmt.Printf("config file:        %s\n", path)
		fmt.Printf("backend URL:        %s\n", cfg.BackendURL)
		fmt.Printf("copy to clipboard:  %t\n", cfg.CopyToClipboard)
		fmt.Printf("markdown style:     %s\n", cfg.Markdown.Style)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&setBackendFlag, "set-backend", "", "Set the backend base URL and save it")
}
