package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/speedybites/bitechat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration.

Values come from ~/.bitechat/config.json, overridden by BITECHAT_*
environment variables. A .env file in the working directory is honored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		path, _ := config.GetConfigPath()
		fmt.Printf("config file:     %s\n", path)
		fmt.Printf("endpoint:        %s\n", cfg.Endpoint)
		fmt.Printf("timeout_seconds: %d\n", cfg.TimeoutSeconds)
		fmt.Printf("listen_addr:     %s\n", cfg.ListenAddr)
		if cfg.DataDir != "" {
			fmt.Printf("data_dir:        %s\n", cfg.DataDir)
		} else {
			fmt.Printf("data_dir:        (built-in sample data)\n")
		}
		return nil
	},
}
