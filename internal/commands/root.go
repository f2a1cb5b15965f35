// Package commands provides CLI commands for bitechat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/speedybites/bitechat/internal/config"
)

var (
	// Global flags
	endpointFlag string
	outputFlag   string
	fileFlag     string
	rawFlag      bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bitechat [message]",
	Short: "Chat widget for the Speedy Bites assistant",
	Long: `bitechat is a terminal chat widget for the Speedy Bites restaurant
assistant. It talks to the chat server over HTTP and renders the
assistant's structured replies.

Examples:
  bitechat chat                         Start the interactive widget
  bitechat serve                        Run the chat server
  bitechat "Show me the menu"           Send a single message
  bitechat -f question.txt              Read the message from a file
  echo "your hours?" | bitechat         Read the message from stdin
  bitechat "menu" -o reply.txt          Save the reply to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("bitechat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawFlag)
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), true)
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(args[0], rawFlag)
		}

		// No input - show help
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
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", "",
		"Chat endpoint URL (default from config)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save reply to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw reply text without styling")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// getEndpoint returns the chat endpoint to use (from flag or config)
func getEndpoint() string {
	if endpointFlag != "" {
		return endpointFlag
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return config.DefaultConfig().Endpoint
	}

	return cfg.Endpoint
}
