package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/speedybites/bitechat/internal/api"
	"github.com/speedybites/bitechat/internal/chat"
	"github.com/speedybites/bitechat/internal/config"
	"github.com/speedybites/bitechat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat widget",
	Long: `Start the interactive chat widget.

The widget keeps the conversation transcript on screen and offers
quick-action buttons for common questions. Press Esc or Ctrl+C to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChatWidget()
	},
}

func runChatWidget() error {
	cfg, _ := config.LoadConfig()

	client, err := api.NewClient(getEndpoint(),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	store := chat.NewStore()
	return tui.RunWidget(store, client)
}
