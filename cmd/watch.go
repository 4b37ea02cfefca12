package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-race/internal/dashboard"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Shows a live ranking in the terminal",
	Long:  `Polls the published artifacts like the dashboard server and redraws the ranking table after every successful poll.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Dashboard.BaseURL == "" {
			return fmt.Errorf("dashboard.base_url is not set")
		}

		poller := dashboard.NewPoller(dashboard.NewClient(cfg.Dashboard.BaseURL, nil), cfg.Dashboard.PollInterval, logger, nil)
		poller.OnUpdate(func(snap dashboard.Snapshot) {
			fmt.Fprint(os.Stdout, clearScreen)
			dashboard.RenderTable(os.Stdout, snap)
		})
		poller.Run(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
