package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-race/internal/dashboard"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Prints the published ranking once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Dashboard.BaseURL == "" {
			return fmt.Errorf("dashboard.base_url is not set")
		}

		snap, err := dashboard.NewClient(cfg.Dashboard.BaseURL, nil).Fetch(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(snap.Leaderboard, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal leaderboard to JSON: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}
		dashboard.RenderTable(os.Stdout, snap)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().Bool("json", false, "Print the leaderboard as JSON")
}
