// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-race/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "commit-race",
	Short: "A team commit leaderboard fed by the GitHub API.",
	Long: `commit-race counts the commits each team pushed to its repositories in the
last window, keeps a cumulative leaderboard and a bounded history, and
publishes both as JSON artifacts through a git commit and push.

The dashboard commands poll the published artifacts and render them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default .commitrace.yaml in the working directory or $HOME)")
}

// newLogger discards all logs unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.InheritedFlags().GetString("config")
	return config.Load(path)
}
