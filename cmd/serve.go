package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-race/internal/dashboard"
	"github.com/naka-gawa/commit-race/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the live dashboard of the published artifacts",
	Long: `Polls the published leaderboard and history under dashboard.base_url once at
startup and then every dashboard.poll_interval, and serves the ranking and the
per-team trend chart over HTTP. A failed poll keeps the last good snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Dashboard.BaseURL == "" {
			return fmt.Errorf("dashboard.base_url is not set")
		}

		recorder := metrics.NewRecorder()
		poller := dashboard.NewPoller(dashboard.NewClient(cfg.Dashboard.BaseURL, nil), cfg.Dashboard.PollInterval, logger, recorder)
		refresh := int(cfg.Dashboard.PollInterval / time.Second)
		server := &http.Server{
			Addr:              cfg.Dashboard.Listen,
			Handler:           dashboard.NewRouter(poller, recorder, refresh, logger, logger.Writer()),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx := cmd.Context()
		go poller.Run(ctx)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "Serving dashboard on %s\n", cfg.Dashboard.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
