package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/commit-race/internal/gateway"
	"github.com/naka-gawa/commit-race/internal/metrics"
	"github.com/naka-gawa/commit-race/internal/publish"
	"github.com/naka-gawa/commit-race/internal/store"
	"github.com/naka-gawa/commit-race/internal/usecase"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Counts the last window and publishes the leaderboard and history",
	Long: `Performs one run: counts commits per team for the trailing window, folds them
into the leaderboard and history, writes both artifacts and publishes them with
a git commit and push. Meant to be triggered by a scheduler on the same interval
as the window (5 minutes by default).

Only a publish failure makes the run fail; repository errors count as zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			return fmt.Errorf("GITHUB_TOKEN environment variable is not set")
		}
		noPush, _ := cmd.Flags().GetBool("no-push")
		textfile, _ := cmd.Flags().GetString("metrics-textfile")
		recorder := metrics.NewRecorder()

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
			Token:      token,
			Backend:    cfg.GitHub.Counter,
			PerPage:    cfg.GitHub.PerPage,
			APIURL:     cfg.GitHub.APIURL,
			GraphQLURL: cfg.GitHub.GraphQLURL,
		}, logger, recorder)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		artifacts := store.New(cfg.Data.Dir, logger)
		publisher := publish.NewGitPublisher(artifacts, publish.Options{
			RepoDir:     cfg.Publish.RepoDir,
			Remote:      cfg.Publish.Remote,
			Branch:      cfg.Publish.Branch,
			Push:        cfg.Publish.Push && !noPush,
			Token:       token,
			AuthorName:  cfg.Publish.AuthorName,
			AuthorEmail: cfg.Publish.AuthorEmail,
		}, logger)
		runner := usecase.NewRunner(
			usecase.RunConfig{TeamsFile: cfg.TeamsFile, Window: cfg.Window, HistoryLimit: cfg.HistoryLimit},
			artifacts,
			usecase.NewAggregator(githubGateway, cfg.GitHub.Concurrency, logger),
			publisher,
			recorder,
			logger,
		)
		runErr := runner.Run(cmd.Context())
		if textfile != "" {
			if err := recorder.WriteTextfile(textfile); err != nil {
				logger.Printf("cmd: failed to write metrics to %s: %v\n", textfile, err)
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-push", false, "Commit the artifacts locally without pushing")
	runCmd.Flags().String("metrics-textfile", "", "Write run metrics to this file in the node_exporter textfile format")
}
