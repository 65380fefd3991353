// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/top-repo-dashboard/internal/config"
	"github.com/naka-gawa/top-repo-dashboard/internal/gateway"
	"github.com/naka-gawa/top-repo-dashboard/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "top-repo-dashboard",
	Short: "A dashboard for the most-starred repository on GitHub.",
	Long: `top-repo-dashboard finds the most-starred public repository on GitHub and
shows its headline counts, its commit activity over the last four weeks and
its language breakdown, as JSON, in the terminal or over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// loadConfig reads the configuration named by the inherited --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// newBuilder wires the GitHub gateway into the snapshot builder.
func newBuilder(cfg *config.Config, logger zerolog.Logger) (*usecase.Builder, error) {
	if !cfg.HasToken() {
		logger.Warn().Msg("no GitHub token configured; using unauthenticated REST requests with a low rate limit")
	}
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:              cfg.GitHub.Token,
		BaseURL:            cfg.GitHub.BaseURL,
		RequestTimeout:     cfg.GitHub.RequestTimeout,
		StatsRetries:       cfg.GitHub.StatsRetries,
		StatsRetryInterval: cfg.GitHub.StatsRetryInterval,
		SecondaryLimitWait: cfg.GitHub.SecondaryLimitWait,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return usecase.NewBuilder(githubGateway, logger), nil
}
