package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/top-repo-dashboard/internal/logging"
	"github.com/naka-gawa/top-repo-dashboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the snapshot and its chart series over HTTP",
	Long: `Fetches the most-starred repository once in the background and serves it,
its chart series and a summary as JSON under /api/v1. Endpoints answer 503
until the fetch has succeeded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}
		logger, err := logging.New(cfg.Log, isVerbose(cmd), os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
			os.Exit(1)
		}

		builder, err := newBuilder(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		if err := server.New(builder, logger).Run(ctx, cfg.Addr(), cfg.Server.ShutdownTimeout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides server.port)")
}
