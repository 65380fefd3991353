package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/top-repo-dashboard/internal/logging"
	"github.com/naka-gawa/top-repo-dashboard/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Shows the most-starred repository in an interactive terminal dashboard",
	Long: `Opens a terminal dashboard with the repository's headline counts, weekly and
daily commit charts and its language breakdown. Press 1-4 to focus the daily
chart on one week and esc to show all four again.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		// The terminal belongs to the dashboard, so logs only go to log.file.
		logger, closer, err := logging.NewFile(cfg.Log, isVerbose(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()

		builder, err := newBuilder(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(ui.NewModel(ctx, builder, logger), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Dashboard failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
