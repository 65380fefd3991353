package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/top-repo-dashboard/internal/chart"
	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
	"github.com/naka-gawa/top-repo-dashboard/internal/logging"
)

// snapshotOutput is the JSON document printed by the snapshot command.
type snapshotOutput struct {
	Snapshot *domain.RepositorySnapshot `json:"snapshot"`
	chart.Series
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetches the most-starred repository once and outputs it as JSON",
	Long: `Fetches the most-starred repository together with its last four weeks of
commit activity and its language breakdown, derives the chart series and
outputs everything in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		// Logs go to standard error so standard output stays valid JSON.
		logger, err := logging.New(cfg.Log, isVerbose(cmd), os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
			os.Exit(1)
		}

		week, _ := cmd.Flags().GetInt("week")
		sel, err := weekSelection(week)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --week: %v\n", err)
			os.Exit(1)
		}

		builder, err := newBuilder(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		snap, err := builder.Build(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch repository snapshot (%s): %v\n", domain.ReasonOf(err), err)
			os.Exit(1)
		}

		if err := writeSnapshot(os.Stdout, snap, sel, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
	},
}

// weekSelection turns the 1-based --week flag into a selection; 0 means all weeks.
func weekSelection(week int) (chart.Selection, error) {
	if week == 0 {
		return chart.NewSelection(), nil
	}
	return chart.SelectedWeek(week - 1)
}

// writeSnapshot prints snap and its series as pretty-printed JSON.
func writeSnapshot(w io.Writer, snap *domain.RepositorySnapshot, sel chart.Selection, now time.Time) error {
	jsonData, err := json.MarshalIndent(snapshotOutput{
		Snapshot: snap,
		Series:   chart.Build(snap, sel, now),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().IntP("week", "w", 0, "Limit the daily series to one week (1-4)")
}
