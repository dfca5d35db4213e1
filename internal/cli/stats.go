package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/analytics"
	"github.com/n0roo/tag-kit/internal/config"
	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/history"
)

var (
	statsTop  int
	statsDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tag usage statistics",
	Long: `Shows the tags with the most directly tagged paths and the recent
operation trend. Statistics run over the analytics database; the current
store state is re-indexed on every run.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate store data between backends",
}

var migrateToDuckdbCmd = &cobra.Command{
	Use:   "to-duckdb",
	Short: "Copy the operation journal into the analytics database",
	Args:  cobra.NoArgs,
	RunE:  runMigrateToDuckdb,
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "number of tags in the leaderboard")
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "days of operation trend to show")
	migrateCmd.AddCommand(migrateToDuckdbCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := storeRoot()

	tags, cleanup, err := openTagStore(root)
	if err != nil {
		return err
	}
	defer cleanup()

	indexPath, err := analytics.ExportTagIndex(tags, config.CacheDir(root))
	if err != nil {
		return err
	}
	infof("tag index written to %s", indexPath)

	adb, err := analytics.New(analytics.Config{
		DBPath:    config.AnalyticsDBPath(root),
		CachePath: config.CacheDir(root),
	})
	if err != nil {
		return err
	}
	defer adb.Close()

	top, err := adb.TopTags(ctx, indexPath, statsTop)
	if err != nil {
		return err
	}

	trend, err := opTrend(ctx, adb, root, statsDays)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"top_tags": top,
			"op_trend": trend,
		})
	}

	if len(top) == 0 {
		fmt.Println("No tags yet.")
		return nil
	}

	fmt.Println("Top tags:")
	for i, stat := range top {
		fmt.Printf("  %2d. %-20s %4d path(s)  (%d include, %d inherit)\n",
			i+1, stat.Name, stat.PathCount, stat.IncludeCount, stat.InheritCount)
	}

	if len(trend) > 0 {
		fmt.Printf("\nOperations (last %d days):\n", statsDays)
		for _, point := range trend {
			fmt.Printf("  %s  %-6s  %d\n", point.Day, point.Op, point.Count)
		}
	}
	return nil
}

// opTrend refreshes the analytics events table from the journal and
// queries the per-day counts. An unopenable journal is not fatal for
// stats; the trend is simply empty.
func opTrend(ctx context.Context, adb *analytics.AnalyticsDB, root string, days int) ([]analytics.OpTrendPoint, error) {
	database, err := db.Open(config.DBPath(root))
	if err != nil {
		warnf("journal unavailable: %v", err)
		return nil, nil
	}
	defer database.Close()

	events, err := history.NewService(database).List(history.Filter{Limit: 100000})
	if err != nil {
		return nil, err
	}
	if _, err := adb.IngestEvents(ctx, events); err != nil {
		return nil, err
	}
	return adb.OpTrend(ctx, days)
}

func runMigrateToDuckdb(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := storeRoot()

	database, err := db.Open(config.DBPath(root))
	if err != nil {
		return err
	}
	defer database.Close()

	events, err := history.NewService(database).List(history.Filter{Limit: 100000})
	if err != nil {
		return err
	}

	adb, err := analytics.New(analytics.Config{
		DBPath:    config.AnalyticsDBPath(root),
		CachePath: config.CacheDir(root),
	})
	if err != nil {
		return err
	}
	defer adb.Close()

	count, err := adb.IngestEvents(ctx, events)
	if err != nil {
		return err
	}

	fmt.Printf("✓ migrated %d event(s) to %s\n", count, config.AnalyticsDBPath(root))
	return nil
}
