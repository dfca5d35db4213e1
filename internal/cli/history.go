package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/config"
	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/history"
)

var historyFilter history.Filter

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the journal of tagging operations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFilter.Op, "op", "", "filter by operation (tag, untag, clear, link, unlink)")
	historyCmd.Flags().StringVar(&historyFilter.Tag, "tag", "", "filter by tag name")
	historyCmd.Flags().StringVar(&historyFilter.Path, "path", "", "filter by path")
	historyCmd.Flags().IntVar(&historyFilter.Limit, "limit", 0, "maximum events to show (default 50)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	database, err := db.Open(config.DBPath(storeRoot()))
	if err != nil {
		return err
	}
	defer database.Close()

	events, err := history.NewService(database).List(historyFilter)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(events)
	}

	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}
	for _, e := range events {
		subject := e.Tag
		if subject == "" {
			subject = e.Path
		}
		fmt.Printf("%s  %-6s  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Op, subject)
		if verbose {
			for _, p := range e.Paths() {
				fmt.Printf("    %s\n", p)
			}
		}
	}
	return nil
}
