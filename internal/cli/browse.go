package cli

import (
	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse tags and history interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(storeRoot())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
