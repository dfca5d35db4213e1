package cli

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <tag>...",
	Short: "Get paths contained in all the given tags",
	Long: `Gets paths all contained in the given tags.

Each tag contributes the union of its own paths and the paths of every
tag it transitively includes; the result is the intersection of those
unions. Displays nothing when none are found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

var unionCmd = &cobra.Command{
	Use:   "union <tag>...",
	Short: "Get paths contained in any of the given tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnion,
}

var listCmd = &cobra.Command{
	Use:   "list <paths>",
	Short: "List all tags that occur in the given paths",
	Long: `Lists all the tags that occur in the given paths, expanded through
each tag's inheritance chain.

Paths are joined with the platform list separator (":" on most Unix
platforms, ";" on Windows). Displays nothing when none of the paths
are tagged.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(unionCmd)
	rootCmd.AddCommand(listCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := svc.Get(args)
	if err != nil {
		return err
	}

	printLines("paths", paths)
	return nil
}

func runUnion(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := svc.Union(args)
	if err != nil {
		return err
	}

	printLines("paths", paths)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := parsePaths(args[0])
	if err != nil {
		return err
	}

	tags, err := svc.ListTags(paths)
	if err != nil {
		return err
	}

	printLines("tags", tags)
	return nil
}
