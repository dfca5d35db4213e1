package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/store"
)

var tagCmd = &cobra.Command{
	Use:   "tag <paths> <tag>...",
	Short: "Add tags to the given paths",
	Long: `Tag paths.

Adds the paths to each tag's record and the tags to each path's
sidecar. Paths are joined with the platform list separator.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTag,
}

var untagCmd = &cobra.Command{
	Use:   "untag <paths> <tag>...",
	Short: "Remove tags from the given paths",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runUntag,
}

var clearCmd = &cobra.Command{
	Use:   "clear <paths>",
	Short: "Clear all tags from the given paths",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(untagCmd)
	rootCmd.AddCommand(clearCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := parsePaths(args[0])
	if err != nil {
		return err
	}
	tags := args[1:]
	for _, name := range tags {
		if err := store.ValidateName(name); err != nil {
			return err
		}
	}

	if err := svc.Tag(paths, tags); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("✓ tagged %d path(s) with %d tag(s)\n", len(paths), len(tags))
	} else {
		printLines("tagged", paths)
	}
	return nil
}

func runUntag(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := parsePaths(args[0])
	if err != nil {
		return err
	}
	tags := args[1:]

	if err := svc.Untag(paths, tags); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("✓ untagged %d path(s)\n", len(paths))
	} else {
		printLines("untagged", paths)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := parsePaths(args[0])
	if err != nil {
		return err
	}

	if err := svc.Clear(paths); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("✓ cleared %d path(s)\n", len(paths))
	} else {
		printLines("cleared", paths)
	}
	return nil
}
