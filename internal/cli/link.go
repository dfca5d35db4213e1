package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/store"
)

var (
	linkIncludes []string
	linkInherits []string
)

var linkCmd = &cobra.Command{
	Use:   "link <tag>",
	Short: "Add include or inherit edges to a tag",
	Long: `Link a tag to other tags.

Include edges (--include) pull the other tag's paths into union and
intersection queries. Inherit edges (--inherit) pull the other tag into
tag listings for paths carrying this one.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <tag>",
	Short: "Remove include or inherit edges from a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlink,
}

func init() {
	for _, cmd := range []*cobra.Command{linkCmd, unlinkCmd} {
		cmd.Flags().StringSliceVar(&linkIncludes, "include", nil, "tags to include")
		cmd.Flags().StringSliceVar(&linkInherits, "inherit", nil, "tags to inherit")
	}
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	return editEdges(args[0], "linked", func(svc edgeEditor, name string) error {
		return svc.Link(name, linkIncludes, linkInherits)
	})
}

func runUnlink(cmd *cobra.Command, args []string) error {
	return editEdges(args[0], "unlinked", func(svc edgeEditor, name string) error {
		return svc.Unlink(name, linkIncludes, linkInherits)
	})
}

type edgeEditor interface {
	Link(name string, includes, inherits []string) error
	Unlink(name string, includes, inherits []string) error
}

func editEdges(name, verb string, apply func(edgeEditor, string) error) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	if len(linkIncludes) == 0 && len(linkInherits) == 0 {
		return fmt.Errorf("nothing to do: pass --include or --inherit")
	}

	svc, cleanup, err := getTagger(true)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := apply(svc, name); err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("✓ %s %q (%d include, %d inherit)\n", verb, name, len(linkIncludes), len(linkInherits))
	} else {
		printLines(verb, append(append([]string{}, linkIncludes...), linkInherits...))
	}
	return nil
}
