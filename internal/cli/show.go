package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <tag>",
	Short: "Show a tag's record: includes, inherits, and direct paths",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every known tag",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := store.ValidateName(name); err != nil {
		return err
	}

	svc, cleanup, err := getTagger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := svc.Show(name)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rec)
	}

	fmt.Printf("Tag: %s\n", name)
	printSection("includes", rec.IncludeTags.Sorted())
	printSection("inherits", rec.InheritedTags.Sorted())
	printSection("paths", rec.Paths.Sorted())
	return nil
}

func printSection(label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, entry := range entries {
		fmt.Printf("  %s\n", entry)
	}
}

func runTags(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getTagger(false)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := svc.Tags()
	if err != nil {
		return err
	}

	printLines("tags", names)
	return nil
}
