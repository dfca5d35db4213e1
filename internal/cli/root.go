package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/tag-kit/internal/config"
)

var (
	rootDir string
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "tagkit",
	Short: "Tag filesystem paths and query them by tag",
	Long: `tagkit - path tagging toolkit

Tags are named sets of paths connected by include and inherit edges.
Include edges pull another tag's paths into union and intersection
queries; inherit edges pull another tag's sub-tags into tag listings.

Records live under a store root (default ~/.tagkit), one JSON document
per tag, with a hidden sidecar next to each tagged path. The sqlite
backend keeps records as rows in the store database instead.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and reports the error, if any.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "store root directory (default ~/.tagkit, or $TAGKIT_ROOT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output")
}

// storeRoot returns the effective store root for this invocation.
func storeRoot() string {
	return config.ResolveRoot(rootDir)
}

// warnf reports a per-item problem without aborting the operation.
func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// infof reports progress when --verbose is set.
func infof(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
