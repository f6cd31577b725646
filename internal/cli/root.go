// Package cli provides the Cobra command structure for gomdhtml.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhtml/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdhtml command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdhtml",
		Short: "Convert lightweight markup to HTML",
		Long: `gomdhtml converts Markdown-style markup to HTML.

Headings, paragraphs, block quotes, lists, code blocks, thematic breaks,
raw HTML, emphasis, links, images and reference definitions are supported.
Malformed input never stops a conversion: problems are reported as
diagnostics next to the generated HTML.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newStylesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
