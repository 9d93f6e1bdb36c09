// Package cli provides the Cobra command structure for codefix.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codefix/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root codefix command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "codefix",
		Short: "Apply code fixes for type checker diagnostics",
		Long: `codefix turns type checker diagnostics into source edits.

Given a diagnostic report, it lists the fixes available at a position or
applies whole fix groups, such as deleting every unused declaration, across
all reported files. Edits from different groups never overlap, files are
written atomically, and files changed since the report was made are left
alone.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newFixesCommand(globals))
	rootCmd.AddCommand(newFixAllCommand(globals))
	rootCmd.AddCommand(newCodesCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(globals.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
