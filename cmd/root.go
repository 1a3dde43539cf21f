package cmd

import (
	"github.com/spf13/cobra"

	"wp-init/internal/logger"
)

// debug enables debug logging, toggled with `--debug`.
var debug bool

// noColor turns colored output off, toggled with `--no-color`.
var noColor bool

// rootCmd is the base command of `wp-init`.
var rootCmd = &cobra.Command{
	Use:   "wp-init",
	Short: "Create a WordPress installation with a custom starter theme",

	// PersistentPreRun runs before any subcommand and sets up logging.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug, noColor)
	},
}

// Execute registers the global flags and runs the selected subcommand.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Cobra prints usage errors itself
	_ = rootCmd.Execute()
}
