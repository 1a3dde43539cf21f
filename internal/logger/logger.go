package logger

import (
	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Skipped plugins and overwritten installations are reported through Warn.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Success and Fail render the status marker printed in front of a finished archive.
var (
	Success = color.New(color.FgGreen, color.Bold).SprintFunc()
	Fail    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is assigned during Init; until then it discards everything so packages
// can be used (and tested) without the CLI having run.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug logging and color output.
// Colors are turned off when noColor is set, independent of terminal detection
// done by fatih/color itself.
func Init(enableDebug bool, noColor bool) {
	if noColor {
		color.NoColor = true
	}

	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
