package main

import (
	"wp-init/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// wp-init scaffolds a new WordPress installation:
//   - Asks for a theme name, optional author details, pruning and npm toggles,
//     and which plugins from the catalog should be installed
//   - Downloads the WordPress core archive and extracts it into ./wordpress
//   - Creates a theme directory from the bundled template with a generated style.css
//   - Optionally removes the default themes and plugins shipped with WordPress
//   - Downloads and extracts every selected plugin, one archive at a time
//   - Optionally runs `npm install` inside the new theme directory
//
// Error handling strategy:
//   - A plugin that cannot be downloaded or unpacked is reported and skipped so the
//     remaining plugins still get installed
//   - Anything else (core package failures, filesystem errors, a failing npm install)
//     ends the run with a diagnostic and a non-zero exit status
func main() {
	cmd.Execute()
}
