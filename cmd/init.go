package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wp-init/internal/config"
	"wp-init/internal/installer"
	"wp-init/internal/logger"
	"wp-init/internal/prompt"
	"wp-init/internal/state"
)

const clearTerminal = "\u001B[2J\u001B[0;0f"

const greeting = `|| WP INIT ||
This application will create a WordPress installation with a custom theme.
Please provide the required input below to customize your new WordPress installation (use only A-Z, a-z and 0-9 characters).

`

var (
	// configPath is the catalog file, the embedded catalog is used when empty
	configPath string

	// baseDir is where the core package is unpacked
	baseDir string

	// statePath is the report file, relative paths are resolved against baseDir
	statePath string

	noProgress bool
)

// initCmd asks the installation questions and builds the WordPress installation.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new WordPress installation with a custom theme",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd.Context()); err != nil {
			logger.Error("[ERROR] %v\n", err)
			os.Exit(1)
		}
	},
}

func runInit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	catalog, err := config.LoadCatalog(configPath)
	if err != nil {
		return err
	}

	reportPath := resolveReportPath(baseDir, statePath)
	if reportPath != "" {
		previous, err := state.LoadReport(reportPath)
		if err != nil {
			logger.Warn("[WARN] Ignoring unreadable report: %v\n", err)
		}
		if previous != nil {
			logger.Warn("[WARN] A previous installation of theme %s (stage %s) was found in %s and will be overwritten\n",
				previous.Theme.Name, previous.Stage, reportPath)
		}
	}

	interactive := isTerminal(os.Stdout)
	if interactive {
		fmt.Print(clearTerminal)
	}
	fmt.Print(greeting)

	answers, err := prompt.New(os.Stdin, os.Stdout).Ask(catalog)
	if err != nil {
		return err
	}

	if interactive {
		fmt.Print(clearTerminal)
	}
	fmt.Print("Please hold while necessary packages are being downloaded and unzipped.\n\n")

	inst := installer.NewInstallation(catalog, *answers, installer.Options{
		BaseDir:  baseDir,
		Progress: installer.NewSpinner(os.Stdout, interactive && !noProgress),
	})

	report, runErr := inst.Run(ctx)

	if _, err := saveReport(reportPath, inst.ThemeDir(), report); err != nil {
		logger.Warn("[WARN] %v\n", err)
	}

	if errors.Is(runErr, installer.ErrCorePackage) {
		logger.Warn("[WARN] Check the core package url in the catalog (%s), it must lead to the latest %s .zip file\n",
			catalog.Core.URL, catalog.Core.Name)
	}
	if runErr != nil {
		return runErr
	}

	if skipped := report.SkippedPlugins(); len(skipped) > 0 {
		logger.Warn("[WARN] %d plugin(s) could not be installed\n", len(skipped))
	}

	fmt.Print(completionMessage(report))

	return nil
}

// resolveReportPath places relative report paths inside the installation directory
func resolveReportPath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// saveReport writes report to path once the theme directory exists. A run that never
// got to create the theme leaves nothing worth reporting, an empty path disables it.
func saveReport(path, themeDir string, report *state.Report) (bool, error) {
	if path == "" || report == nil {
		return false, nil
	}

	info, err := os.Stat(themeDir)
	if err != nil || !info.IsDir() {
		return false, nil
	}

	if err := state.SaveReport(path, report); err != nil {
		return false, err
	}

	return true, nil
}

func completionMessage(report *state.Report) string {
	if report.DependenciesInstalled {
		return "\nAll npm packages have successfully been installed in your theme directory.\n"
	}

	return "\nFinished. Navigate to theme directory and enter 'npm install' to install necessary npm packages.\n"
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func init() {
	initCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a plugin catalog file (defaults to the built-in catalog)")
	initCmd.Flags().StringVarP(&baseDir, "dir", "d", ".", "Directory to create the installation in")
	initCmd.Flags().StringVar(&statePath, "state", "wp-init.json", "Installation report file, empty disables the report")
	initCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress spinners")

	rootCmd.AddCommand(initCmd)
}
