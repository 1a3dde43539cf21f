package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wp-init/internal/config"
	"wp-init/internal/logger"
	"wp-init/internal/runner"
	"wp-init/internal/state"
	"wp-init/internal/theme"
)

// Stage is the position of an Installation in its run
type Stage string

const (
	StageIdle                Stage = "Idle"
	StageCorePackageAcquired Stage = "CorePackageAcquired"
	StageThemeCreated        Stage = "ThemeCreated"
	StagePluginsAcquired     Stage = "PluginsAcquired"
	StageFinished            Stage = "Finished"
	StageFailed              Stage = "Failed"
)

// Options configures an Installation, zero values select the defaults
type Options struct {
	BaseDir  string               // directory the core package is unpacked into, defaults to "."
	Fetcher  ArchiveFetcher       // defaults to NewFetcher()
	Runner   runner.CommandRunner // defaults to runner.NewExec()
	Progress *Spinner             // nil disables progress output
	Now      func() time.Time     // clock used for the report
}

// Installation drives the core package, theme, pruning, plugin and dependency steps in order
type Installation struct {
	catalog  *config.Catalog
	answers  config.Answers
	baseDir  string
	acquirer *Acquirer
	runner   runner.CommandRunner
	progress *Spinner
	now      func() time.Time
	stage    Stage
	report   *state.Report
}

// NewInstallation prepares an installation of catalog customized by answers
func NewInstallation(catalog *config.Catalog, answers config.Answers, opts Options) *Installation {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher()
	}
	if opts.Runner == nil {
		opts.Runner = runner.NewExec()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	inst := &Installation{
		catalog:  catalog,
		answers:  answers,
		baseDir:  opts.BaseDir,
		acquirer: NewAcquirer(opts.Fetcher, NewExtractor(), opts.Progress),
		runner:   opts.Runner,
		progress: opts.Progress,
		now:      opts.Now,
		stage:    StageIdle,
	}

	inst.report = &state.Report{
		Stage:    string(StageIdle),
		CoreURL:  catalog.Core.URL,
		CoreRoot: inst.CoreRoot(),
		Theme: state.ThemeState{
			Name:      answers.ThemeName,
			Author:    answers.ThemeAuthor,
			AuthorURI: answers.AuthorURI,
			Path:      inst.ThemeDir(),
		},
		Plugins: []state.PluginState{},
	}

	return inst
}

// Stage returns the current stage
func (i *Installation) Stage() Stage {
	return i.stage
}

// CoreRoot is the directory the core package unpacks into
func (i *Installation) CoreRoot() string {
	return filepath.Join(i.baseDir, i.catalog.Core.Root)
}

// ThemesDir is wp-content/themes below the core root
func (i *Installation) ThemesDir() string {
	return filepath.Join(i.CoreRoot(), "wp-content", "themes")
}

// PluginsDir is wp-content/plugins below the core root
func (i *Installation) PluginsDir() string {
	return filepath.Join(i.CoreRoot(), "wp-content", "plugins")
}

// ThemeDir is the directory of the theme being created
func (i *Installation) ThemeDir() string {
	return filepath.Join(i.ThemesDir(), i.answers.ThemeName)
}

// Run performs the whole installation. The report is returned even when the run fails.
func (i *Installation) Run(ctx context.Context) (*state.Report, error) {
	i.report.StartedAt = i.now()

	if err := i.acquireCore(ctx); err != nil {
		return i.fail(err)
	}
	i.advance(StageCorePackageAcquired)

	if err := i.createTheme(); err != nil {
		return i.fail(err)
	}
	i.advance(StageThemeCreated)

	if err := i.pruneDefaults(); err != nil {
		return i.fail(err)
	}

	if err := i.acquirePlugins(ctx); err != nil {
		return i.fail(err)
	}
	i.advance(StagePluginsAcquired)

	if i.answers.AutoInstall {
		if err := i.installDependencies(ctx); err != nil {
			return i.fail(err)
		}
	}
	i.advance(StageFinished)

	i.report.FinishedAt = i.now()

	return i.report, nil
}

func (i *Installation) advance(stage Stage) {
	logger.Debug("[DEBUG] Installation stage %s -> %s\n", i.stage, stage)
	i.stage = stage
	i.report.Stage = string(stage)
}

func (i *Installation) fail(err error) (*state.Report, error) {
	i.advance(StageFailed)
	i.report.Error = err.Error()
	i.report.FinishedAt = i.now()

	return i.report, err
}

func (i *Installation) acquireCore(ctx context.Context) error {
	core := i.catalog.Core

	outcome, err := i.acquirer.Acquire(ctx, Request{
		Name:            core.Name,
		SourceURL:       core.URL,
		DestinationRoot: i.baseDir,
		ArchivePath:     filepath.Join(i.baseDir, core.Archive),
	})

	switch outcome.Signal {
	case SignalUnpacked:
	case SignalInvalidSource:
		logger.Error("%s %s could not be installed\n", logger.Fail("✖"), core.Name)
		return fmt.Errorf("%w: %w", ErrCorePackage, err)
	default:
		return err
	}

	info, err := os.Stat(i.CoreRoot())
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: archive did not contain the %s directory", ErrCorePackage, core.Root)
	}

	logger.Info("%s %s\n", logger.Success("✔"), core.Name)

	return nil
}

func (i *Installation) createTheme() error {
	err := theme.Create(i.ThemeDir(), theme.Metadata{
		Name:      i.answers.ThemeName,
		Author:    i.answers.ThemeAuthor,
		AuthorURI: i.answers.AuthorURI,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	logger.Info("%s Theme %s created\n", logger.Success("✔"), i.answers.ThemeName)

	return nil
}

func (i *Installation) pruneDefaults() error {
	if i.answers.RemoveThemes {
		removed, err := PruneDirectory(i.ThemesDir(), "index.php", i.answers.ThemeName)
		i.report.RemovedThemes = removed
		if err != nil {
			return err
		}
		logger.Info("[INFO] Removed default themes: %s\n", strings.Join(removed, ", "))
	}

	if i.answers.RemovePlugins {
		removed, err := PruneDirectory(i.PluginsDir(), "index.php")
		i.report.RemovedPlugins = removed
		if err != nil {
			return err
		}
		logger.Info("[INFO] Removed default plugins: %s\n", strings.Join(removed, ", "))
	}

	return nil
}

// acquirePlugins installs the selected plugins one at a time, a plugin that cannot be
// installed is recorded and skipped
func (i *Installation) acquirePlugins(ctx context.Context) error {
	for _, name := range i.answers.Plugins {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("installing plugins: %w", err)
		}

		plugin, ok := i.catalog.Plugin(name)
		if !ok {
			logger.Warn("[WARN] Unknown plugin %s. Skipping.\n", name)
			i.report.Plugins = append(i.report.Plugins, state.PluginState{Name: name, Error: "unknown plugin"})
			continue
		}

		outcome, err := i.acquirer.Acquire(ctx, Request{
			Name:            name,
			SourceURL:       plugin.URL,
			DestinationRoot: i.PluginsDir(),
			ArchivePath:     filepath.Join(i.baseDir, archiveName(name)),
		})

		ps := state.PluginState{Name: name, URL: plugin.URL}

		switch outcome.Signal {
		case SignalUnpacked:
			ps.Installed = true
			if len(outcome.Extracted.TopLevel) > 0 {
				ps.Directory = outcome.Extracted.TopLevel[0]
			}
			logger.Info("%s %s\n", logger.Success("✔"), name)

		case SignalInvalidSource:
			ps.Error = err.Error()
			logger.Error("%s %s\n", logger.Fail("✖"), name)
			logger.Warn("[WARN] This URL is not valid or does not lead to a .zip file: %s\n", plugin.URL)
			logger.Debug("[DEBUG] %s: %v\n", name, err)

		default:
			return err
		}

		i.report.Plugins = append(i.report.Plugins, ps)
	}

	return nil
}

func (i *Installation) installDependencies(ctx context.Context) error {
	command := i.catalog.Dependencies.Command

	stop := i.progress.Start("Installing npm packages. This may take a few minutes")
	output, err := i.runner.Run(ctx, i.ThemeDir(), command)
	stop()

	if err != nil {
		return fmt.Errorf("%w: %s: %v\nOutput: %s", ErrExternalCommand, command, err, output)
	}

	i.report.DependenciesInstalled = true
	logger.Info("%s Dependencies installed in %s\n", logger.Success("✔"), i.ThemeDir())

	return nil
}

// archiveName turns a plugin name into a temporary archive file name inside the base directory
func archiveName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))

	name = strings.Trim(name, ".")
	if name == "" {
		name = "plugin"
	}

	return name + ".zip"
}
