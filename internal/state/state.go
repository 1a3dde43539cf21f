package state

import (
	"encoding/json" // For JSON encoding and decoding of the report file
	"errors"
	"fmt"
	"io/fs"
	"os" // For file system operations like reading and writing files
	"time"

	"wp-init/internal/logger" // Custom logger package for logging errors and debug info
)

// PluginState records what happened to one selected plugin.
// Directory is the plugin's directory below wp-content/plugins when it was installed,
// Error holds the reason it was skipped otherwise.
type PluginState struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Installed bool   `json:"installed"`
	Directory string `json:"directory,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ThemeState records the generated theme
type ThemeState struct {
	Name      string `json:"name"`
	Author    string `json:"author,omitempty"`
	AuthorURI string `json:"author_uri,omitempty"`
	Path      string `json:"path"`
}

// Report is the persisted summary of one installation run
type Report struct {
	Stage                 string        `json:"stage"`
	CoreURL               string        `json:"core_url"`
	CoreRoot              string        `json:"core_root"`
	Theme                 ThemeState    `json:"theme"`
	RemovedThemes         []string      `json:"removed_themes,omitempty"`
	RemovedPlugins        []string      `json:"removed_plugins,omitempty"`
	Plugins               []PluginState `json:"plugins"`
	DependenciesInstalled bool          `json:"dependencies_installed"`
	Error                 string        `json:"error,omitempty"`
	StartedAt             time.Time     `json:"started_at"`
	FinishedAt            time.Time     `json:"finished_at"`
}

// InstalledPlugins returns the names of plugins that were installed
func (r *Report) InstalledPlugins() []string {
	var names []string
	for _, p := range r.Plugins {
		if p.Installed {
			names = append(names, p.Name)
		}
	}

	return names
}

// SkippedPlugins returns the plugins that could not be installed
func (r *Report) SkippedPlugins() []PluginState {
	var skipped []PluginState
	for _, p := range r.Plugins {
		if !p.Installed {
			skipped = append(skipped, p)
		}
	}

	return skipped
}

// LoadReport loads a previously saved report. A missing file returns nil without error.
func LoadReport(path string) (*Report, error) {
	file, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r Report
	if err := json.Unmarshal(file, &r); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}

	return &r, nil
}

// SaveReport writes the report to path as indented JSON
func SaveReport(path string, r *Report) error {
	// Marshal the Report struct into indented JSON bytes
	file, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// Log debug info showing the full JSON report being written (can be verbose)
	logger.Debug("[DEBUG] Writing report to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	return nil
}
