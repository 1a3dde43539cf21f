package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDependencyCommand is used when the catalog does not name one.
const DefaultDependencyCommand = "npm install -y"

//go:embed catalog.yaml
var defaultCatalog []byte

// LoadCatalog reads the catalog YAML at path, or the embedded default catalog
// when path is empty. The returned catalog is validated and has defaults applied.
func LoadCatalog(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}

	return ParseCatalog(raw)
}

// ParseCatalog unmarshals and validates raw catalog YAML
func ParseCatalog(raw []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	if cat.Core.Name == "" {
		cat.Core.Name = "WordPress"
	}
	if cat.Core.Archive == "" {
		cat.Core.Archive = "wp.zip"
	}
	if cat.Dependencies.Command == "" {
		cat.Dependencies.Command = DefaultDependencyCommand
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}

	return &cat, nil
}

// Validate checks the catalog for the fields the installer relies on
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.Core.URL) == "" {
		return fmt.Errorf("catalog: core url is required")
	}
	if strings.TrimSpace(c.Core.Root) == "" {
		return fmt.Errorf("catalog: core root is required")
	}
	if strings.ContainsAny(c.Core.Root, `/\`) || c.Core.Root == "." || c.Core.Root == ".." {
		return fmt.Errorf("catalog: core root %q must be a single directory name", c.Core.Root)
	}

	seen := make(map[string]bool)
	for i, p := range c.Plugins {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("catalog: plugin %d has no name", i)
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return fmt.Errorf("catalog: plugin name %q must not contain path separators", name)
		}
		if seen[name] {
			return fmt.Errorf("catalog: duplicate plugin %q", name)
		}
		seen[name] = true
	}

	return nil
}

// Plugin looks up a plugin by name
func (c *Catalog) Plugin(name string) (Plugin, bool) {
	for _, p := range c.Plugins {
		if p.Name == name {
			return p, true
		}
	}

	return Plugin{}, false
}

// PluginNames returns the plugin names in catalog order
func (c *Catalog) PluginNames() []string {
	names := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		names = append(names, p.Name)
	}

	return names
}
