package config

// Core describes the WordPress core package the installation starts from.
// - Name: Label shown while downloading.
// - URL: Download location of the zip archive.
// - Root: Top-level directory the archive unpacks into (e.g. "wordpress").
// - Archive: File name of the temporary archive written to the base directory.
type Core struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Root    string `yaml:"root"`
	Archive string `yaml:"archive"`
}

// Plugin is one optional plugin the user may choose to install.
type Plugin struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Dependencies configures the optional dependency install in the new theme directory.
type Dependencies struct {
	Command string `yaml:"command"`
}

// Catalog is the top-level structure of the catalog YAML file.
// Plugins is a list rather than a map so questions are asked in a stable order.
type Catalog struct {
	Core         Core         `yaml:"core"`
	Plugins      []Plugin     `yaml:"plugins"`
	Dependencies Dependencies `yaml:"dependencies"`
}

// Answers holds everything collected by the interactive prompt.
// Plugins is the ordered Selection Set of plugin names.
type Answers struct {
	ThemeName     string
	ThemeAuthor   string
	AuthorURI     string
	RemovePlugins bool
	RemoveThemes  bool
	AutoInstall   bool
	Plugins       []string
}
