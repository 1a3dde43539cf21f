package theme

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wp-init/internal/logger"
)

//go:embed all:template
var bundled embed.FS

var (
	// ErrEmptyName is returned when a theme name is empty after trimming
	ErrEmptyName = errors.New("theme name is empty")

	// ErrInvalidName is returned for names that cannot be used as a single directory name
	ErrInvalidName = errors.New("theme name must not contain path separators")
)

// Metadata is written into the style.css header WordPress reads themes from
type Metadata struct {
	Name      string
	Author    string
	AuthorURI string
}

// Template returns the bundled theme template tree
func Template() fs.FS {
	sub, err := fs.Sub(bundled, "template")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}

	return sub
}

// SanitizeName trims name and replaces spaces with hyphens so it can be used as a directory name
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrInvalidName
	}

	return strings.ReplaceAll(name, " ", "-"), nil
}

// Stylesheet renders the style.css header for meta, author lines are only included when set
func Stylesheet(meta Metadata) string {
	var sb strings.Builder

	sb.WriteString("/*\n")
	fmt.Fprintf(&sb, "Theme Name: %s\n", meta.Name)
	if meta.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", meta.Author)
	}
	if meta.AuthorURI != "" {
		fmt.Fprintf(&sb, "Author URI: %s\n", meta.AuthorURI)
	}
	sb.WriteString("*/\n")

	return sb.String()
}

// Create materializes the theme in dir by copying the bundled template and writing style.css
func Create(dir string, meta Metadata) error {
	return CreateFrom(Template(), dir, meta)
}

// CreateFrom is Create with an explicit template tree
func CreateFrom(tmpl fs.FS, dir string, meta Metadata) error {
	if strings.TrimSpace(meta.Name) == "" {
		return ErrEmptyName
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create theme directory %s: %w", dir, err)
	}

	err := fs.WalkDir(tmpl, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		logger.Debug("[DEBUG] Copying template file %s to %s\n", path, target)
		return copyFile(tmpl, path, target)
	})
	if err != nil {
		return fmt.Errorf("failed to copy theme template: %w", err)
	}

	stylePath := filepath.Join(dir, "style.css")
	if err := os.WriteFile(stylePath, []byte(Stylesheet(meta)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", stylePath, err)
	}

	return nil
}

// copyFile copies src from the template tree to dst
func copyFile(tmpl fs.FS, src, dst string) (err error) {
	in, err := tmpl.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	return nil
}
