package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"wp-init/internal/logger"
)

// RemoveTree deletes path and everything below it. Every entry is attempted even when
// others fail, all failures are returned joined. A missing path is not an error.
func RemoveTree(root string) error {
	var (
		order []string
		errs  []error
		stack = []string{root}
	)

	// collect in pre-order, so reversing the list removes children before parents
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Lstat(current)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		order = append(order, current)

		if !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(current)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, entry := range entries {
			stack = append(stack, filepath.Join(current, entry.Name()))
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		err := os.Remove(order[i])
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: removing %s: %w", ErrFilesystem, root, errors.Join(errs...))
	}

	return nil
}

// PruneDirectory removes every entry of dir except those named in keep and returns the
// names it removed. Failures do not stop the remaining entries from being removed.
func PruneDirectory(dir string, keep ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	var (
		removed []string
		errs    []error
	)

	for _, entry := range entries {
		if slices.Contains(keep, entry.Name()) {
			continue
		}

		target := filepath.Join(dir, entry.Name())
		logger.Debug("[DEBUG] Removing %s\n", target)

		if err := RemoveTree(target); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, entry.Name())
	}

	return removed, errors.Join(errs...)
}
