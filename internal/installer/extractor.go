package installer

import (
	"archive/zip" // For reading .zip archives
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"wp-init/internal/logger"
)

// ExtractResult summarizes one extracted archive
type ExtractResult struct {
	Directories int      // directories created on disk
	Files       int      // file entries written
	Bytes       int64    // bytes written across all files
	TopLevel    []string // first path segment of every entry, in container order
}

// Extractor unpacks zip archives into a destination root
type Extractor struct {
	// trace receives the handle count after every change, used by tests
	trace func(handles int)
}

// NewExtractor creates a zip extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// handleCounter tracks the open container and output streams of a single Extract call.
// The container holds one unit for as long as it is open, so the count can only reach
// zero once, when the container closes after the last output stream.
type handleCounter struct {
	count int
	trace func(int)
}

func (h *handleCounter) acquire() {
	h.count++
	h.notify()
}

func (h *handleCounter) release() error {
	h.count--
	h.notify()
	if h.count < 0 {
		return fmt.Errorf("archive handle count is negative (%d)", h.count)
	}

	return nil
}

func (h *handleCounter) idle() bool {
	return h.count == 0
}

func (h *handleCounter) notify() {
	if h.trace != nil {
		h.trace(h.count)
	}
}

// Extract unpacks the zip archive at archivePath below dest, one entry at a time in
// container order, and deletes archivePath afterwards. When the archive cannot be
// opened it is deleted and ErrInvalidArchive returned.
func (e *Extractor) Extract(archivePath, dest string) (*ExtractResult, error) {
	handles := &handleCounter{trace: e.trace}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		// insecure path errors still come with an open reader
		if r != nil {
			r.Close()
		}
		if rerr := removeArchive(archivePath); rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, archivePath, err)
	}
	handles.acquire()

	logger.Debug("[DEBUG] Unpacking %s (%d entries) to %s\n", archivePath, len(r.File), dest)

	res, err := e.extractEntries(r, dest, handles)

	cerr := r.Close()
	if rerr := handles.release(); rerr != nil && err == nil {
		err = rerr
	}
	if cerr != nil && err == nil {
		err = fmt.Errorf("%w: closing %s: %v", ErrInvalidArchive, archivePath, cerr)
	}
	if err == nil && !handles.idle() {
		err = fmt.Errorf("archive %s finished with %d open handles", archivePath, handles.count)
	}

	if rerr := removeArchive(archivePath); rerr != nil {
		return nil, rerr
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("[DEBUG] Unpacked %d files (%d bytes) from %s\n", res.Files, res.Bytes, archivePath)

	return res, nil
}

func (e *Extractor) extractEntries(r *zip.ReadCloser, dest string, handles *handleCounter) (*ExtractResult, error) {
	res := &ExtractResult{}
	seen := make(map[string]bool)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	for _, f := range r.File {
		name, err := entryPath(f.Name)
		if err != nil {
			return nil, err
		}
		// "./" is the destination root itself
		if name == "." {
			continue
		}

		top := strings.SplitN(name, "/", 2)[0]
		if !seen[top] {
			seen[top] = true
			res.TopLevel = append(res.TopLevel, top)
		}

		if strings.HasSuffix(f.Name, "/") {
			created, err := ensureDir(dest, name)
			if err != nil {
				return nil, err
			}
			res.Directories += created
			continue
		}

		created, err := ensureDir(dest, path.Dir(name))
		if err != nil {
			return nil, err
		}
		res.Directories += created

		n, err := writeEntry(f, filepath.Join(dest, filepath.FromSlash(name)), handles)
		if err != nil {
			return nil, err
		}
		res.Files++
		res.Bytes += n
	}

	return res, nil
}

// entryPath cleans a zip entry name and rejects names that would land outside the destination
func entryPath(name string) (string, error) {
	if name == "" || path.IsAbs(name) || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: unsupported entry name %q", ErrInvalidArchive, name)
	}

	clean := path.Clean(name)
	if clean == "." && strings.HasSuffix(name, "/") {
		return clean, nil
	}
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: entry %q escapes the destination", ErrInvalidArchive, name)
	}

	return clean, nil
}

// ensureDir creates every missing directory of rel below root, walking up from the
// deepest segment until it finds one that already exists
func ensureDir(root, rel string) (int, error) {
	var missing []string

	for dir := rel; dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		full := filepath.Join(root, filepath.FromSlash(dir))
		_, err := os.Stat(full)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %v", ErrFilesystem, err)
		}
		missing = append(missing, full)
	}

	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], 0755)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%w: %v", ErrFilesystem, err)
		}
	}

	return len(missing), nil
}

// fsWriter tags write errors so they can be told apart from archive read errors
type fsWriter struct {
	w io.Writer
}

func (f fsWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	return n, err
}

// writeEntry streams one file entry to target, holding an output handle until the file is closed
func writeEntry(f *zip.File, target string, handles *handleCounter) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	handles.acquire()

	n, err := io.Copy(fsWriter{out}, rc)

	cerr := out.Close()
	if rerr := handles.release(); rerr != nil {
		return n, rerr
	}

	switch {
	case err != nil && errors.Is(err, ErrFilesystem):
		return n, err
	case err != nil:
		return n, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, f.Name, err)
	case cerr != nil:
		return n, fmt.Errorf("%w: %v", ErrFilesystem, cerr)
	}

	return n, nil
}

// removeArchive deletes a temporary archive, a missing file is not an error
func removeArchive(archivePath string) error {
	err := os.Remove(archivePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %v", ErrFilesystem, archivePath, err)
	}

	return nil
}
