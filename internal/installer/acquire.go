package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"wp-init/internal/logger"
)

// Signal is the outcome of acquiring one archive
type Signal string

const (
	// SignalUnpacked means the archive was downloaded and fully extracted
	SignalUnpacked Signal = "unpacked"

	// SignalInvalidSource means the archive could not be installed, either because the
	// URL was not usable or because the downloaded bytes were not a valid archive
	SignalInvalidSource Signal = "invalid-source"

	// SignalFailed means a filesystem error stopped the acquisition, callers must not continue
	SignalFailed Signal = "failed"
)

// Request describes one archive to acquire
type Request struct {
	Name            string // shown in progress output
	SourceURL       string
	DestinationRoot string
	ArchivePath     string // temporary archive file, removed once extraction ends
}

// Outcome is the result of Acquire, Extracted is only set for SignalUnpacked
type Outcome struct {
	Signal    Signal
	Extracted *ExtractResult
}

// ArchiveFetcher resolves a source URL to a stream of archive bytes
type ArchiveFetcher interface {
	Fetch(ctx context.Context, source string) (io.ReadCloser, error)
}

// Acquirer downloads and unpacks archives one at a time
type Acquirer struct {
	fetcher   ArchiveFetcher
	extractor *Extractor
	progress  *Spinner
}

// NewAcquirer combines a fetcher and extractor, progress may be nil
func NewAcquirer(fetcher ArchiveFetcher, extractor *Extractor, progress *Spinner) *Acquirer {
	if extractor == nil {
		extractor = NewExtractor()
	}

	return &Acquirer{fetcher: fetcher, extractor: extractor, progress: progress}
}

// Acquire fetches req.SourceURL into req.ArchivePath, extracts it below req.DestinationRoot
// and removes the temporary archive. The returned Outcome is never nil.
func (a *Acquirer) Acquire(ctx context.Context, req Request) (*Outcome, error) {
	stop := a.progress.Start(fmt.Sprintf("Downloading and unzipping: %s", req.Name))
	defer stop()

	body, err := a.fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		logger.Debug("[DEBUG] Fetching %s failed: %v\n", req.Name, err)
		if cerr := ctx.Err(); cerr != nil {
			return &Outcome{Signal: SignalFailed}, fmt.Errorf("acquiring %s: %w", req.Name, cerr)
		}
		return &Outcome{Signal: SignalInvalidSource}, err
	}

	err = saveArchive(body, req.ArchivePath)
	if err != nil {
		if rerr := removeArchive(req.ArchivePath); rerr != nil {
			return &Outcome{Signal: SignalFailed}, rerr
		}
		// an interrupted download is not a broken source
		if cerr := ctx.Err(); cerr != nil {
			return &Outcome{Signal: SignalFailed}, fmt.Errorf("acquiring %s: %w", req.Name, cerr)
		}
		if errors.Is(err, ErrFilesystem) {
			return &Outcome{Signal: SignalFailed}, err
		}
		return &Outcome{Signal: SignalInvalidSource}, err
	}

	res, err := a.extractor.Extract(req.ArchivePath, req.DestinationRoot)
	if err != nil {
		if rerr := removeArchive(req.ArchivePath); rerr != nil {
			return &Outcome{Signal: SignalFailed}, rerr
		}
		if errors.Is(err, ErrInvalidArchive) {
			return &Outcome{Signal: SignalInvalidSource}, err
		}
		return &Outcome{Signal: SignalFailed}, err
	}

	return &Outcome{Signal: SignalUnpacked, Extracted: res}, nil
}

// saveArchive writes the complete body to archivePath and closes both ends
func saveArchive(body io.ReadCloser, archivePath string) error {
	defer func() {
		if cerr := body.Close(); cerr != nil {
			logger.Debug("[DEBUG] Failed to close response body: %v\n", cerr)
		}
	}()

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	n, err := io.Copy(fsWriter{out}, body)
	cerr := out.Close()

	switch {
	case err != nil && errors.Is(err, ErrFilesystem):
		return err
	case err != nil:
		return fmt.Errorf("%w: reading response: %v", ErrDownloadFailed, err)
	case cerr != nil:
		return fmt.Errorf("%w: %v", ErrFilesystem, cerr)
	}

	logger.Debug("[DEBUG] Downloaded %d bytes to: %s\n", n, archivePath)

	return nil
}
