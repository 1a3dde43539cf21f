package installer

import "errors"

var (
	// ErrInvalidSource means the archive URL does not look like an HTTP(S) address
	ErrInvalidSource = errors.New("invalid archive source")

	// ErrDownloadFailed means the request failed or answered with a non 2xx status
	ErrDownloadFailed = errors.New("download failed")

	// ErrInvalidArchive means the downloaded bytes are not a usable zip archive
	ErrInvalidArchive = errors.New("invalid archive")

	// ErrFilesystem wraps directory creation, file write and unlink failures
	ErrFilesystem = errors.New("filesystem error")

	// ErrExternalCommand means the dependency install command failed
	ErrExternalCommand = errors.New("external command failed")

	// ErrCorePackage means the core package could not be installed, which ends the run
	ErrCorePackage = errors.New("core package could not be installed")
)
