package installer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wp-init/internal/logger"
)

// Fetcher resolves archive URLs to response bodies.
// Plain serves http:// sources and Secure serves https:// sources.
type Fetcher struct {
	Plain  *http.Client
	Secure *http.Client
}

// NewFetcher creates a fetcher with separate clients for plain and TLS sources
func NewFetcher() *Fetcher {
	return &Fetcher{
		Plain: &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		Secure: &http.Client{Transport: func() *http.Transport {
			t := http.DefaultTransport.(*http.Transport).Clone()
			t.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			return t
		}()},
	}
}

// IsValidSource reports whether source starts with "http", ignoring case
func IsValidSource(source string) bool {
	return len(source) >= 4 && strings.EqualFold(source[:4], "http")
}

func isSecureSource(source string) bool {
	return len(source) >= 5 && strings.EqualFold(source[:5], "https")
}

// Fetch requests source and returns the response body positioned at the start of the archive.
// Callers must close the returned reader.
func (f *Fetcher) Fetch(ctx context.Context, source string) (io.ReadCloser, error) {
	if !IsValidSource(source) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}

	client := f.Plain
	if isSecureSource(source) {
		client = f.Secure
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	logger.Debug("[DEBUG] Fetching archive from URL: %s\n", source)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrDownloadFailed, source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: HTTP status %d", ErrDownloadFailed, source, resp.StatusCode)
	}

	return resp.Body, nil
}
