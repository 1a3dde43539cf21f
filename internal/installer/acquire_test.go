package installer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type failingFetcher struct {
	err error
}

func (f failingFetcher) Fetch(context.Context, string) (io.ReadCloser, error) {
	return nil, f.err
}

// brokenBody returns some bytes and then fails like a reset connection
type brokenBody struct {
	sent bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.sent {
		return 0, errors.New("connection reset by peer")
	}
	b.sent = true
	return copy(p, "PK"), nil
}

func (b *brokenBody) Close() error { return nil }

type bodyFetcher struct {
	body io.ReadCloser
}

func (f bodyFetcher) Fetch(context.Context, string) (io.ReadCloser, error) {
	return f.body, nil
}

var _ = Describe("Acquirer", func() {
	var (
		server   *httptest.Server
		dir      string
		dest     string
		spinner  *Spinner
		output   *bytes.Buffer
		acquirer *Acquirer
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		dest = filepath.Join(dir, "plugins")
		output = &bytes.Buffer{}
		spinner = NewSpinner(output, true)

		zipped := buildZip(
			zipEntry{Name: "plugin-a/"},
			zipEntry{Name: "plugin-a/plugin-a.php", Body: "<?php"},
		)

		mux := http.NewServeMux()
		mux.HandleFunc("/a.zip", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(zipped)
		})
		mux.HandleFunc("/html.zip", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not a zip</html>"))
		})
		server = httptest.NewServer(mux)

		acquirer = NewAcquirer(NewFetcher(), NewExtractor(), spinner)
	})

	AfterEach(func() {
		server.Close()
		Expect(spinner.Active()).To(BeZero())
	})

	request := func(url string) Request {
		return Request{
			Name:            "Plugin A",
			SourceURL:       url,
			DestinationRoot: dest,
			ArchivePath:     filepath.Join(dir, "Plugin-A.zip"),
		}
	}

	It("Should download, unpack and clean up valid archives", func() {
		outcome, err := acquirer.Acquire(ctx, request(server.URL+"/a.zip"))
		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.Signal).To(Equal(SignalUnpacked))
		Expect(outcome.Extracted.Files).To(Equal(1))
		Expect(outcome.Extracted.TopLevel).To(Equal([]string{"plugin-a"}))

		Expect(os.ReadFile(filepath.Join(dest, "plugin-a", "plugin-a.php"))).To(Equal([]byte("<?php")))
		Expect(filepath.Join(dir, "Plugin-A.zip")).ToNot(BeAnExistingFile())
	})

	It("Should signal invalid sources without creating the temporary archive", func() {
		outcome, err := acquirer.Acquire(ctx, request("ftp://example.net/a.zip"))
		Expect(err).To(MatchError(ErrInvalidSource))
		Expect(outcome.Signal).To(Equal(SignalInvalidSource))
		Expect(outcome.Extracted).To(BeNil())
		Expect(filepath.Join(dir, "Plugin-A.zip")).ToNot(BeAnExistingFile())
		Expect(dest).ToNot(BeAnExistingFile())
	})

	It("Should signal invalid sources for error responses", func() {
		outcome, err := acquirer.Acquire(ctx, request(server.URL+"/missing.zip"))
		Expect(err).To(MatchError(ErrDownloadFailed))
		Expect(outcome.Signal).To(Equal(SignalInvalidSource))
		Expect(filepath.Join(dir, "Plugin-A.zip")).ToNot(BeAnExistingFile())
	})

	It("Should signal invalid sources for bodies that are not archives", func() {
		outcome, err := acquirer.Acquire(ctx, request(server.URL+"/html.zip"))
		Expect(err).To(MatchError(ErrInvalidArchive))
		Expect(outcome.Signal).To(Equal(SignalInvalidSource))
		Expect(filepath.Join(dir, "Plugin-A.zip")).ToNot(BeAnExistingFile())
	})

	It("Should signal invalid sources for interrupted downloads", func() {
		acquirer = NewAcquirer(bodyFetcher{body: &brokenBody{}}, nil, spinner)

		outcome, err := acquirer.Acquire(ctx, request("http://example.net/a.zip"))
		Expect(err).To(MatchError(ErrDownloadFailed))
		Expect(outcome.Signal).To(Equal(SignalInvalidSource))
		Expect(filepath.Join(dir, "Plugin-A.zip")).ToNot(BeAnExistingFile())
	})

	It("Should fail on filesystem errors", func() {
		req := request(server.URL + "/a.zip")
		req.ArchivePath = filepath.Join(dir, "missing", "Plugin-A.zip")

		outcome, err := acquirer.Acquire(ctx, req)
		Expect(err).To(MatchError(ErrFilesystem))
		Expect(outcome.Signal).To(Equal(SignalFailed))
	})

	It("Should stop the spinner on early errors", func() {
		acquirer = NewAcquirer(failingFetcher{err: ErrInvalidSource}, nil, spinner)

		outcome, err := acquirer.Acquire(ctx, request("nope"))
		Expect(err).To(MatchError(ErrInvalidSource))
		Expect(outcome.Signal).To(Equal(SignalInvalidSource))
		Expect(spinner.Active()).To(BeZero())
	})

	It("Should work without progress output", func() {
		acquirer = NewAcquirer(NewFetcher(), nil, nil)

		outcome, err := acquirer.Acquire(ctx, request(server.URL+"/a.zip"))
		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.Signal).To(Equal(SignalUnpacked))
	})
})

var _ = Describe("Spinner", func() {
	It("Should stop its goroutine and tolerate repeated stops", func() {
		s := NewSpinner(&bytes.Buffer{}, true)

		stop := s.Start("working")
		Expect(s.Active()).To(Equal(1))

		stop()
		stop()
		Expect(s.Active()).To(BeZero())
	})

	It("Should do nothing when disabled", func() {
		out := &bytes.Buffer{}
		s := NewSpinner(out, false)

		s.Start("working")()
		Expect(s.Active()).To(BeZero())
		Expect(out.Len()).To(BeZero())
	})
})
