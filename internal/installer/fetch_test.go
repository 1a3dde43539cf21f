package installer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

var _ = Describe("Fetcher", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Describe("IsValidSource", func() {
		DescribeTable("classifying sources",
			func(source string, valid bool) {
				Expect(IsValidSource(source)).To(Equal(valid))
			},
			Entry("plain http", "http://example.net/a.zip", true),
			Entry("https", "https://example.net/a.zip", true),
			Entry("upper case", "HTTP://example.net/a.zip", true),
			Entry("mixed case https", "HtTpS://example.net/a.zip", true),
			Entry("ftp", "ftp://example.net/a.zip", false),
			Entry("file", "file:///tmp/a.zip", false),
			Entry("relative path", "./a.zip", false),
			Entry("leading whitespace", " http://example.net/a.zip", false),
			Entry("too short", "htt", false),
			Entry("empty", "", false),
		)
	})

	Describe("Fetch", func() {
		It("Should reject invalid sources without making requests", func() {
			called := false
			f := &Fetcher{Plain: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				called = true
				return nil, errors.New("unexpected")
			})}}

			body, err := f.Fetch(ctx, "ftp://example.net/a.zip")
			Expect(err).To(MatchError(ErrInvalidSource))
			Expect(body).To(BeNil())
			Expect(called).To(BeFalse())
		})

		It("Should return the body of plain http sources", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("archive bytes"))
			}))

			body, err := NewFetcher().Fetch(ctx, server.URL+"/a.zip")
			Expect(err).ToNot(HaveOccurred())
			defer body.Close()

			Expect(io.ReadAll(body)).To(Equal([]byte("archive bytes")))
		})

		It("Should use the secure client for https sources", func() {
			server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("secure bytes"))
			}))

			f := &Fetcher{
				Plain: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
					return nil, errors.New("plain client used for https")
				})},
				Secure: server.Client(),
			}

			body, err := f.Fetch(ctx, server.URL+"/a.zip")
			Expect(err).ToNot(HaveOccurred())
			defer body.Close()

			Expect(io.ReadAll(body)).To(Equal([]byte("secure bytes")))
		})

		It("Should fail for non 2xx responses", func() {
			server = httptest.NewServer(http.NotFoundHandler())

			_, err := NewFetcher().Fetch(ctx, server.URL+"/missing.zip")
			Expect(err).To(MatchError(ErrDownloadFailed))
			Expect(err).To(MatchError(ContainSubstring("HTTP status 404")))
		})

		It("Should fail when the server cannot be reached", func() {
			server = httptest.NewServer(http.NotFoundHandler())
			url := server.URL
			server.Close()
			server = nil

			_, err := NewFetcher().Fetch(ctx, url+"/a.zip")
			Expect(err).To(MatchError(ErrDownloadFailed))
		})

		It("Should fail for http prefixed sources with unknown schemes", func() {
			_, err := NewFetcher().Fetch(ctx, "httpx://example.net/a.zip")
			Expect(err).To(MatchError(ErrDownloadFailed))
		})
	})
})
