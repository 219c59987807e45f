package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher retrieves a content document by its site-relative path
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPFetcher fetches content documents from a remote base URL
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher rooted at baseURL
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves path relative to the base URL. A non-success HTTP status
// is reported as an error, never as content.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(path), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// URL returns the absolute URL for a content path
func (f *HTTPFetcher) URL(path string) string {
	return f.baseURL + "/" + strings.TrimLeft(path, "/")
}

// DirFetcher serves content documents from a local directory root
type DirFetcher struct {
	root string
}

// NewDirFetcher creates a fetcher rooted at a local directory
func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{root: root}
}

// Fetch reads path relative to the content root. Paths escaping the root are
// rejected.
func (f *DirFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	full, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Resolve maps a content path to an absolute file path inside the root
func (f *DirFetcher) Resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	full := filepath.Join(f.root, clean)

	rel, err := filepath.Rel(f.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q outside content root", path)
	}
	return full, nil
}

// IsRemote reports whether a content base refers to an HTTP location rather
// than a local directory.
func IsRemote(base string) bool {
	u, err := url.Parse(base)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// NewFetcher builds the fetcher matching the content base: an HTTP fetcher
// for http(s) URLs, a directory fetcher otherwise.
func NewFetcher(base string, timeout time.Duration) Fetcher {
	if IsRemote(base) {
		return NewHTTPFetcher(base, timeout)
	}
	return NewDirFetcher(base)
}
