package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/content/home.md":
			w.Write([]byte("---\ntitle: Home\n---\nWelcome."))
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)

	t.Run("success", func(t *testing.T) {
		data, err := fetcher.Fetch(context.Background(), "content/home.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) == 0 {
			t.Error("expected document bytes")
		}
	})

	t.Run("not found is an error", func(t *testing.T) {
		if _, err := fetcher.Fetch(context.Background(), "content/missing.md"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("server error is an error", func(t *testing.T) {
		if _, err := fetcher.Fetch(context.Background(), "broken"); err == nil {
			t.Error("expected error for 500")
		}
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := fetcher.Fetch(ctx, "content/home.md"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestDirFetcher(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "content"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "content", "home.md"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	fetcher := NewDirFetcher(root)

	t.Run("reads files under the root", func(t *testing.T) {
		data, err := fetcher.Fetch(context.Background(), "content/home.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("expected file contents, got %q", data)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := fetcher.Fetch(context.Background(), "content/missing.md"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("traversal cannot escape the root", func(t *testing.T) {
		data, err := fetcher.Fetch(context.Background(), "../../etc/passwd")
		if err == nil && len(data) > 0 {
			t.Error("expected traversal to fail or stay inside the root")
		}
	})
}

func TestLoadFrom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/doc.md" {
			w.Write([]byte("---\ntitle: Doc\n---\nbody"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	parser := identityParser()
	fetcher := NewHTTPFetcher(srv.URL, 5*time.Second)

	doc, err := parser.LoadFrom(context.Background(), fetcher, "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Title() != "Doc" {
		t.Errorf("expected parsed metadata, got %v", doc.Metadata)
	}

	if _, err := parser.LoadFrom(context.Background(), fetcher, "missing.md"); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestNewFetcherSelectsBackend(t *testing.T) {
	if _, ok := NewFetcher("https://example.com/content", time.Second).(*HTTPFetcher); !ok {
		t.Error("expected HTTP fetcher for https base")
	}
	if _, ok := NewFetcher("./content", time.Second).(*DirFetcher); !ok {
		t.Error("expected directory fetcher for local base")
	}
}
