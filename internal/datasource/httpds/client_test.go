package httpds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func fastClient(transport http.RoundTripper, retries int) *Client {
	return NewClient(Config{
		Transport:      transport,
		MaxRetries:     retries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := fastClient(nil, 3)
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := fastClient(nil, 1)
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
}

func TestGetDoesNotRetryFinalStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := fastClient(nil, 3)
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1 (4xx must not retry)", got)
	}
}

func TestEnsureFileDownloadsWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dataset-bytes"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "exceptions.db")
	c := fastClient(nil, 0)
	if err := c.EnsureFile(context.Background(), srv.URL, path); err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != "dataset-bytes" {
		t.Fatalf("content = %q", got)
	}
}

func TestEnsureFileSkipsExisting(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "exceptions.db")
	if err := os.WriteFile(path, []byte("already-here"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	c := fastClient(nil, 0)
	if err := c.EnsureFile(context.Background(), srv.URL, path); err != nil {
		t.Fatalf("EnsureFile: %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("server was called for an existing file")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "already-here" {
		t.Fatalf("existing file was overwritten: %q", got)
	}
}

func TestEnsureFileMissingWithoutURL(t *testing.T) {
	c := fastClient(nil, 0)
	err := c.EnsureFile(context.Background(), "", filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatalf("expected error when file missing and url empty")
	}
}
