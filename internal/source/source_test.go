// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/http"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/testhelper"
)

const (
	providerFile = "../../testdata/providers.csv"
	providerURL  = "https://example.com/providers.csv"
)

func TestNew(t *testing.T) {
	client := http.New(testLogger())
	t.Run("a file path selects the file source", func(t *testing.T) {
		src, err := New(client, providerFile, providerURL)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := src.(*File); !ok {
			t.Errorf("expected file source, got %T", src)
		}
		if src.Name() != "file "+providerFile {
			t.Errorf("unexpected source name %q", src.Name())
		}
	})
	t.Run("a URL selects the URL source", func(t *testing.T) {
		src, err := New(client, "", providerURL)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := src.(*URL); !ok {
			t.Errorf("expected URL source, got %T", src)
		}
		if src.Name() != "url "+providerURL {
			t.Errorf("unexpected source name %q", src.Name())
		}
	})
	t.Run("no source configured fails", func(t *testing.T) {
		_, err := New(client, "", "")
		if !errors.Is(err, ErrNoSource) {
			t.Errorf("expected error to be %s, got %v", ErrNoSource, err)
		}
	})
}

func TestFile_Fetch(t *testing.T) {
	t.Run("reading the provider file succeeds", func(t *testing.T) {
		data, err := NewFile(providerFile).Fetch(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(data, "Therapiestelle,") {
			t.Errorf("unexpected file content: %q", data)
		}
	})
	t.Run("a missing file fails", func(t *testing.T) {
		_, err := NewFile(filepath.Join(t.TempDir(), "missing.csv")).Fetch(t.Context())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected error to wrap %s, got %s", os.ErrNotExist, err)
		}
	})
	t.Run("a cancelled context fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := NewFile(providerFile).Fetch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected error to be %s, got %v", context.Canceled, err)
		}
	})
}

func TestURL_Fetch(t *testing.T) {
	t.Run("downloading the provider table succeeds", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			if req.URL.String() != providerURL {
				t.Errorf("expected request to %s, got %s", providerURL, req.URL)
			}
			if req.Header.Get("Cache-Control") != "no-cache" {
				t.Errorf("expected Cache-Control no-cache, got %q", req.Header.Get("Cache-Control"))
			}
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewBufferString("PLZ,Ort\n8001,Zürich\n")),
				Header:     make(stdhttp.Header),
			}, nil
		}
		data, err := NewURL(testClient(rtFn), providerURL).Fetch(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		if data != "PLZ,Ort\n8001,Zürich\n" {
			t.Errorf("unexpected download content: %q", data)
		}
	})
	t.Run("a non-successful response is a distinguishable failure", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 404,
				Body:       io.NopCloser(bytes.NewBufferString("not found")),
				Header:     make(stdhttp.Header),
			}, nil
		}
		_, err := NewURL(testClient(rtFn), providerURL).Fetch(t.Context())
		if !errors.Is(err, http.ErrUnexpectedStatus) {
			t.Errorf("expected error to wrap %s, got %v", http.ErrUnexpectedStatus, err)
		}
	})
	t.Run("a transport failure fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}
		if _, err := NewURL(testClient(rtFn), providerURL).Fetch(t.Context()); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestWatch(t *testing.T) {
	t.Run("writes trigger a single debounced change", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.csv")
		if err := os.WriteFile(path, []byte("PLZ\n8001\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		var calls atomic.Int32
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- Watch(ctx, path, 200*time.Millisecond, testLogger(), func() { calls.Add(1) })
		}()

		time.Sleep(100 * time.Millisecond)
		for _, content := range []string{"PLZ\n8002\n", "PLZ\n8003\n", "PLZ\n8004\n"} {
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}
		}
		time.Sleep(600 * time.Millisecond)
		if got := calls.Load(); got != 1 {
			t.Errorf("expected exactly one change notification, got %d", got)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected watch to end without error, got %s", err)
			}
		case <-time.After(time.Second):
			t.Fatal("watch did not return after cancellation")
		}
	})
	t.Run("other files in the directory are ignored", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.csv")

		var calls atomic.Int32
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() {
			_ = Watch(ctx, path, 50*time.Millisecond, testLogger(), func() { calls.Add(1) })
		}()

		time.Sleep(100 * time.Millisecond)
		if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(300 * time.Millisecond)
		if got := calls.Load(); got != 0 {
			t.Errorf("expected no change notification, got %d", got)
		}
	})
	t.Run("watching a missing directory fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "providers.csv")
		if err := Watch(t.Context(), path, DefaultDebounce, testLogger(), func() {}); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func testClient(fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *http.Client {
	client := http.New(testLogger())
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	return client
}

func testLogger() *logger.Logger {
	return logger.New(slog.LevelDebug)
}
