// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package source fetches the raw provider table from a local file or an HTTP(S) URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/http"
)

// FetchTimeout limits a single download of the provider table.
const FetchTimeout = time.Second * 30

// ErrNoSource is returned if neither a file nor a URL was configured.
var ErrNoSource = errors.New("no data source configured")

// Source provides the raw provider table.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// New returns a File source if path is set and a URL source otherwise.
func New(client *http.Client, path, url string) (Source, error) {
	switch {
	case path != "":
		return NewFile(path), nil
	case url != "":
		return NewURL(client, url), nil
	default:
		return nil, ErrNoSource
	}
}

// File reads the provider table from the local filesystem.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return "file " + f.path
}

func (f *File) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read provider file %q: %w", f.path, err)
	}
	return string(data), nil
}

// URL downloads the provider table. Caches along the way are bypassed so an updated table is
// picked up on the next fetch.
type URL struct {
	http *http.Client
	url  string
}

func NewURL(client *http.Client, url string) *URL {
	return &URL{http: client, url: url}
}

func (u *URL) Name() string {
	return "url " + u.url
}

// Fetch downloads the table. A non-successful response returns an error wrapping
// http.ErrUnexpectedStatus.
func (u *URL) Fetch(ctx context.Context) (string, error) {
	headers := map[string]string{
		"Cache-Control": "no-cache",
		"Pragma":        "no-cache",
	}
	data, _, err := u.http.GetRaw(ctx, u.url, headers, FetchTimeout)
	if err != nil {
		return "", fmt.Errorf("failed to download provider table from %q: %w", u.url, err)
	}
	return string(data), nil
}
