// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// maxRawBodySize limits raw downloads (provider tables) to 32 MiB
	maxRawBodySize = 32 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) therafinder/%s (+https://github.com/carmenbhuber/TheraFinder/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
	ErrUnexpectedStatus = errors.New("unexpected HTTP response status")
	ErrInvalidJSON      = errors.New("failed to decode JSON")
	ErrBodyTooLarge     = errors.New("response body exceeds size limit")
)

// Client is a type wrapper for the Go stdlib http.Client and the Logger
type Client struct {
	*http.Client
	logger *logger.Logger
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// GetWithTimeout performs a HTTP GET request for the given URL and timeout and JSON-unmarshals
// the response into target. Responses with a non-2xx status are not decoded and return an error
// wrapping ErrUnexpectedStatus together with the status code.
func (h *Client) GetWithTimeout(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string, timeout time.Duration) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := h.get(ctx, endpoint, query, headers)
	if err != nil {
		return 0, err
	}
	defer h.closeBody(response.Body)

	if err = checkStatus(response); err != nil {
		return response.StatusCode, err
	}

	// Unmarshal the JSON API response into target
	if err = json.NewDecoder(response.Body).Decode(target); err != nil {
		return response.StatusCode, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return response.StatusCode, nil
}

// GetRaw performs a HTTP GET request for the given URL and returns the undecoded response body.
func (h *Client) GetRaw(ctx context.Context, endpoint string, headers map[string]string, timeout time.Duration) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := h.get(ctx, endpoint, nil, headers)
	if err != nil {
		return nil, 0, err
	}
	defer h.closeBody(response.Body)

	if err = checkStatus(response); err != nil {
		return nil, response.StatusCode, err
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxRawBodySize+1))
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxRawBodySize {
		return nil, response.StatusCode, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxRawBodySize)
	}
	return body, response.StatusCode, nil
}

func (h *Client) get(ctx context.Context, endpoint string, query url.Values, headers map[string]string) (*http.Response, error) {
	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request
	response, err := h.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if response == nil {
		return nil, errors.New("nil response received")
	}
	return response, nil
}

func (h *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		h.logger.Error("failed to close HTTP request body", logger.Err(err))
	}
}

func checkStatus(response *http.Response) error {
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, response.StatusCode)
	}
	return nil
}
