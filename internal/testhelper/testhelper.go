// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is a live endpoint used by integration tests only.
const TestOnlineAPIURL = "https://nominatim.openstreetmap.org/status?format=json"

// MockRoundTripper lets tests answer HTTP requests without network access.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless PERFORM_INTEGRATION_TESTS is set.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TESTS"); val == "" {
		t.Skip("skipping integration tests")
	}
}
