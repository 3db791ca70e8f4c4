// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the test suites of this module.
package testhelper

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
)

// TestOnlineAPIURL is a reachable endpoint used by integration tests that need a real network round trip
const TestOnlineAPIURL = "https://api.woosmap.com/address/geocode/json"

// MockRoundTripper is a http.RoundTripper that hands every request to Fn
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// FileResponder returns a round trip function that answers every request with the content of file.
// The last seen request is stored in lastReq if it is non-nil.
func FileResponder(t *testing.T, file string, status int, lastReq **http.Request) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		if lastReq != nil {
			*lastReq = req
		}
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}

// BodyResponder returns a round trip function that answers every request with body and status
func BodyResponder(body string, status int, lastReq **http.Request) func(*http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		if lastReq != nil {
			*lastReq = req
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	}
}

// PerformIntegrationTests skips the calling test unless PERFORM_INTEGRATION_TEST is set to true
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TEST"); !strings.EqualFold(val, "true") {
		t.Skip("skipping integration test")
	}
}
