// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"runtime"
	"time"

	"github.com/wneessen/woosmap-geocode/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// MaxBodySize limits how much of a response body is read into memory
	MaxBodySize = 10 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) woosmap-geocode/%s (+https://github.com/wneessen/woosmap-geocode/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	// ErrEmptyEndpoint is returned when a request is attempted without a URL
	ErrEmptyEndpoint = errors.New("endpoint URL must not be empty")

	// redactedParams are query parameters that never end up in log output
	redactedParams = []string{"key", "private_key"}

	// credentialPattern matches credential query parameters embedded in free text
	credentialPattern = regexp.MustCompile(`([?&](?:key|private_key)=)[^&\s]*`)
)

// StatusError is returned when the server answers with a non-2xx status code
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client is a type wrapper for the Go stdlib http.Client
type Client struct {
	*http.Client
	logger  *logger.Logger
	timeout time.Duration
}

// New returns a new HTTP client using the DefaultTimeout
func New(logger *logger.Logger) *Client {
	return NewWithTimeout(logger, DefaultTimeout)
}

// NewWithTimeout returns a new HTTP client that applies timeout to every Fetch call
func NewWithTimeout(logger *logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: httpTransport,
	}
	return &Client{Client: httpClient, logger: logger, timeout: timeout}
}

// Fetch performs a HTTP GET request for the given URL and returns the raw response body
func (h *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	return h.FetchWithTimeout(ctx, endpoint, nil, h.timeout)
}

// FetchWithTimeout performs a HTTP GET request for the given URL, headers and timeout and returns
// the raw response body. Non-2xx responses are reported as *StatusError.
func (h *Client) FetchWithTimeout(ctx context.Context, endpoint string, headers map[string]string, timeout time.Duration) ([]byte, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}
	h.logger.Debug("performing HTTP request", slog.String("method", http.MethodGet),
		slog.String("url", redact(request.URL)))

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
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{URL: endpoint, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read HTTP response body: %w", err)
	}
	return body, nil
}

// redact masks credentials in the query of u for log output
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	query := u.Query()
	masked := false
	for _, param := range redactedParams {
		if query.Has(param) {
			query.Set(param, "REDACTED")
			masked = true
		}
	}
	if !masked {
		return u.String()
	}
	clone := *u
	clone.RawQuery = query.Encode()
	return clone.String()
}

// RedactCredentials masks credential query parameters of any URL contained in msg
func RedactCredentials(msg string) string {
	return credentialPattern.ReplaceAllString(msg, "${1}REDACTED")
}
