// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/wneessen/woosmap-geocode/internal/geocode"
	"github.com/wneessen/woosmap-geocode/internal/testhelper"
)

const parisFile = "../../testdata/woosmap_paris.json"

// runCLI executes the root command with args against a mocked Woosmap API
func runCLI(t *testing.T, rtFn func(*stdhttp.Request) (*stdhttp.Response, error), args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WOOSMAP_LOCALE", "en")
	t.Setenv("WOOSMAP_API_PUBLIC_KEY", "woos-test")

	stdout, stderr := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
	a := newApp(stdout, stderr)
	a.transport = testhelper.MockRoundTripper{Fn: rtFn}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := a.execute(t.Context(), root)
	if err != nil {
		a.logFailure(err)
	}
	return stdout.String(), stderr.String(), err
}

func TestGeocodeCmd(t *testing.T) {
	t.Run("geocoding renders the text template", func(t *testing.T) {
		var req *stdhttp.Request
		stdout, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, &req),
			"geocode", "10", "Rue", "de", "Rivoli", "--limit", "1", "--components", "country:FR")
		if err != nil {
			t.Fatalf("failed to run command: %s", err)
		}
		want := "10 Rue de Rivoli, 75004 Paris, France (48.855720, 2.359108)\n"
		if stdout != want {
			t.Errorf("expected %q, got %q", want, stdout)
		}
		wantQuery := "address=10+Rue+de+Rivoli&components=country%3AFR&language=en&key=woos-test"
		if req.URL.RawQuery != wantQuery {
			t.Errorf("expected query %q, got %q", wantQuery, req.URL.RawQuery)
		}
	})
	t.Run("geocoding renders JSON", func(t *testing.T) {
		stdout, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil),
			"geocode", "Paris", "--format", "json", "--limit", "2")
		if err != nil {
			t.Fatalf("failed to run command: %s", err)
		}
		if strings.Count(stdout, `"provider": "woosmap"`) != 2 {
			t.Errorf("expected two addresses in JSON output, got: %s", stdout)
		}
	})
	t.Run("metrics are written to stderr", func(t *testing.T) {
		_, stderr, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil),
			"geocode", "Paris", "--metrics")
		if err != nil {
			t.Fatalf("failed to run command: %s", err)
		}
		want := `woosmap_geocode_requests_total{method="forward",outcome="success"} 1`
		if !strings.Contains(stderr, want) {
			t.Errorf("expected metrics output to contain %q, got: %s", want, stderr)
		}
	})
	t.Run("metrics are written for failed requests", func(t *testing.T) {
		_, stderr, err := runCLI(t, testhelper.BodyResponder("{}", stdhttp.StatusTooManyRequests, nil),
			"geocode", "Paris", "--metrics")
		if !errors.Is(err, geocode.ErrQuotaExceeded) {
			t.Fatalf("expected error to be %s, got %v", geocode.ErrQuotaExceeded, err)
		}
		want := `woosmap_geocode_requests_total{method="forward",outcome="error"} 1`
		if !strings.Contains(stderr, want) {
			t.Errorf("expected metrics output to contain %q, got: %s", want, stderr)
		}
	})
	t.Run("failure log masks the API key", func(t *testing.T) {
		_, stderr, err := runCLI(t, testhelper.FileResponder(t, "../../testdata/woosmap_denied_credentials.json", 200, nil),
			"geocode", "Paris")
		if !errors.Is(err, geocode.ErrInvalidCredentials) {
			t.Fatalf("expected error to be %s, got %v", geocode.ErrInvalidCredentials, err)
		}
		if !strings.Contains(err.Error(), "key=woos-test") {
			t.Errorf("expected returned error to keep the request URL, got: %s", err)
		}
		if strings.Contains(stderr, "woos-test") {
			t.Errorf("expected API key to be masked in log output, got: %s", stderr)
		}
		if !strings.Contains(stderr, "key=REDACTED") {
			t.Errorf("expected masked key in log output, got: %s", stderr)
		}
	})
	t.Run("IP input fails", func(t *testing.T) {
		_, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil), "geocode", "8.8.8.8")
		if !errors.Is(err, geocode.ErrUnsupportedOperation) {
			t.Errorf("expected error to be %s, got %v", geocode.ErrUnsupportedOperation, err)
		}
	})
	t.Run("invalid component filter fails", func(t *testing.T) {
		_, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil),
			"geocode", "Paris", "--components", "country")
		if err == nil {
			t.Error("expected command to fail")
		}
	})
	t.Run("invalid limit fails", func(t *testing.T) {
		_, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil),
			"geocode", "Paris", "--limit", "0")
		if err == nil {
			t.Error("expected command to fail")
		}
	})
}

func TestReverseCmd(t *testing.T) {
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		var req *stdhttp.Request
		stdout, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, &req),
			"reverse", "48.8566", "2.3522", "--cc-format", "alpha3", "--template", "{{.CountryCode}}")
		if err != nil {
			t.Fatalf("failed to run command: %s", err)
		}
		if stdout != "FR\nFR\nFR\n" {
			t.Errorf("unexpected output %q", stdout)
		}
		if !strings.HasPrefix(req.URL.RawQuery, "latlng=48.856600,2.352200&cc_format=alpha3") {
			t.Errorf("unexpected query %q", req.URL.RawQuery)
		}
	})
	t.Run("empty results are not an error", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, testhelper.BodyResponder(`{"status":"ZERO_RESULTS","results":[]}`, 200, nil),
			"reverse", "0", "0")
		if err != nil {
			t.Fatalf("failed to run command: %s", err)
		}
		if stdout != "" {
			t.Errorf("expected no output, got %q", stdout)
		}
		if !strings.Contains(stderr, "no address found") {
			t.Errorf("expected info log, got %q", stderr)
		}
	})
	t.Run("invalid coordinates fail", func(t *testing.T) {
		_, _, err := runCLI(t, testhelper.FileResponder(t, parisFile, 200, nil), "reverse", "north", "2.35")
		if err == nil {
			t.Error("expected command to fail")
		}
	})
	t.Run("quota exceeded is reported", func(t *testing.T) {
		_, _, err := runCLI(t, testhelper.BodyResponder("", stdhttp.StatusTooManyRequests, nil),
			"reverse", "48.8566", "2.3522")
		if !errors.Is(err, geocode.ErrQuotaExceeded) {
			t.Errorf("expected error to be %s, got %v", geocode.ErrQuotaExceeded, err)
		}
	})
}

func TestParseComponents(t *testing.T) {
	filter, err := parseComponents([]string{"country:SE", "postal_code:11129"})
	if err != nil {
		t.Fatalf("failed to parse components: %s", err)
	}
	if filter.String() != "country:SE|postal_code:11129" {
		t.Errorf("unexpected filter %q", filter.String())
	}
	if _, err = parseComponents([]string{":SE"}); err == nil {
		t.Error("expected empty component name to fail")
	}
}
