/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient() *Client {
	client := NewClient()
	client.Resty.SetRetryCount(0)
	return client
}

// newIdentityProvider serves a discovery document and key set under its own URL.
func newIdentityProvider(t *testing.T, issuerOverride string, keys string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		issuer := server.URL + "/"
		if issuerOverride != "" {
			issuer = issuerOverride
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"issuer": %q, "jwks_uri": %q, "authorization_endpoint": %q}`,
			issuer, server.URL+"/.well-known/jwks.json", server.URL+"/authorize")
	})
	mux.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, keys)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCheckAPIServer(t *testing.T) {
	tests := []struct {
		status  int
		isValid bool
	}{
		{http.StatusOK, true},
		{http.StatusNotFound, true},
		{http.StatusUnauthorized, true},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, test := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(test.status)
		}))

		result, err := newTestClient().CheckAPIServer(context.Background(), server.URL)
		if (err == nil) != test.isValid {
			t.Errorf("For status %d, expected valid=%v, got err=%v", test.status, test.isValid, err)
		}
		if result == nil || result.StatusCode != test.status {
			t.Errorf("For status %d, unexpected result %+v", test.status, result)
		}
		server.Close()
	}
}

func TestCheckAPIServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if _, err := newTestClient().CheckAPIServer(context.Background(), url); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestRetryOnServerError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	client.Resty.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)

	result, err := client.CheckAPIServer(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if result.StatusCode != http.StatusOK || requests.Load() != 2 {
		t.Errorf("expected 2 requests ending in 200, got %d requests and %+v", requests.Load(), result)
	}
}

func TestFetchDiscovery(t *testing.T) {
	idp := newIdentityProvider(t, "", `{"keys": [{"kid": "a"}]}`)

	discovery, result, err := newTestClient().fetchDiscovery(context.Background(), idp.URL+"/.well-known/openid-configuration", idp.URL+"/")
	if err != nil {
		t.Fatalf("fetchDiscovery failed: %v", err)
	}
	if discovery.JWKSURI != idp.URL+"/.well-known/jwks.json" {
		t.Errorf("unexpected jwks_uri %q", discovery.JWKSURI)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("unexpected status %d", result.StatusCode)
	}
}

func TestFetchDiscoveryIssuerMismatch(t *testing.T) {
	idp := newIdentityProvider(t, "https://someone-else.auth0.com/", `{"keys": []}`)

	_, _, err := newTestClient().fetchDiscovery(context.Background(), idp.URL+"/.well-known/openid-configuration", idp.URL+"/")
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Errorf("expected issuer mismatch error, got %v", err)
	}
}

func TestFetchDiscoveryNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	if _, _, err := newTestClient().fetchDiscovery(context.Background(), server.URL+"/.well-known/openid-configuration", server.URL+"/"); err == nil {
		t.Error("expected error for 404 discovery document")
	}
}

func TestFetchJWKS(t *testing.T) {
	idp := newIdentityProvider(t, "", `{"keys": [{"kid": "key-1", "kty": "RSA", "alg": "RS256", "use": "sig"}, {"kid": "key-2", "kty": "RSA"}]}`)

	keySet, _, err := newTestClient().FetchJWKS(context.Background(), idp.URL+"/.well-known/jwks.json")
	if err != nil {
		t.Fatalf("FetchJWKS failed: %v", err)
	}
	if got := strings.Join(keySet.KeyIDs(), ","); got != "key-1,key-2" {
		t.Errorf("unexpected key IDs %q", got)
	}
	if keySet.Keys[0].Algorithm != "RS256" {
		t.Errorf("unexpected algorithm %q", keySet.Keys[0].Algorithm)
	}
}

func TestFetchJWKSErrors(t *testing.T) {
	empty := newIdentityProvider(t, "", `{"keys": []}`)
	if _, _, err := newTestClient().FetchJWKS(context.Background(), empty.URL+"/.well-known/jwks.json"); err == nil {
		t.Error("expected error for empty key set")
	}

	broken := newIdentityProvider(t, "", `not json`)
	if _, _, err := newTestClient().FetchJWKS(context.Background(), broken.URL+"/.well-known/jwks.json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestEnvironmentChecks(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()
	idp := newIdentityProvider(t, "", `{"keys": [{"kid": "key-1"}]}`)

	checks := newTestClient().environmentChecks(api.URL, idp.URL+"/.well-known/openid-configuration", idp.URL+"/", "http://unused.invalid/jwks.json")
	if len(checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(checks))
	}
	for _, check := range checks {
		lines, err := check.Run(context.Background())
		if err != nil {
			t.Fatalf("check '%s' failed: %v", check.Title, err)
		}
		if len(lines) == 0 {
			t.Errorf("check '%s' returned no output", check.Title)
		}
	}
}

func TestFormatLatency(t *testing.T) {
	if got := FormatLatency(1500 * time.Millisecond); got != "1.5 s" {
		t.Errorf("expected '1.5 s', got %q", got)
	}
	if got := FormatLatency(2 * time.Second); got != "2 s" {
		t.Errorf("expected '2 s', got %q", got)
	}
	if got := FormatLatency(12 * time.Millisecond); !strings.HasSuffix(got, " ms") {
		t.Errorf("expected milliseconds, got %q", got)
	}
}
