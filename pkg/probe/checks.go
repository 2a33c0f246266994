/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
)

// OpenID Connect discovery document of the identity provider tenant. Only the
// fields used by the checks are decoded.
type Discovery struct {
	Issuer                string `json:"issuer"`
	JWKSURI               string `json:"jwks_uri"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
}

// Public key in a JSON Web Key Set.
type JSONWebKey struct {
	KeyID     string `json:"kid"`
	KeyType   string `json:"kty"`
	Algorithm string `json:"alg"`
	Use       string `json:"use"`
}

// JSON Web Key Set published by the identity provider tenant.
type KeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// KeyIDs returns the 'kid' of every key, in document order.
func (ks *KeySet) KeyIDs() []string {
	ids := make([]string, 0, len(ks.Keys))
	for _, key := range ks.Keys {
		ids = append(ids, key.KeyID)
	}
	return ids
}

// CheckAPIServer checks that something answers at the API server base URL. Any
// status below 500 counts as reachable, since the API may not serve its root path.
func (c *Client) CheckAPIServer(ctx context.Context, apiServerURL string) (*Result, error) {
	_, result, err := c.get(ctx, apiServerURL)
	if err != nil {
		return nil, err
	}
	if result.StatusCode >= http.StatusInternalServerError {
		return result, fmt.Errorf("API server at %s responded with status %d", apiServerURL, result.StatusCode)
	}
	return result, nil
}

// FetchDiscovery fetches the OpenID Connect discovery document of the tenant
// and checks that it describes the issuer derived from the record.
func (c *Client) FetchDiscovery(ctx context.Context, cfg envconfig.EnvironmentConfig) (*Discovery, *Result, error) {
	return c.fetchDiscovery(ctx, cfg.DiscoveryURL(), cfg.IssuerURL())
}

func (c *Client) fetchDiscovery(ctx context.Context, discoveryURL string, expectedIssuer string) (*Discovery, *Result, error) {
	discovery, result, err := getJSON[Discovery](ctx, c, discoveryURL)
	if err != nil {
		return nil, result, err
	}
	if discovery.Issuer != expectedIssuer {
		return &discovery, result, fmt.Errorf("discovery document issuer '%s' does not match the expected issuer '%s'", discovery.Issuer, expectedIssuer)
	}
	if discovery.JWKSURI == "" {
		return &discovery, result, fmt.Errorf("discovery document at %s does not specify 'jwks_uri'", discoveryURL)
	}
	return &discovery, result, nil
}

// FetchJWKS fetches the key set at jwksURL and requires it to contain at least one key.
func (c *Client) FetchJWKS(ctx context.Context, jwksURL string) (*KeySet, *Result, error) {
	keySet, result, err := getJSON[KeySet](ctx, c, jwksURL)
	if err != nil {
		return nil, result, err
	}
	if len(keySet.Keys) == 0 {
		return &keySet, result, fmt.Errorf("key set at %s contains no keys", jwksURL)
	}
	return &keySet, result, nil
}

// Check is a named diagnostic. Run returns the lines to show on success.
type Check struct {
	Title string
	Run   func(ctx context.Context) ([]string, error)
}

// EnvironmentChecks returns the checks for a record, in the order they should
// be run: API server, discovery document, then the key set it points to.
func (c *Client) EnvironmentChecks(cfg envconfig.EnvironmentConfig) []Check {
	return c.environmentChecks(cfg.APIServerURL, cfg.DiscoveryURL(), cfg.IssuerURL(), cfg.JWKSURL())
}

func (c *Client) environmentChecks(apiServerURL, discoveryURL, issuer, fallbackJWKSURL string) []Check {
	// Use the key set location from the discovery document when available.
	jwksURL := fallbackJWKSURL

	return []Check{
		{
			Title: fmt.Sprintf("Check API server %s", apiServerURL),
			Run: func(ctx context.Context) ([]string, error) {
				result, err := c.CheckAPIServer(ctx, apiServerURL)
				if err != nil {
					return nil, err
				}
				return []string{fmt.Sprintf("Reachable: %s", result)}, nil
			},
		},
		{
			Title: fmt.Sprintf("Fetch discovery document %s", discoveryURL),
			Run: func(ctx context.Context) ([]string, error) {
				discovery, result, err := c.fetchDiscovery(ctx, discoveryURL, issuer)
				if err != nil {
					return nil, err
				}
				jwksURL = discovery.JWKSURI
				return []string{
					fmt.Sprintf("Issuer: %s (%s)", discovery.Issuer, result),
					fmt.Sprintf("Authorization endpoint: %s", discovery.AuthorizationEndpoint),
				}, nil
			},
		},
		{
			Title: "Fetch signing keys",
			Run: func(ctx context.Context) ([]string, error) {
				keySet, result, err := c.FetchJWKS(ctx, jwksURL)
				if err != nil {
					return nil, err
				}
				return []string{
					fmt.Sprintf("%d key(s) from %s (%s)", len(keySet.Keys), jwksURL, result),
					fmt.Sprintf("Key IDs: %s", strings.Join(keySet.KeyIDs(), ", ")),
				}, nil
			},
		},
	}
}
