/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package envconfig holds the environment configuration record consumed by the
// Coffee Shop front-end build, along with its validation, environment variable
// overrides, renderers, and the process-wide active record.
package envconfig

import (
	"strings"
)

// Suffix of Auth0-hosted tenant domains. The 'auth0.url' field only carries the
// tenant prefix (eg, 'dev-juanchete.eu').
const auth0DomainSuffix = ".auth0.com"

// Identity provider settings ($.auth0 in the rendered environment).
type Auth0Config struct {
	URL         string `yaml:"url"         json:"url"         env:"SPAENV_AUTH0_URL"`          // Tenant domain prefix, eg, 'dev-juanchete.eu'.
	Audience    string `yaml:"audience"    json:"audience"    env:"SPAENV_AUTH0_AUDIENCE"`     // API audience, eg, 'coffeeshop'.
	ClientID    string `yaml:"clientId"    json:"clientId"    env:"SPAENV_AUTH0_CLIENT_ID"`    // Public client ID of the SPA application.
	CallbackURL string `yaml:"callbackURL" json:"callbackURL" env:"SPAENV_AUTH0_CALLBACK_URL"` // Where the identity provider redirects after login.
}

// EnvironmentConfig is the configuration record of a single front-end build.
// It is a value type: copies never share state, which keeps a loaded record
// immutable from the point of view of its holders.
// Note: When adding new fields, remember to update Validate(), PatchJSON(), and the TypeScript template.
type EnvironmentConfig struct {
	Production   bool        `yaml:"production"   json:"production"   env:"SPAENV_PRODUCTION"`
	APIServerURL string      `yaml:"apiServerUrl" json:"apiServerUrl" env:"SPAENV_API_SERVER_URL"`
	Auth0        Auth0Config `yaml:"auth0"        json:"auth0"`
}

// TenantDomain returns the full identity provider domain, eg, 'dev-juanchete.eu.auth0.com'.
func (cfg EnvironmentConfig) TenantDomain() string {
	domain := strings.ToLower(strings.TrimSuffix(cfg.Auth0.URL, "."))
	if domain == "" {
		return ""
	}
	if strings.HasSuffix(domain, auth0DomainSuffix) {
		return domain
	}
	return domain + auth0DomainSuffix
}

// IssuerURL returns the expected 'iss' claim of tokens issued by the tenant.
// The trailing slash is significant.
func (cfg EnvironmentConfig) IssuerURL() string {
	return "https://" + cfg.TenantDomain() + "/"
}

// DiscoveryURL returns the OpenID Connect discovery document URL of the tenant.
func (cfg EnvironmentConfig) DiscoveryURL() string {
	return cfg.IssuerURL() + ".well-known/openid-configuration"
}

// JWKSURL returns the JSON Web Key Set URL of the tenant.
func (cfg EnvironmentConfig) JWKSURL() string {
	return cfg.IssuerURL() + ".well-known/jwks.json"
}

// MaskedClientID returns the client ID with all but the first and last four
// characters hidden. Used in human-readable output.
func (cfg EnvironmentConfig) MaskedClientID() string {
	return MaskClientID(cfg.Auth0.ClientID)
}

// MaskClientID hides all but the first and last four characters of id. Short
// values are hidden completely.
func MaskClientID(id string) string {
	if len(id) <= 8 {
		return strings.Repeat("*", len(id))
	}
	return id[:4] + strings.Repeat("*", len(id)-8) + id[len(id)-4:]
}
