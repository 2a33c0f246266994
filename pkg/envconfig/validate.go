/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Value of 'auth0.clientId' which means the client ID is stored in the OS keyring
// and must be resolved before the record is validated.
const ClientIDKeyringPlaceholder = "@keyring"

// Sentinel errors wrapped by FieldError, usable with errors.Is().
var (
	ErrRequired        = errors.New("field is required")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrInvalidDomain   = errors.New("invalid domain")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrInvalidClientID = errors.New("invalid client ID")
)

var (
	// Dot-separated DNS labels, no scheme, port, or path.
	domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)
	// \note: The hyphen must be the last in the class to avoid getting parsed as A-B syntax
	audiencePattern = regexp.MustCompile(`^[a-zA-Z0-9_./:-]+$`)
	clientIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// FieldError describes a single invalid field of an EnvironmentConfig.
type FieldError struct {
	Field   string // Key path as used in the rendered record, eg, 'auth0.callbackURL'.
	Message string // Human-readable problem description.
	Err     error  // One of the sentinel errors above.
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found in a record, so that a broken
// configuration is reported with a single error at startup.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid environment config: " + e.Fields[0].Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Error())
	}
	return fmt.Sprintf("invalid environment config (%d problems): %s", len(e.Fields), strings.Join(parts, "; "))
}

// Unwrap exposes the individual field errors to errors.Is() and errors.As().
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, field := range e.Fields {
		errs = append(errs, field)
	}
	return errs
}

// HasField returns true if the given field has a problem.
func (e *ValidationError) HasField(field string) bool {
	for _, fieldErr := range e.Fields {
		if fieldErr.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field string, sentinel error, format string, args ...any) {
	e.Fields = append(e.Fields, &FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	})
}

// Validate checks that all fields are present and well-formed. It returns nil or
// a *ValidationError listing every invalid field.
func (cfg EnvironmentConfig) Validate() error {
	verr := &ValidationError{}

	validateAbsoluteURL(verr, "apiServerUrl", cfg.APIServerURL)
	validateDomain(verr, "auth0.url", cfg.Auth0.URL)

	// Audience.
	if cfg.Auth0.Audience == "" {
		verr.add("auth0.audience", ErrRequired, "is required")
	} else if !audiencePattern.MatchString(cfg.Auth0.Audience) {
		verr.add("auth0.audience", ErrInvalidAudience, "must contain only alphanumeric characters, underscores, dots, colons, forward slashes, and hyphens")
	}

	// Client ID.
	switch {
	case cfg.Auth0.ClientID == "":
		verr.add("auth0.clientId", ErrRequired, "is required")
	case cfg.Auth0.ClientID == ClientIDKeyringPlaceholder:
		verr.add("auth0.clientId", ErrInvalidClientID, "the '%s' placeholder was not resolved: store the client ID with 'spaenv secrets set-client-id' or set SPAENV_AUTH0_CLIENT_ID", ClientIDKeyringPlaceholder)
	case !clientIDPattern.MatchString(cfg.Auth0.ClientID):
		verr.add("auth0.clientId", ErrInvalidClientID, "must contain only alphanumeric characters, underscores, and hyphens")
	}

	validateAbsoluteURL(verr, "auth0.callbackURL", cfg.Auth0.CallbackURL)

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// validateAbsoluteURL checks that the value is an absolute http(s) URL with a host.
func validateAbsoluteURL(verr *ValidationError, field, value string) {
	if value == "" {
		verr.add(field, ErrRequired, "is required")
		return
	}

	parsedURL, err := url.Parse(value)
	if err != nil {
		verr.add(field, ErrInvalidURL, "'%s' is not a valid URL: %v", value, err)
		return
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		verr.add(field, ErrInvalidURL, "'%s' must be an absolute URL using http or https scheme", value)
		return
	}
	if parsedURL.Host == "" || parsedURL.Hostname() == "" {
		verr.add(field, ErrInvalidURL, "'%s' must include a host", value)
	}
}

// validateDomain checks the tenant domain prefix: a bare host name without scheme or path.
func validateDomain(verr *ValidationError, field, value string) {
	if value == "" {
		verr.add(field, ErrRequired, "is required")
		return
	}
	if strings.Contains(value, "://") {
		verr.add(field, ErrInvalidDomain, "'%s' must be a domain without scheme, eg, 'dev-example.eu'", value)
		return
	}
	if len(value) > 253 || !domainPattern.MatchString(strings.ToLower(value)) {
		verr.add(field, ErrInvalidDomain, "'%s' is not a valid domain name", value)
	}
}

// Lint returns non-fatal warnings about a record that passed Validate(), such as
// a production build pointing to plain-http or loopback addresses.
func (cfg EnvironmentConfig) Lint() []string {
	warnings := []string{}
	if !cfg.Production {
		return warnings
	}

	urls := []struct {
		field string
		value string
	}{
		{"apiServerUrl", cfg.APIServerURL},
		{"auth0.callbackURL", cfg.Auth0.CallbackURL},
	}
	for _, entry := range urls {
		parsedURL, err := url.Parse(entry.value)
		if err != nil {
			continue
		}
		if parsedURL.Scheme == "http" {
			warnings = append(warnings, fmt.Sprintf("%s uses plain http in a production build: %s", entry.field, entry.value))
		}
		if isLoopbackHost(parsedURL.Hostname()) {
			warnings = append(warnings, fmt.Sprintf("%s points to a loopback address in a production build: %s", entry.field, entry.value))
		}
	}
	return warnings
}

func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
