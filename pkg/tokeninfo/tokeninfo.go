/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package tokeninfo compares the claims of an access token against an
// environment record. Signatures are never verified: the package only answers
// "was this token minted for this configuration?".
package tokeninfo

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/coffeeshop/spaenv/pkg/envconfig"
	"github.com/dustin/go-humanize"
	"github.com/golang-jwt/jwt/v5"
)

// Finding is the outcome of comparing one claim against the record.
type Finding struct {
	Claim   string // Claim name, eg, 'aud'.
	OK      bool   // Does the claim match the record?
	Message string // Human-readable explanation.
}

// Report describes a decoded token and how it relates to the record.
type Report struct {
	Algorithm       string     // 'alg' header.
	KeyID           string     // 'kid' header.
	Subject         string     // 'sub' claim.
	Issuer          string     // 'iss' claim.
	Audience        []string   // 'aud' claim (string or list).
	AuthorizedParty string     // 'azp' claim, the client the token was issued to.
	ExpiresAt       *time.Time // 'exp' claim, nil if missing.
	Findings        []Finding
}

// OK returns true if every finding matched.
func (r *Report) OK() bool {
	for _, finding := range r.Findings {
		if !finding.OK {
			return false
		}
	}
	return true
}

func (r *Report) add(claim string, ok bool, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Claim: claim, OK: ok, Message: fmt.Sprintf(format, args...)})
}

// Inspect decodes tokenString without verifying its signature and checks its
// audience, issuer, authorized party, and expiry against cfg as of now.
func Inspect(tokenString string, cfg envconfig.EnvironmentConfig, now time.Time) (*Report, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tokenString), "Bearer "))

	// Parse the token without validation
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}

	report := &Report{}
	report.Algorithm, _ = token.Header["alg"].(string)
	report.KeyID, _ = token.Header["kid"].(string)
	report.Subject, _ = claims.GetSubject()
	report.Issuer, _ = claims.GetIssuer()
	report.AuthorizedParty, _ = claims["azp"].(string)

	audience, err := claims.GetAudience()
	if err != nil {
		return nil, fmt.Errorf("invalid 'aud' claim: %w", err)
	}
	report.Audience = audience

	expiresAt, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid 'exp' claim: %w", err)
	}
	if expiresAt != nil {
		exp := expiresAt.Time
		report.ExpiresAt = &exp
	}

	// Audience.
	if slices.Contains(report.Audience, cfg.Auth0.Audience) {
		report.add("aud", true, "contains the configured audience '%s'", cfg.Auth0.Audience)
	} else {
		report.add("aud", false, "[%s] does not contain the configured audience '%s'", strings.Join(report.Audience, ", "), cfg.Auth0.Audience)
	}

	// Issuer.
	if report.Issuer == cfg.IssuerURL() {
		report.add("iss", true, "matches the tenant '%s'", cfg.IssuerURL())
	} else {
		report.add("iss", false, "'%s' does not match the tenant '%s'", report.Issuer, cfg.IssuerURL())
	}

	// Authorized party. Tokens from some grants don't carry it.
	switch report.AuthorizedParty {
	case "":
		report.add("azp", true, "not present in token")
	case cfg.Auth0.ClientID:
		report.add("azp", true, "matches the configured client ID")
	default:
		report.add("azp", false, "'%s' does not match the configured client ID '%s'", report.AuthorizedParty, cfg.MaskedClientID())
	}

	// Expiry.
	if report.ExpiresAt == nil {
		report.add("exp", false, "token does not contain an 'exp' claim")
	} else if report.ExpiresAt.After(now) {
		report.add("exp", true, "expires %s", humanize.RelTime(*report.ExpiresAt, now, "ago", "from now"))
	} else {
		report.add("exp", false, "expired %s", humanize.RelTime(*report.ExpiresAt, now, "ago", "from now"))
	}

	return report, nil
}
