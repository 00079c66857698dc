package types

import (
	"fmt"

	"golang.org/x/time/rate"
)

// DuplicateProviderPriorityError reports a provider-priority collision after
// the base, template and custom layers have been composed.
type DuplicateProviderPriorityError struct {
	Priority int
}

func (e *DuplicateProviderPriorityError) Error() string {
	return fmt.Sprintf("authn: duplicate provider priority %d", e.Priority)
}

type ProviderType string

const (
	ProviderEmailPassword ProviderType = "email_password"
	ProviderSAML          ProviderType = "saml"
	ProviderOIDC          ProviderType = "oidc"
	ProviderLDAP          ProviderType = "ldap"
	ProviderMagicLink     ProviderType = "magic_link"
)

// AuthProvider is one credential provider entry. List order and Priority
// (lower checked first) determine credential-check precedence.
type AuthProvider struct {
	Type     ProviderType      `json:"type"`
	Enabled  bool              `json:"enabled"`
	Priority int               `json:"priority"`
	Config   map[string]string `json:"config,omitempty"`
}

type SecurityOptions struct {
	MFA           bool `json:"mfa"`
	SSO           bool `json:"sso"`
	RBAC          bool `json:"rbac"`
	IPRestriction bool `json:"ip_restriction"`
}

type RateLimitPolicy struct {
	Enabled       bool `json:"enabled"`
	MaxAttempts   int  `json:"max_attempts"`
	WindowSeconds int  `json:"window_seconds"`
}

// Limiter materializes the policy as a token bucket: MaxAttempts per window
// with a burst of MaxAttempts. A disabled policy admits everything.
func (p RateLimitPolicy) Limiter() *rate.Limiter {
	if !p.Enabled || p.MaxAttempts <= 0 || p.WindowSeconds <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	perSecond := float64(p.MaxAttempts) / float64(p.WindowSeconds)
	return rate.NewLimiter(rate.Limit(perSecond), p.MaxAttempts)
}

// MultiTenantAuthConfig is regenerated wholesale when the tenant type or
// overrides change; it is never patched in place.
type MultiTenantAuthConfig struct {
	TenantID       string          `json:"tenant_id"`
	Providers      []AuthProvider  `json:"providers"`
	Security       SecurityOptions `json:"security"`
	SessionSeconds int             `json:"session_seconds"`
	RateLimit      RateLimitPolicy `json:"rate_limit"`
}
