package services

import (
	"github.com/coactive-dev/sallyport/modules/authn/domain/types"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

// authTemplate is the per-tenant-type layer: it supersedes SecurityOptions,
// appends providers checked before the base email provider, and sets session
// and rate-limit ceilings for the type's risk profile.
type authTemplate struct {
	Security       types.SecurityOptions
	Providers      []types.AuthProvider
	SessionSeconds int
	RateLimit      types.RateLimitPolicy
}

// CustomAuthConfig is the caller's final layer. Providers are appended, never
// replacing earlier layers; overrides apply field by field, so an unset field
// keeps whatever the base and template layers decided. TenantID is never
// overridable.
type CustomAuthConfig struct {
	Providers      []types.AuthProvider     `json:"providers,omitempty"`
	Security       *SecurityOptionsOverride `json:"security,omitempty"`
	SessionSeconds int                      `json:"session_seconds,omitempty"`
	RateLimit      *RateLimitOverride       `json:"rate_limit,omitempty"`
}

type SecurityOptionsOverride struct {
	MFA           *bool `json:"mfa,omitempty"`
	SSO           *bool `json:"sso,omitempty"`
	RBAC          *bool `json:"rbac,omitempty"`
	IPRestriction *bool `json:"ip_restriction,omitempty"`
}

type RateLimitOverride struct {
	Enabled       *bool `json:"enabled,omitempty"`
	MaxAttempts   *int  `json:"max_attempts,omitempty"`
	WindowSeconds *int  `json:"window_seconds,omitempty"`
}

func baseAuthConfig(tenantID string) types.MultiTenantAuthConfig {
	return types.MultiTenantAuthConfig{
		TenantID: tenantID,
		Providers: []types.AuthProvider{
			{
				Type:     types.ProviderEmailPassword,
				Enabled:  true,
				Priority: 1,
				Config: map[string]string{
					"require_verified_email": "true",
					"password_policy":        "default",
				},
			},
		},
		SessionSeconds: 3600,
		RateLimit: types.RateLimitPolicy{
			Enabled:       true,
			MaxAttempts:   5,
			WindowSeconds: 300,
		},
	}
}

func authTemplateFor(t tenanttypes.TenantType) (authTemplate, error) {
	switch t {
	case tenanttypes.TenantIndividual:
		return authTemplate{
			Security:       types.SecurityOptions{MFA: false},
			SessionSeconds: 1800,
			RateLimit:      types.RateLimitPolicy{Enabled: true, MaxAttempts: 5, WindowSeconds: 300},
		}, nil

	case tenanttypes.TenantGroup:
		return authTemplate{
			Security:       types.SecurityOptions{MFA: true, RBAC: true},
			SessionSeconds: 3600,
			RateLimit:      types.RateLimitPolicy{Enabled: true, MaxAttempts: 8, WindowSeconds: 300},
		}, nil

	case tenanttypes.TenantAcademic:
		return authTemplate{
			Security: types.SecurityOptions{MFA: true, SSO: true, RBAC: true},
			Providers: []types.AuthProvider{
				{Type: types.ProviderSAML, Enabled: true, Priority: -10, Config: map[string]string{"idp": "institution"}},
			},
			SessionSeconds: 7200,
			RateLimit:      types.RateLimitPolicy{Enabled: true, MaxAttempts: 10, WindowSeconds: 300},
		}, nil

	case tenanttypes.TenantOrganizational:
		return authTemplate{
			Security: types.SecurityOptions{MFA: true, SSO: true, RBAC: true},
			Providers: []types.AuthProvider{
				{Type: types.ProviderOIDC, Enabled: true, Priority: -10, Config: map[string]string{"issuer": "org"}},
			},
			SessionSeconds: 7200,
			RateLimit:      types.RateLimitPolicy{Enabled: true, MaxAttempts: 10, WindowSeconds: 300},
		}, nil

	case tenanttypes.TenantEnterprise:
		return authTemplate{
			Security: types.SecurityOptions{MFA: true, SSO: true, RBAC: true, IPRestriction: true},
			Providers: []types.AuthProvider{
				{Type: types.ProviderSAML, Enabled: true, Priority: -20, Config: map[string]string{"idp": "corporate"}},
				{Type: types.ProviderLDAP, Enabled: true, Priority: -10, Config: map[string]string{"directory": "corporate"}},
			},
			SessionSeconds: 14400,
			RateLimit:      types.RateLimitPolicy{Enabled: true, MaxAttempts: 3, WindowSeconds: 300},
		}, nil

	default:
		return authTemplate{}, tenanttypes.ErrInvalidTenantType
	}
}

// CreateAuthConfigForTenant composes base -> type template -> custom layers.
// Provider lists concatenate across layers; requested flags OR into the
// template's SecurityOptions; TenantID is never overridable.
func CreateAuthConfigForTenant(tenantID string, tenantType tenanttypes.TenantType, requested types.SecurityOptions, custom *CustomAuthConfig) (types.MultiTenantAuthConfig, error) {
	tpl, err := authTemplateFor(tenantType)
	if err != nil {
		return types.MultiTenantAuthConfig{}, err
	}

	cfg := baseAuthConfig(tenantID)
	cfg.Security = tpl.Security
	cfg.Providers = append(cfg.Providers, tpl.Providers...)
	if tpl.SessionSeconds > 0 {
		cfg.SessionSeconds = tpl.SessionSeconds
	}
	if tpl.RateLimit.MaxAttempts > 0 {
		cfg.RateLimit = tpl.RateLimit
	}

	cfg.Security.MFA = cfg.Security.MFA || requested.MFA
	cfg.Security.SSO = cfg.Security.SSO || requested.SSO
	cfg.Security.RBAC = cfg.Security.RBAC || requested.RBAC
	cfg.Security.IPRestriction = cfg.Security.IPRestriction || requested.IPRestriction

	if custom != nil {
		cfg.Providers = append(cfg.Providers, custom.Providers...)
		if s := custom.Security; s != nil {
			if s.MFA != nil {
				cfg.Security.MFA = *s.MFA
			}
			if s.SSO != nil {
				cfg.Security.SSO = *s.SSO
			}
			if s.RBAC != nil {
				cfg.Security.RBAC = *s.RBAC
			}
			if s.IPRestriction != nil {
				cfg.Security.IPRestriction = *s.IPRestriction
			}
		}
		if custom.SessionSeconds > 0 {
			cfg.SessionSeconds = custom.SessionSeconds
		}
		if rl := custom.RateLimit; rl != nil {
			if rl.Enabled != nil {
				cfg.RateLimit.Enabled = *rl.Enabled
			}
			if rl.MaxAttempts != nil {
				cfg.RateLimit.MaxAttempts = *rl.MaxAttempts
			}
			if rl.WindowSeconds != nil {
				cfg.RateLimit.WindowSeconds = *rl.WindowSeconds
			}
		}
	}

	if err := checkProviderPriorities(cfg.Providers); err != nil {
		return types.MultiTenantAuthConfig{}, err
	}
	return cfg, nil
}

func checkProviderPriorities(providers []types.AuthProvider) error {
	seen := make(map[int]bool, len(providers))
	for _, p := range providers {
		if seen[p.Priority] {
			return &types.DuplicateProviderPriorityError{Priority: p.Priority}
		}
		seen[p.Priority] = true
	}
	return nil
}
