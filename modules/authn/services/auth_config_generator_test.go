package services

import (
	"errors"
	"testing"
	"time"

	"github.com/coactive-dev/sallyport/modules/authn/domain/types"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

func TestCreateAuthConfigForTenant_UniquePrioritiesAllTypes(t *testing.T) {
	for _, tt := range tenanttypes.TenantTypes {
		cfg, err := CreateAuthConfigForTenant("t1", tt, types.SecurityOptions{}, nil)
		if err != nil {
			t.Fatalf("type=%s err=%v", tt, err)
		}
		if cfg.TenantID != "t1" {
			t.Fatalf("type=%s tenant=%s", tt, cfg.TenantID)
		}
		seen := map[int]bool{}
		for _, p := range cfg.Providers {
			if seen[p.Priority] {
				t.Fatalf("type=%s duplicate priority %d", tt, p.Priority)
			}
			seen[p.Priority] = true
		}
		if len(cfg.Providers) == 0 || cfg.Providers[0].Type != types.ProviderEmailPassword {
			t.Fatalf("type=%s providers=%v", tt, cfg.Providers)
		}
	}
}

func TestCreateAuthConfigForTenant_InvalidType(t *testing.T) {
	_, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantType("galactic"), types.SecurityOptions{}, nil)
	if !errors.Is(err, tenanttypes.ErrInvalidTenantType) {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateAuthConfigForTenant_EnterpriseTemplate(t *testing.T) {
	cfg, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantEnterprise, types.SecurityOptions{}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !cfg.Security.SSO || !cfg.Security.MFA || !cfg.Security.IPRestriction {
		t.Fatalf("security=%+v", cfg.Security)
	}
	if cfg.SessionSeconds != 14400 {
		t.Fatalf("session=%d", cfg.SessionSeconds)
	}
	if cfg.RateLimit.MaxAttempts != 3 {
		t.Fatalf("rate limit=%+v", cfg.RateLimit)
	}
	// Template providers carry negative priorities so they are checked
	// before the base email provider at priority 1.
	for _, p := range cfg.Providers {
		if p.Type == types.ProviderEmailPassword {
			continue
		}
		if p.Priority >= 1 {
			t.Fatalf("provider %s priority=%d", p.Type, p.Priority)
		}
	}
}

func TestCreateAuthConfigForTenant_IndividualShortSession(t *testing.T) {
	cfg, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantIndividual, types.SecurityOptions{}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.SessionSeconds != 1800 {
		t.Fatalf("session=%d", cfg.SessionSeconds)
	}
	if cfg.Security.SSO {
		t.Fatal("individual must not default to SSO")
	}
}

func TestCreateAuthConfigForTenant_RequestedOptionsAdd(t *testing.T) {
	cfg, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantIndividual, types.SecurityOptions{MFA: true, IPRestriction: true}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !cfg.Security.MFA || !cfg.Security.IPRestriction {
		t.Fatalf("security=%+v", cfg.Security)
	}
}

func TestCreateAuthConfigForTenant_CustomAppendsProviders(t *testing.T) {
	custom := &CustomAuthConfig{
		Providers: []types.AuthProvider{
			{Type: types.ProviderMagicLink, Enabled: true, Priority: 5},
		},
		SessionSeconds: 600,
	}
	cfg, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantEnterprise, types.SecurityOptions{}, custom)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.SessionSeconds != 600 {
		t.Fatalf("session=%d", cfg.SessionSeconds)
	}
	// Custom layer appends after base and template providers.
	last := cfg.Providers[len(cfg.Providers)-1]
	if last.Type != types.ProviderMagicLink {
		t.Fatalf("last provider=%s", last.Type)
	}
	if cfg.TenantID != "t1" {
		t.Fatalf("tenant=%s", cfg.TenantID)
	}
}

func TestCreateAuthConfigForTenant_CustomOverridesFieldByField(t *testing.T) {
	off := false
	attempts := 20
	custom := &CustomAuthConfig{
		Security:  &SecurityOptionsOverride{IPRestriction: &off},
		RateLimit: &RateLimitOverride{MaxAttempts: &attempts},
	}
	cfg, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantEnterprise, types.SecurityOptions{}, custom)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Security.IPRestriction {
		t.Fatal("expected IP restriction overridden off")
	}
	// Unset override fields keep the enterprise template's settings.
	if !cfg.Security.MFA || !cfg.Security.SSO || !cfg.Security.RBAC {
		t.Fatalf("security=%+v", cfg.Security)
	}
	if cfg.RateLimit.MaxAttempts != 20 {
		t.Fatalf("attempts=%d", cfg.RateLimit.MaxAttempts)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.WindowSeconds != 300 {
		t.Fatalf("rate limit=%+v", cfg.RateLimit)
	}
}

func TestCreateAuthConfigForTenant_DuplicatePriorityRejected(t *testing.T) {
	custom := &CustomAuthConfig{
		Providers: []types.AuthProvider{
			{Type: types.ProviderMagicLink, Enabled: true, Priority: 1},
		},
	}
	_, err := CreateAuthConfigForTenant("t1", tenanttypes.TenantGroup, types.SecurityOptions{}, custom)
	var dup *types.DuplicateProviderPriorityError
	if !errors.As(err, &dup) {
		t.Fatalf("err=%v", err)
	}
	if dup.Priority != 1 {
		t.Fatalf("priority=%d", dup.Priority)
	}
}

func TestRateLimitPolicy_Limiter(t *testing.T) {
	p := types.RateLimitPolicy{Enabled: true, MaxAttempts: 5, WindowSeconds: 300}
	l := p.Limiter()
	if l.Burst() != 5 {
		t.Fatalf("burst=%d", l.Burst())
	}
	now := time.Now()
	for i := 0; i < 5; i++ {
		if !l.AllowN(now, 1) {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if l.AllowN(now, 1) {
		t.Fatal("sixth attempt within window should be limited")
	}

	off := types.RateLimitPolicy{}
	if !off.Limiter().AllowN(now, 1) {
		t.Fatal("disabled policy must admit everything")
	}
}
