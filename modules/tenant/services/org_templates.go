package services

import (
	"github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

// OrgTemplate is the per-tenant-type slice of an Organization. Every field a
// template sets wins over the base defaults; caller overrides win over both.
type OrgTemplate struct {
	Security     *SecurityOverride
	Departments  []types.Department
	Teams        []types.Team
	Features     map[string]bool
	BillingPlan  string
	SizeBand     string
	Integrations []string
}

// SecurityOverride carries optional security fields so a template or caller
// override can touch one field without erasing its siblings.
type SecurityOverride struct {
	RequireSSO          *bool `json:"require_sso,omitempty"`
	RequireMFA          *bool `json:"require_mfa,omitempty"`
	MinLength           *int  `json:"min_length,omitempty"`
	RequireMixedClasses *bool `json:"require_mixed_classes,omitempty"`
	ExpirationDays      *int  `json:"expiration_days,omitempty"`
}

func baseOrganization() types.Organization {
	return types.Organization{
		Security: types.SecuritySettings{
			RequireSSO: false,
			RequireMFA: true,
			PasswordPolicy: types.PasswordPolicy{
				MinLength:           8,
				RequireMixedClasses: true,
				ExpirationDays:      90,
			},
		},
		Features: map[string]bool{},
		Metadata: map[string]string{},
		Status:   types.OrgStatusActive,
	}
}

// orgTemplateFor is the closed type-to-template table. Adding a tenant type
// means adding exactly one case here.
func orgTemplateFor(t types.TenantType) (OrgTemplate, error) {
	switch t {
	case types.TenantIndividual:
		return OrgTemplate{
			Security: &SecurityOverride{
				RequireMFA: boolPtr(false),
			},
			Features: map[string]bool{
				"personal_dashboard": true,
			},
			BillingPlan: "individual",
			SizeBand:    "solo",
		}, nil

	case types.TenantGroup:
		return OrgTemplate{
			Teams: []types.Team{
				{ID: "team-general", Name: "General"},
			},
			Features: map[string]bool{
				"personal_dashboard": true,
				"group_dashboard":    true,
			},
			BillingPlan: "group",
			SizeBand:    "small",
		}, nil

	case types.TenantAcademic:
		return OrgTemplate{
			Security: &SecurityOverride{
				RequireSSO:     boolPtr(true),
				MinLength:      intPtr(10),
				ExpirationDays: intPtr(60),
			},
			Departments: []types.Department{
				{ID: "dept-faculty", Name: "Faculty"},
				{ID: "dept-students", Name: "Students"},
			},
			Features: map[string]bool{
				"group_dashboard":    true,
				"academic_dashboard": true,
			},
			BillingPlan: "academic",
			SizeBand:    "medium",
			Integrations: []string{
				"lms",
			},
		}, nil

	case types.TenantOrganizational:
		return OrgTemplate{
			Security: &SecurityOverride{
				RequireSSO:     boolPtr(true),
				MinLength:      intPtr(12),
				ExpirationDays: intPtr(60),
			},
			Departments: []types.Department{
				{ID: "dept-operations", Name: "Operations"},
				{ID: "dept-people", Name: "People"},
			},
			Features: map[string]bool{
				"group_dashboard": true,
				"org_dashboard":   true,
			},
			BillingPlan: "organizational",
			SizeBand:    "medium",
			Integrations: []string{
				"directory_sync",
			},
		}, nil

	case types.TenantEnterprise:
		return OrgTemplate{
			Security: &SecurityOverride{
				RequireSSO:     boolPtr(true),
				MinLength:      intPtr(14),
				ExpirationDays: intPtr(45),
			},
			Departments: []types.Department{
				{ID: "dept-operations", Name: "Operations"},
				{ID: "dept-security", Name: "Security"},
				{ID: "dept-people", Name: "People"},
			},
			Teams: []types.Team{
				{ID: "team-admins", Name: "Administrators", DepartmentID: "dept-security"},
			},
			Features: map[string]bool{
				"group_dashboard":      true,
				"org_dashboard":        true,
				"enterprise_dashboard": true,
			},
			BillingPlan: "enterprise",
			SizeBand:    "large",
			Integrations: []string{
				"directory_sync",
				"audit_export",
			},
		}, nil

	default:
		return OrgTemplate{}, types.ErrInvalidTenantType
	}
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
