package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

// OrgOverrides is the caller-supplied final merge layer. Fields left at their
// zero value (nil for pointers/slices/maps) are not applied.
type OrgOverrides struct {
	Industry     string             `json:"industry,omitempty"`
	SizeBand     string             `json:"size_band,omitempty"`
	Security     *SecurityOverride  `json:"security,omitempty"`
	Departments  []types.Department `json:"departments,omitempty"`
	Teams        []types.Team       `json:"teams,omitempty"`
	Features     map[string]bool    `json:"features,omitempty"`
	BillingPlan  string             `json:"billing_plan,omitempty"`
	Integrations []string           `json:"integrations,omitempty"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
}

// CreateOrganization builds an Organization for tenantType by merging base
// defaults, the type template and caller overrides, in that precedence.
// The only rejection is an unknown tenant type; every other input defaults.
func CreateOrganization(name string, tenantType types.TenantType, primaryContact types.Contact, overrides *OrgOverrides) (types.Organization, error) {
	tpl, err := orgTemplateFor(tenantType)
	if err != nil {
		return types.Organization{}, err
	}

	org := baseOrganization()
	org.ID = uuid.NewString()
	org.Name = strings.TrimSpace(name)
	if org.Name == "" {
		org.Name = "Unnamed Organization"
	}
	org.Type = tenantType
	org.PrimaryContact = primaryContact
	if org.PrimaryContact.DisplayName == "" {
		org.PrimaryContact.DisplayName = org.Name
	}

	applyOrgTemplate(&org, tpl)
	if overrides != nil {
		applyOrgOverrides(&org, *overrides)
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	return org, nil
}

func applyOrgTemplate(org *types.Organization, tpl OrgTemplate) {
	mergeSecurity(&org.Security, tpl.Security)
	if len(tpl.Departments) > 0 {
		org.Departments = append([]types.Department{}, tpl.Departments...)
	}
	if len(tpl.Teams) > 0 {
		org.Teams = append([]types.Team{}, tpl.Teams...)
	}
	for k, v := range tpl.Features {
		org.Features[k] = v
	}
	if tpl.BillingPlan != "" {
		org.BillingPlan = tpl.BillingPlan
	}
	if tpl.SizeBand != "" {
		org.SizeBand = tpl.SizeBand
	}
	if len(tpl.Integrations) > 0 {
		org.Integrations = append([]string{}, tpl.Integrations...)
	}
}

func applyOrgOverrides(org *types.Organization, ov OrgOverrides) {
	if ov.Industry != "" {
		org.Industry = ov.Industry
	}
	if ov.SizeBand != "" {
		org.SizeBand = ov.SizeBand
	}
	mergeSecurity(&org.Security, ov.Security)
	if ov.Departments != nil {
		org.Departments = append([]types.Department{}, ov.Departments...)
	}
	if ov.Teams != nil {
		org.Teams = append([]types.Team{}, ov.Teams...)
	}
	for k, v := range ov.Features {
		org.Features[k] = v
	}
	if ov.BillingPlan != "" {
		org.BillingPlan = ov.BillingPlan
	}
	if ov.Integrations != nil {
		org.Integrations = append([]string{}, ov.Integrations...)
	}
	for k, v := range ov.Metadata {
		org.Metadata[k] = v
	}
}

// mergeSecurity applies set fields only, so overriding one password-policy
// field never erases its siblings.
func mergeSecurity(dst *types.SecuritySettings, ov *SecurityOverride) {
	if ov == nil {
		return
	}
	if ov.RequireSSO != nil {
		dst.RequireSSO = *ov.RequireSSO
	}
	if ov.RequireMFA != nil {
		dst.RequireMFA = *ov.RequireMFA
	}
	if ov.MinLength != nil {
		dst.PasswordPolicy.MinLength = *ov.MinLength
	}
	if ov.RequireMixedClasses != nil {
		dst.PasswordPolicy.RequireMixedClasses = *ov.RequireMixedClasses
	}
	if ov.ExpirationDays != nil {
		dst.PasswordPolicy.ExpirationDays = *ov.ExpirationDays
	}
}
