package types

import (
	"errors"
	"time"
)

type OrgStatus string

const (
	OrgStatusActive    OrgStatus = "active"
	OrgStatusSuspended OrgStatus = "suspended"
	OrgStatusArchived  OrgStatus = "archived"
)

var (
	ErrOrgNotSuspendable  = errors.New("tenant: only an active organization can be suspended")
	ErrOrgNotReactivable  = errors.New("tenant: only a suspended organization can be reactivated")
	ErrOrgAlreadyArchived = errors.New("tenant: organization already archived")
)

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team belongs to exactly one organization. DepartmentID is the optional
// parent department; Members is kept free of duplicates by AddMember.
type Team struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DepartmentID string   `json:"department_id,omitempty"`
	Members      []string `json:"members,omitempty"`
}

func (t *Team) AddMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return false
		}
	}
	t.Members = append(t.Members, userID)
	return true
}

type PasswordPolicy struct {
	MinLength           int  `json:"min_length"`
	RequireMixedClasses bool `json:"require_mixed_classes"`
	ExpirationDays      int  `json:"expiration_days"`
}

type SecuritySettings struct {
	RequireSSO     bool           `json:"require_sso"`
	RequireMFA     bool           `json:"require_mfa"`
	PasswordPolicy PasswordPolicy `json:"password_policy"`
}

type Contact struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Organization is the tenant aggregate. Type is set once at creation and
// never changes; switching tenant type means creating a new Organization.
// Organizations are never physically deleted, only moved through OrgStatus.
type Organization struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	OwnerTenantID  string            `json:"owner_tenant_id,omitempty"`
	Type           TenantType        `json:"type"`
	Industry       string            `json:"industry,omitempty"`
	SizeBand       string            `json:"size_band,omitempty"`
	Departments    []Department      `json:"departments,omitempty"`
	Teams          []Team            `json:"teams,omitempty"`
	Security       SecuritySettings  `json:"security"`
	Features       map[string]bool   `json:"features,omitempty"`
	BillingPlan    string            `json:"billing_plan,omitempty"`
	Integrations   []string          `json:"integrations,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Status         OrgStatus         `json:"status"`
	PrimaryContact Contact           `json:"primary_contact"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (o *Organization) Suspend(now time.Time) error {
	if o.Status != OrgStatusActive {
		return ErrOrgNotSuspendable
	}
	o.Status = OrgStatusSuspended
	o.UpdatedAt = now
	return nil
}

func (o *Organization) Reactivate(now time.Time) error {
	if o.Status != OrgStatusSuspended {
		return ErrOrgNotReactivable
	}
	o.Status = OrgStatusActive
	o.UpdatedAt = now
	return nil
}

func (o *Organization) Archive(now time.Time) error {
	if o.Status == OrgStatusArchived {
		return ErrOrgAlreadyArchived
	}
	o.Status = OrgStatusArchived
	o.UpdatedAt = now
	return nil
}
