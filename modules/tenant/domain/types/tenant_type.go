package types

import (
	"errors"
	"strings"
)

// ErrInvalidTenantType is returned when a tenant type is outside the closed set.
var ErrInvalidTenantType = errors.New("tenant: invalid tenant type")

type TenantType string

const (
	TenantIndividual     TenantType = "individual"
	TenantGroup          TenantType = "group"
	TenantAcademic       TenantType = "academic"
	TenantOrganizational TenantType = "organizational"
	TenantEnterprise     TenantType = "enterprise"
)

// TenantTypes lists the closed set in declaration order.
var TenantTypes = []TenantType{
	TenantIndividual,
	TenantGroup,
	TenantAcademic,
	TenantOrganizational,
	TenantEnterprise,
}

func ParseTenantType(raw string) (TenantType, error) {
	t := TenantType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TenantIndividual, TenantGroup, TenantAcademic, TenantOrganizational, TenantEnterprise:
		return t, nil
	default:
		return "", ErrInvalidTenantType
	}
}

func (t TenantType) Valid() bool {
	_, err := ParseTenantType(string(t))
	return err == nil
}
