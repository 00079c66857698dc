package server

import (
	"encoding/json"
	"net/http"

	authntypes "github.com/coactive-dev/sallyport/modules/authn/domain/types"
	authnservices "github.com/coactive-dev/sallyport/modules/authn/services"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
	tenantservices "github.com/coactive-dev/sallyport/modules/tenant/services"
)

type createOrganizationRequest struct {
	Name           string                       `json:"name"`
	TenantType     string                       `json:"tenant_type"`
	PrimaryContact tenanttypes.Contact          `json:"primary_contact"`
	Overrides      *tenantservices.OrgOverrides `json:"overrides,omitempty"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	tenant, ok := currentTenant(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "tenant_missing", "tenant missing")
		return
	}

	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	tenantType, err := tenanttypes.ParseTenantType(req.TenantType)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	org, err := tenantservices.CreateOrganization(req.Name, tenantType, req.PrimaryContact, req.Overrides)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	org.OwnerTenantID = tenant.ID

	if s.orgs != nil {
		if err := s.orgs.Save(r.Context(), org); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, org)
}

type createAuthConfigRequest struct {
	TenantType string                          `json:"tenant_type"`
	Security   authntypes.SecurityOptions      `json:"security_options"`
	Custom     *authnservices.CustomAuthConfig `json:"custom,omitempty"`
}

func (s *Server) handleCreateAuthConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	tenant, ok := currentTenant(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "tenant_missing", "tenant missing")
		return
	}

	var req createAuthConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	tenantType, err := tenanttypes.ParseTenantType(req.TenantType)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cfg, err := authnservices.CreateAuthConfigForTenant(tenant.ID, tenantType, req.Security, req.Custom)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.authConfigs != nil {
		if err := s.authConfigs.Save(r.Context(), cfg); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, cfg)
}
