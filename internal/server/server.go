package server

import (
	"net/http"

	"github.com/coactive-dev/sallyport/internal/obs"
	authnports "github.com/coactive-dev/sallyport/modules/authn/domain/ports"
	gatewayservices "github.com/coactive-dev/sallyport/modules/gateway/services"
	iamservices "github.com/coactive-dev/sallyport/modules/iam/services"
	tenantports "github.com/coactive-dev/sallyport/modules/tenant/domain/ports"
	"github.com/coactive-dev/sallyport/pkg/authz"
)

// Server wires the provisioning services behind the HTTP API. Stores are
// optional: when nil, created entities are returned to the caller without
// being persisted.
type Server struct {
	orgs        tenantports.OrganizationStore
	authConfigs authnports.AuthConfigStore
	factory     *gatewayservices.Factory
	levels      *iamservices.LevelRegistry
	authorizer  *authz.Authorizer
}

type ServerOptions struct {
	Organizations tenantports.OrganizationStore
	AuthConfigs   authnports.AuthConfigStore
	Factory       *gatewayservices.Factory
	Levels        *iamservices.LevelRegistry
	Authorizer    *authz.Authorizer
}

func NewServer(opts ServerOptions) *Server {
	return &Server{
		orgs:        opts.Organizations,
		authConfigs: opts.AuthConfigs,
		factory:     opts.Factory,
		levels:      opts.Levels,
		authorizer:  opts.Authorizer,
	}
}

func NewMux(s *Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/organizations", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectTenantOrganizations, authz.ActionProvision, s.handleCreateOrganization)))
	mux.Handle("/api/auth-configs", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectAuthnConfigs, authz.ActionProvision, s.handleCreateAuthConfig)))
	mux.Handle("/api/authorization/validate", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectIAMChain, authz.ActionRead, s.handleValidateChain)))
	mux.Handle("/api/gateways", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectGatewayInstances, authz.ActionProvision, s.handleCreateGateway)))
	mux.Handle("/api/gateways/cache", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectGatewayCache, authz.ActionAdmin, s.handleClearCache)))
	mux.Handle("/api/gateways/tiers", requireTenant(
		requireAuthz(s.authorizer, authz.ObjectGatewayTiers, authz.ActionRead, s.handleListTiers)))

	mux.Handle("/metrics", obs.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return obs.Instrument(mux)
}
