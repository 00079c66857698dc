package server

import (
	"net/http"
	"strings"

	"github.com/coactive-dev/sallyport/internal/obs"
	"github.com/coactive-dev/sallyport/pkg/authz"
)

const (
	headerTenantID = "X-Tenant-ID"
	headerRole     = "X-Role"
)

// requireTenant binds the tenant identity from headers into the request
// context. Requests without a tenant are rejected before any handler runs.
func requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.Header.Get(headerTenantID))
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_missing", "X-Tenant-ID header required")
			return
		}
		tenant := Tenant{
			ID:   authz.DomainFromTenantID(tenantID),
			Role: strings.TrimSpace(r.Header.Get(headerRole)),
		}
		next.ServeHTTP(w, r.WithContext(withTenant(r.Context(), tenant)))
	})
}

// requireAuthz gates a handler on the casbin policy for (object, action).
// Shadow mode logs the would-be decision without blocking.
func requireAuthz(authorizer *authz.Authorizer, object, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authorizer == nil {
			next(w, r)
			return
		}
		tenant, ok := currentTenant(r.Context())
		if !ok {
			writeError(w, http.StatusInternalServerError, "tenant_missing", "tenant missing")
			return
		}
		subject := authz.SubjectFromRoleSlug(tenant.Role)
		allowed, enforced, err := authorizer.Authorize(subject, tenant.ID, object, action)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "authz_error", "authorization check failed")
			return
		}
		if !allowed {
			obs.LogEvent(map[string]any{
				"msg":      "authz denied",
				"subject":  subject,
				"tenant":   tenant.ID,
				"object":   object,
				"action":   action,
				"enforced": enforced,
			})
			if enforced {
				writeError(w, http.StatusForbidden, "forbidden", "not allowed")
				return
			}
		}
		next(w, r)
	}
}
