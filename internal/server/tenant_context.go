package server

import "context"

// Tenant is the request-scoped tenant identity, taken from request headers
// by the tenant middleware.
type Tenant struct {
	ID   string
	Role string
}

type tenantCtxKey struct{}

func withTenant(ctx context.Context, tenant Tenant) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, tenant)
}

func currentTenant(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantCtxKey{}).(Tenant)
	return t, ok
}
