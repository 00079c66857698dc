package ports

import (
	"context"
	"errors"

	"github.com/coactive-dev/sallyport/modules/authn/domain/types"
)

var ErrAuthConfigNotFound = errors.New("auth_config_not_found")

type AuthConfigStore interface {
	Save(ctx context.Context, cfg types.MultiTenantAuthConfig) error
	Load(ctx context.Context, tenantID string) (types.MultiTenantAuthConfig, error)
}
