package ports

import (
	"context"
	"errors"

	"github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

var ErrOrganizationNotFound = errors.New("organization_not_found")

type OrganizationStore interface {
	Save(ctx context.Context, org types.Organization) error
	Load(ctx context.Context, id string) (types.Organization, error)
	SetStatus(ctx context.Context, id string, status types.OrgStatus) error
}
