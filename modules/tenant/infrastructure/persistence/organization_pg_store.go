package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/coactive-dev/sallyport/modules/tenant/domain/ports"
	"github.com/coactive-dev/sallyport/modules/tenant/domain/types"
)

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type OrganizationPGStore struct {
	pool pgBeginner
}

func NewOrganizationPGStore(pool pgBeginner) ports.OrganizationStore {
	return &OrganizationPGStore{pool: pool}
}

func (s *OrganizationPGStore) Save(ctx context.Context, org types.Organization) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `SELECT set_config('app.current_tenant', $1, true);`, org.OwnerTenantID); err != nil {
		return err
	}

	payload, err := json.Marshal(org)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO tenant.organizations (id, owner_tenant_id, tenant_type, status, payload, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
ON CONFLICT (id) DO UPDATE
SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
`, org.ID, org.OwnerTenantID, string(org.Type), string(org.Status), payload, org.CreatedAt, org.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *OrganizationPGStore) Load(ctx context.Context, id string) (types.Organization, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Organization{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var payload []byte
	if err := tx.QueryRow(ctx, `
SELECT payload FROM tenant.organizations WHERE id = $1
`, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Organization{}, ports.ErrOrganizationNotFound
		}
		return types.Organization{}, err
	}

	var org types.Organization
	if err := json.Unmarshal(payload, &org); err != nil {
		return types.Organization{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.Organization{}, err
	}
	return org, nil
}

func (s *OrganizationPGStore) SetStatus(ctx context.Context, id string, status types.OrgStatus) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	tag, err := tx.Exec(ctx, `
UPDATE tenant.organizations SET status = $2, updated_at = now() WHERE id = $1
`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrOrganizationNotFound
	}
	return tx.Commit(ctx)
}
