package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/coactive-dev/sallyport/modules/authn/domain/ports"
	"github.com/coactive-dev/sallyport/modules/authn/domain/types"
)

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type AuthConfigPGStore struct {
	pool pgBeginner
}

func NewAuthConfigPGStore(pool pgBeginner) ports.AuthConfigStore {
	return &AuthConfigPGStore{pool: pool}
}

// Save replaces the whole config row. Configs are regenerated, never patched,
// so an upsert of the full payload is the only write shape.
func (s *AuthConfigPGStore) Save(ctx context.Context, cfg types.MultiTenantAuthConfig) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `SELECT set_config('app.current_tenant', $1, true);`, cfg.TenantID); err != nil {
		return err
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO authn.tenant_auth_configs (tenant_id, payload, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (tenant_id) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = now()
`, cfg.TenantID, payload); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *AuthConfigPGStore) Load(ctx context.Context, tenantID string) (types.MultiTenantAuthConfig, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.MultiTenantAuthConfig{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var payload []byte
	if err := tx.QueryRow(ctx, `
SELECT payload FROM authn.tenant_auth_configs WHERE tenant_id = $1
`, tenantID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.MultiTenantAuthConfig{}, ports.ErrAuthConfigNotFound
		}
		return types.MultiTenantAuthConfig{}, err
	}

	var cfg types.MultiTenantAuthConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return types.MultiTenantAuthConfig{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.MultiTenantAuthConfig{}, err
	}
	return cfg, nil
}
