package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	authntypes "github.com/coactive-dev/sallyport/modules/authn/domain/types"
	authnpersistence "github.com/coactive-dev/sallyport/modules/authn/infrastructure/persistence"
	authnservices "github.com/coactive-dev/sallyport/modules/authn/services"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
	tenantpersistence "github.com/coactive-dev/sallyport/modules/tenant/infrastructure/persistence"
	tenantservices "github.com/coactive-dev/sallyport/modules/tenant/services"
)

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS tenant;
CREATE SCHEMA IF NOT EXISTS authn;

CREATE TABLE IF NOT EXISTS tenant.organizations (
    id              text PRIMARY KEY,
    owner_tenant_id text NOT NULL,
    tenant_type     text NOT NULL,
    status          text NOT NULL,
    payload         jsonb NOT NULL,
    created_at      timestamptz NOT NULL,
    updated_at      timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS authn.tenant_auth_configs (
    tenant_id  text PRIMARY KEY,
    payload    jsonb NOT NULL,
    updated_at timestamptz NOT NULL
);
`

func main() {
	if len(os.Args) < 2 {
		fatalf("usage: dbtool <init|smoke> [args]")
	}

	switch os.Args[1] {
	case "init":
		initSchema(os.Args[2:])
	case "smoke":
		smoke(os.Args[2:])
	default:
		fatalf("unknown subcommand: %s", os.Args[1])
	}
}

func connect(args []string, name string) *pgxpool.Pool {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var url string
	fs.StringVar(&url, "url", os.Getenv("DATABASE_URL"), "postgres connection string")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if url == "" {
		fatalf("missing --url (or DATABASE_URL)")
	}

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		fatal(err)
	}
	return pool
}

func initSchema(args []string) {
	pool := connect(args, "init")
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		fatal(err)
	}
	fmt.Println("schema ready")
}

// smoke round-trips one organization and one auth config through the real
// stores, so a deployment can verify its database wiring end to end.
func smoke(args []string) {
	pool := connect(args, "smoke")
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	org, err := tenantservices.CreateOrganization("dbtool smoke", tenanttypes.TenantGroup, tenanttypes.Contact{}, nil)
	if err != nil {
		fatal(err)
	}
	org.OwnerTenantID = "dbtool-smoke"

	orgs := tenantpersistence.NewOrganizationPGStore(pool)
	if err := orgs.Save(ctx, org); err != nil {
		fatal(err)
	}
	loaded, err := orgs.Load(ctx, org.ID)
	if err != nil {
		fatal(err)
	}
	if loaded.Type != org.Type {
		fatalf("organization round-trip mismatch: %s != %s", loaded.Type, org.Type)
	}
	if err := orgs.SetStatus(ctx, org.ID, tenanttypes.OrgStatusArchived); err != nil {
		fatal(err)
	}

	cfg, err := authnservices.CreateAuthConfigForTenant("dbtool-smoke", tenanttypes.TenantGroup, authntypes.SecurityOptions{}, nil)
	if err != nil {
		fatal(err)
	}
	configs := authnpersistence.NewAuthConfigPGStore(pool)
	if err := configs.Save(ctx, cfg); err != nil {
		fatal(err)
	}
	if _, err := configs.Load(ctx, cfg.TenantID); err != nil {
		fatal(err)
	}

	fmt.Println("smoke ok")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
