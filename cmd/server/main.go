package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coactive-dev/sallyport/internal/obs"
	"github.com/coactive-dev/sallyport/internal/server"
	authnpersistence "github.com/coactive-dev/sallyport/modules/authn/infrastructure/persistence"
	gatewayinfra "github.com/coactive-dev/sallyport/modules/gateway/infrastructure/sources"
	gatewayservices "github.com/coactive-dev/sallyport/modules/gateway/services"
	iamservices "github.com/coactive-dev/sallyport/modules/iam/services"
	tenantpersistence "github.com/coactive-dev/sallyport/modules/tenant/infrastructure/persistence"
	"github.com/coactive-dev/sallyport/pkg/authz"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	opts := server.ServerOptions{}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		opts.Organizations = tenantpersistence.NewOrganizationPGStore(pool)
		opts.AuthConfigs = authnpersistence.NewAuthConfigPGStore(pool)
	} else {
		log.Printf("DATABASE_URL not set; provisioned entities are not persisted")
	}

	levelsPath := cfg.LevelsPath
	if levelsPath == "" {
		levelsPath, err = iamservices.DefaultLevelsPath()
		if err != nil {
			log.Fatal(err)
		}
	}
	levels, err := iamservices.LoadLevelRegistry(levelsPath)
	if err != nil {
		log.Fatal(err)
	}
	opts.Levels = levels

	authorizer, err := authz.LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	opts.Authorizer = authorizer

	opts.Factory = gatewayservices.NewFactory(gatewayservices.FactoryOptions{
		Secrets:    gatewayinfra.NewEnvSecretSource(),
		Configs:    gatewayinfra.NewEnvConfigSource(),
		CacheTTL:   cfg.CacheTTL,
		NoCache:    cfg.NoCache,
		SigningKey: []byte(cfg.SigningKey),
		Observer:   obs.GatewayObserver{},
	})

	obs.Init()

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, server.NewMux(server.NewServer(opts))); err != nil {
		log.Fatal(err)
	}
}
