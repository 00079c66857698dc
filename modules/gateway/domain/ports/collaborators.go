package ports

import "context"

// SecretSource is the secrets collaborator consumed by tier constructors.
// Lookups may block on I/O and honor ctx cancellation.
type SecretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// ConfigSource is the config collaborator consumed identically.
type ConfigSource interface {
	GetConfig(ctx context.Context, key string) (string, error)
}

// FactoryObserver receives cache telemetry from the gateway factory. A nil
// observer disables reporting.
type FactoryObserver interface {
	CacheHit(tier string)
	CacheMiss(tier string)
	ConstructFailure(tier string)
}
