package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/coactive-dev/sallyport/modules/gateway/domain/ports"
	"github.com/coactive-dev/sallyport/modules/gateway/domain/types"
)

const DefaultCacheTTL = time.Hour

// Context identifies the caller a gateway is scoped to.
type Context struct {
	UserID string
	OrgID  string
}

type cacheEntry struct {
	instance  *types.GatewayInstance
	createdAt time.Time
	expiresAt time.Time
}

type FactoryOptions struct {
	Secrets    ports.SecretSource
	Configs    ports.ConfigSource
	CacheTTL   time.Duration
	NoCache    bool
	SigningKey []byte

	// BaseOptions are shared construction options every tier constructor
	// receives; per-call options are layered on top.
	BaseOptions map[string]string

	// Observer receives cache hit/miss/failure telemetry.
	Observer ports.FactoryObserver

	// Clock override for tests; defaults to time.Now.
	Now func() time.Time
}

// Factory builds tier-scoped gateway instances with bounded-lifetime reuse.
// Tier construction is expensive (secret retrieval), so within the TTL a key
// is served from cache, and concurrent misses for the same key collapse into
// a single construction.
type Factory struct {
	secrets     ports.SecretSource
	configs     ports.ConfigSource
	ttl         time.Duration
	noCache     bool
	signingKey  []byte
	baseOptions map[string]string
	observer    ports.FactoryObserver
	now         func() time.Time

	mu      sync.Mutex
	cache   map[string]cacheEntry
	flights singleflight.Group
}

func NewFactory(opts FactoryOptions) *Factory {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Factory{
		secrets:     opts.Secrets,
		configs:     opts.Configs,
		ttl:         ttl,
		noCache:     opts.NoCache,
		signingKey:  opts.SigningKey,
		baseOptions: opts.BaseOptions,
		observer:    opts.Observer,
		now:         now,
		cache:       map[string]cacheEntry{},
	}
}

func SupportedTierTypes() []types.TierType {
	return append([]types.TierType{}, types.TierTypes...)
}

func cacheKey(tier types.TierType, gctx Context) string {
	org := gctx.OrgID
	if org == "" {
		org = "no-org"
	}
	return string(tier) + ":" + gctx.UserID + ":" + org
}

// CreateGateway returns a cached instance for (tier, user, org) when one is
// still live, otherwise constructs one with the caller's options layered over
// the factory's base options. Options never extend the cache key: within the
// TTL the first construction for a key wins and later callers share it. A
// failed or cancelled construction never populates the cache.
func (f *Factory) CreateGateway(ctx context.Context, tierType string, gctx Context, opts map[string]string) (*types.GatewayInstance, error) {
	tier, err := types.NormalizeTierType(tierType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(gctx.UserID) == "" {
		return nil, types.ErrMissingUserContext
	}

	if f.noCache {
		f.reportMiss(tier)
		inst, err := f.constructTier(ctx, tier, gctx, opts)
		if err != nil {
			return nil, f.wrapConstructionError(tier, gctx, err)
		}
		return inst, nil
	}

	key := cacheKey(tier, gctx)
	if inst, ok := f.lookup(key); ok {
		f.reportHit(tier)
		return inst, nil
	}

	v, err, _ := f.flights.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the entry while this one waited.
		if inst, ok := f.lookup(key); ok {
			f.reportHit(tier)
			return inst, nil
		}
		f.reportMiss(tier)
		inst, err := f.constructTier(ctx, tier, gctx, opts)
		if err != nil {
			return nil, err
		}
		now := f.now()
		f.mu.Lock()
		f.cache[key] = cacheEntry{instance: inst, createdAt: now, expiresAt: now.Add(f.ttl)}
		f.mu.Unlock()
		return inst, nil
	})
	if err != nil {
		return nil, f.wrapConstructionError(tier, gctx, err)
	}
	return v.(*types.GatewayInstance), nil
}

func (f *Factory) reportHit(tier types.TierType) {
	if f.observer != nil {
		f.observer.CacheHit(string(tier))
	}
}

func (f *Factory) reportMiss(tier types.TierType) {
	if f.observer != nil {
		f.observer.CacheMiss(string(tier))
	}
}

// lookup returns a live entry and lazily evicts an expired one.
func (f *Factory) lookup(key string) (*types.GatewayInstance, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[key]
	if !ok {
		return nil, false
	}
	if !f.now().Before(entry.expiresAt) {
		delete(f.cache, key)
		return nil, false
	}
	return entry.instance, true
}

func (f *Factory) wrapConstructionError(tier types.TierType, gctx Context, err error) error {
	if f.observer != nil {
		f.observer.ConstructFailure(string(tier))
	}
	return &types.GatewayCreationFailedError{Tier: tier, UserID: gctx.UserID, OrgID: gctx.OrgID, Err: err}
}

// ClearCache removes entries for the given tier prefix, or everything when
// tierType is empty, and returns the number removed.
func (f *Factory) ClearCache(tierType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(tierType) == "" {
		n := len(f.cache)
		f.cache = map[string]cacheEntry{}
		return n
	}

	prefix := strings.ToLower(strings.TrimSpace(tierType)) + ":"
	n := 0
	for key := range f.cache {
		if strings.HasPrefix(key, prefix) {
			delete(f.cache, key)
			n++
		}
	}
	return n
}

// CacheSize reports the current entry count, expired entries included.
func (f *Factory) CacheSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}
