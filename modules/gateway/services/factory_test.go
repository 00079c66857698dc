package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coactive-dev/sallyport/modules/gateway/domain/types"
)

type countingSecrets struct {
	calls atomic.Int64
	err   error
	block chan struct{}
}

func (s *countingSecrets) GetSecret(ctx context.Context, name string) (string, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return "secret-for-" + name, nil
}

type staticConfigs struct{}

func (staticConfigs) GetConfig(ctx context.Context, key string) (string, error) {
	return "https://example.test/" + key, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestFactory(secrets *countingSecrets, clock *fakeClock) *Factory {
	return NewFactory(FactoryOptions{
		Secrets:  secrets,
		Configs:  staticConfigs{},
		CacheTTL: time.Hour,
		Now:      clock.Now,
	})
}

func TestCreateGateway_Validation(t *testing.T) {
	f := NewFactory(FactoryOptions{})
	ctx := context.Background()

	if _, err := f.CreateGateway(ctx, "cosmic", Context{UserID: "u1"}, nil); !errors.Is(err, types.ErrUnsupportedTierType) {
		t.Fatalf("err=%v", err)
	}
	if _, err := f.CreateGateway(ctx, "", Context{UserID: "u1"}, nil); !errors.Is(err, types.ErrUnsupportedTierType) {
		t.Fatalf("err=%v", err)
	}
	if _, err := f.CreateGateway(ctx, "team", Context{}, nil); !errors.Is(err, types.ErrMissingUserContext) {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateGateway_TierNormalization(t *testing.T) {
	secrets := &countingSecrets{}
	f := newTestFactory(secrets, &fakeClock{now: time.Unix(1000, 0)})

	inst, err := f.CreateGateway(context.Background(), "  Owner_Subscriber  ", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if inst.Tier != types.TierOwnerSubscriber {
		t.Fatalf("tier=%s", inst.Tier)
	}
	if inst.Endpoint != "https://example.test/gateway.owner_subscriber.endpoint" {
		t.Fatalf("endpoint=%s", inst.Endpoint)
	}
}

func TestCreateGateway_CacheReuseAndClear(t *testing.T) {
	secrets := &countingSecrets{}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	first, err := f.CreateGateway(ctx, "owner_subscriber", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	second, err := f.CreateGateway(ctx, "owner_subscriber", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if first != second {
		t.Fatal("expected the same cached instance")
	}
	if got := secrets.calls.Load(); got != 1 {
		t.Fatalf("constructor calls=%d", got)
	}

	if n := f.ClearCache("owner_subscriber"); n != 1 {
		t.Fatalf("cleared=%d", n)
	}
	third, err := f.CreateGateway(ctx, "owner_subscriber", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if third == first {
		t.Fatal("expected reconstruction after clear")
	}
	if got := secrets.calls.Load(); got != 2 {
		t.Fatalf("constructor calls=%d", got)
	}
}

func TestCreateGateway_DistinctKeysDistinctInstances(t *testing.T) {
	secrets := &countingSecrets{}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	a, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	b, err := f.CreateGateway(ctx, "team", Context{UserID: "u1", OrgID: "o1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	c, err := f.CreateGateway(ctx, "team", Context{UserID: "u2"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if a == b || a == c || b == c {
		t.Fatal("distinct keys must not share instances")
	}
	if f.CacheSize() != 3 {
		t.Fatalf("cache size=%d", f.CacheSize())
	}
}

func TestCreateGateway_ExpiryForcesReconstruction(t *testing.T) {
	secrets := &countingSecrets{}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	first, err := f.CreateGateway(ctx, "practitioner", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	clock.Advance(59 * time.Minute)
	mid, err := f.CreateGateway(ctx, "practitioner", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if mid != first {
		t.Fatal("entry expired early")
	}

	clock.Advance(2 * time.Minute)
	late, err := f.CreateGateway(ctx, "practitioner", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if late == first {
		t.Fatal("expired entry must be reconstructed")
	}
	if got := secrets.calls.Load(); got != 2 {
		t.Fatalf("constructor calls=%d", got)
	}
}

func TestCreateGateway_ConstructionErrorNotCached(t *testing.T) {
	secrets := &countingSecrets{err: errors.New("vault down")}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	_, err := f.CreateGateway(ctx, "enterprise", Context{UserID: "u1", OrgID: "o1"}, nil)
	var failed *types.GatewayCreationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err=%v", err)
	}
	if failed.Tier != types.TierEnterprise || failed.UserID != "u1" || failed.OrgID != "o1" {
		t.Fatalf("failed=%+v", failed)
	}
	if !errors.Is(err, secrets.err) {
		t.Fatal("cause must be unwrappable")
	}
	if f.CacheSize() != 0 {
		t.Fatal("failed construction must not populate the cache")
	}

	secrets.err = nil
	if _, err := f.CreateGateway(ctx, "enterprise", Context{UserID: "u1", OrgID: "o1"}, nil); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateGateway_CancelledConstructionNotCached(t *testing.T) {
	secrets := &countingSecrets{block: make(chan struct{})}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.CreateGateway(ctx, "group", Context{UserID: "u1"}, nil)
		done <- err
	}()
	cancel()
	err := <-done
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if f.CacheSize() != 0 {
		t.Fatal("cancelled construction must not populate the cache")
	}
}

func TestCreateGateway_SingleFlightCollapsesConcurrentMisses(t *testing.T) {
	secrets := &countingSecrets{block: make(chan struct{})}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	const workers = 8
	results := make(chan *types.GatewayInstance, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inst, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil)
			if err != nil {
				errs <- err
				return
			}
			results <- inst
		}()
	}

	// Let the workers pile onto the single in-flight construction.
	time.Sleep(20 * time.Millisecond)
	close(secrets.block)
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("err=%v", err)
	}
	var firstInst *types.GatewayInstance
	for inst := range results {
		if firstInst == nil {
			firstInst = inst
		}
		if inst != firstInst {
			t.Fatal("concurrent callers must share one construction")
		}
	}
	if got := secrets.calls.Load(); got != 1 {
		t.Fatalf("constructor calls=%d", got)
	}
}

func TestCreateGateway_NoCacheMode(t *testing.T) {
	secrets := &countingSecrets{}
	f := NewFactory(FactoryOptions{
		Secrets: secrets,
		NoCache: true,
		Now:     (&fakeClock{now: time.Unix(1000, 0)}).Now,
	})
	ctx := context.Background()

	a, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	b, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if a == b {
		t.Fatal("no-cache mode must construct every time")
	}
	if got := secrets.calls.Load(); got != 2 {
		t.Fatalf("constructor calls=%d", got)
	}
}

func TestClearCache_All(t *testing.T) {
	secrets := &countingSecrets{}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := newTestFactory(secrets, clock)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2"} {
		if _, err := f.CreateGateway(ctx, "team", Context{UserID: user}, nil); err != nil {
			t.Fatalf("err=%v", err)
		}
	}
	if _, err := f.CreateGateway(ctx, "group", Context{UserID: "u1"}, nil); err != nil {
		t.Fatalf("err=%v", err)
	}

	if n := f.ClearCache("team"); n != 2 {
		t.Fatalf("cleared=%d", n)
	}
	if n := f.ClearCache(""); n != 1 {
		t.Fatalf("cleared=%d", n)
	}
	if n := f.ClearCache("team"); n != 0 {
		t.Fatalf("cleared=%d", n)
	}
}

func TestSupportedTierTypes(t *testing.T) {
	tiers := SupportedTierTypes()
	if len(tiers) != 5 {
		t.Fatalf("tiers=%v", tiers)
	}
	if tiers[0] != types.TierOwnerSubscriber {
		t.Fatalf("tiers=%v", tiers)
	}
	// Returned slice is a copy; mutating it must not touch the canonical set.
	tiers[0] = types.TierType("mutated")
	if types.TierTypes[0] != types.TierOwnerSubscriber {
		t.Fatal("canonical tier set mutated")
	}
}

func TestCapabilityToken_RoundTrip(t *testing.T) {
	secrets := &countingSecrets{}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	f := NewFactory(FactoryOptions{
		Secrets:    secrets,
		CacheTTL:   time.Hour,
		SigningKey: []byte("test-signing-key"),
		Now:        clock.Now,
	})

	inst, err := f.CreateGateway(context.Background(), "enterprise", Context{UserID: "u1", OrgID: "o1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if inst.Token == "" {
		t.Fatal("expected a capability token")
	}

	claims, err := f.VerifyCapabilityToken(inst.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "u1" || claims.OrgID != "o1" || claims.Tier != "enterprise" {
		t.Fatalf("claims=%+v", claims)
	}
	if len(claims.Capabilities) == 0 {
		t.Fatal("claims missing capabilities")
	}

	// The token dies with the cache entry.
	clock.Advance(2 * time.Hour)
	if _, err := f.VerifyCapabilityToken(inst.Token); err == nil {
		t.Fatal("expected expired token error")
	}
}

func TestCapabilityToken_DisabledWithoutKey(t *testing.T) {
	f := newTestFactory(&countingSecrets{}, &fakeClock{now: time.Unix(1000, 0)})
	inst, err := f.CreateGateway(context.Background(), "team", Context{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if inst.Token != "" {
		t.Fatal("no signing key configured, token must be empty")
	}
}

func TestCreateGateway_OptionsLayering(t *testing.T) {
	secrets := &countingSecrets{}
	f := NewFactory(FactoryOptions{
		Secrets:     secrets,
		Configs:     staticConfigs{},
		CacheTTL:    time.Hour,
		BaseOptions: map[string]string{"region": "eu", "profile": "default"},
		Now:         (&fakeClock{now: time.Unix(1000, 0)}).Now,
	})
	ctx := context.Background()

	inst, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, map[string]string{
		"profile": "strict",
		"trace":   "on",
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if inst.Options["region"] != "eu" {
		t.Fatalf("options=%v", inst.Options)
	}
	// Caller options win over the factory's base options.
	if inst.Options["profile"] != "strict" || inst.Options["trace"] != "on" {
		t.Fatalf("options=%v", inst.Options)
	}

	// Options do not extend the cache key: within the TTL the first
	// construction for (tier, user, org) wins.
	again, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, map[string]string{"profile": "lenient"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if again != inst {
		t.Fatal("expected the cached instance")
	}
	if again.Options["profile"] != "strict" {
		t.Fatalf("options=%v", again.Options)
	}
	if calls := secrets.calls.Load(); calls != 1 {
		t.Fatalf("constructor calls=%d", calls)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	hits     int
	misses   int
	failures int
}

func (o *recordingObserver) CacheHit(string) {
	o.mu.Lock()
	o.hits++
	o.mu.Unlock()
}

func (o *recordingObserver) CacheMiss(string) {
	o.mu.Lock()
	o.misses++
	o.mu.Unlock()
}

func (o *recordingObserver) ConstructFailure(string) {
	o.mu.Lock()
	o.failures++
	o.mu.Unlock()
}

func (o *recordingObserver) counts() (int, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits, o.misses, o.failures
}

func TestCreateGateway_ObserverTelemetry(t *testing.T) {
	obs := &recordingObserver{}
	secrets := &countingSecrets{}
	f := NewFactory(FactoryOptions{
		Secrets:  secrets,
		Configs:  staticConfigs{},
		CacheTTL: time.Hour,
		Observer: obs,
		Now:      (&fakeClock{now: time.Unix(1000, 0)}).Now,
	})
	ctx := context.Background()

	if _, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	if _, err := f.CreateGateway(ctx, "team", Context{UserID: "u1"}, nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	hits, misses, failures := obs.counts()
	if hits != 1 || misses != 1 || failures != 0 {
		t.Fatalf("hits=%d misses=%d failures=%d", hits, misses, failures)
	}

	secrets.err = errors.New("vault sealed")
	if _, err := f.CreateGateway(ctx, "group", Context{UserID: "u1"}, nil); err == nil {
		t.Fatal("expected construction error")
	}
	if _, _, failures := obs.counts(); failures != 1 {
		t.Fatalf("failures=%d", failures)
	}
}
