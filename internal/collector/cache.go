package collector

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"StockLens/internal/model"
)

const defaultFetchTimeout = 30 * time.Second

type cacheEntry struct {
	v   any
	exp time.Time
}

// CachingProvider memoizes successful fetches for a TTL and coalesces
// identical in-flight requests. Errors are never cached.
type CachingProvider struct {
	next  Provider
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
	// fetchTimeout bounds a shared fetch, which outlives any single caller.
	fetchTimeout time.Duration

	mu sync.RWMutex
	m  map[string]cacheEntry
}

// NewCachingProvider wraps next. A non-positive ttl disables memoization but
// keeps request coalescing.
func NewCachingProvider(next Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		next:         next,
		ttl:          ttl,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
		m:            make(map[string]cacheEntry),
	}
}

func (c *CachingProvider) Name() string { return c.next.Name() + "+cache" }

func (c *CachingProvider) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	key := strings.Join([]string{"history", ticker, start.Format("2006-01-02"), end.Format("2006-01-02")}, ":")
	v, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return c.next.FetchHistory(ctx, ticker, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PriceSeries).Clone(), nil
}

func (c *CachingProvider) FetchMetadata(ctx context.Context, ticker string) (*model.CompanyInfo, error) {
	v, err := c.load(ctx, "meta:"+ticker, func(ctx context.Context) (any, error) {
		return c.next.FetchMetadata(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	cp := *v.(*model.CompanyInfo)
	return &cp, nil
}

// Purge drops every cached entry.
func (c *CachingProvider) Purge() {
	c.mu.Lock()
	c.m = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// load serves key from the cache or runs fetch once for all concurrent
// callers. The shared fetch keeps the first caller's values but not its
// cancellation; each caller stops waiting when its own ctx is done.
func (c *CachingProvider) load(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	if v, ok := c.get(key); ok {
		log.Debug().Str("key", key).Msg("provider cache hit")
		return v, nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.set(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Debug().Str("key", key).Msg("provider fetch coalesced")
		}
		return res.Val, res.Err
	}
}

func (c *CachingProvider) get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

func (c *CachingProvider) set(key string, v any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = cacheEntry{v: v, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
