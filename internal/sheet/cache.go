package sheet

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/brycewandling-glitch/paper/internal/cache"
	"github.com/brycewandling-glitch/paper/internal/metrics"
)

const (
	cacheName           = "sheets"
	defaultFetchTimeout = 30 * time.Second
)

type cacheEntry struct {
	values  Grid
	fetched time.Time
}

// CachedSource wraps a Source with a short TTL cache.
//
// Concurrent misses for one sheet share a single upstream read. The shared read runs on a
// context detached from any one caller and bounded by the fetch timeout, so a caller that
// gives up does not fail the others. When the upstream read fails and an expired entry
// exists, the expired entry is served. Writes invalidate the sheet.
// Grids returned by Values are shared and must not be modified; use ReadGrid to edit.
type CachedSource struct {
	src          Source
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	store        cache.Store

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// CacheOption configures a CachedSource
type CacheOption func(*CachedSource)

// WithClock injects the time source
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedSource) { c.now = now }
}

// WithStore adds a shared second tier, typically Redis
func WithStore(store cache.Store) CacheOption {
	return func(c *CachedSource) { c.store = store }
}

// WithFetchTimeout bounds each shared upstream read
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *CachedSource) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// NewCachedSource wraps src with a cache of the given TTL
func NewCachedSource(src Source, ttl time.Duration, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		src:          src,
		ttl:          ttl,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
		entries:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func storeKey(sheet string) string {
	return "sheet:" + sheet
}

// storedGrid carries its fetch time so every instance expires it on the same schedule
type storedGrid struct {
	Values  Grid      `json:"values"`
	Fetched time.Time `json:"fetched"`
}

// Values returns the sheet, from cache when fresh
func (c *CachedSource) Values(ctx context.Context, sheet string) (Grid, error) {
	c.mu.Lock()
	e, ok := c.entries[sheet]
	c.mu.Unlock()
	if ok && c.now().Sub(e.fetched) < c.ttl {
		metrics.RecordCacheHit(cacheName, "memory")
		return e.values, nil
	}

	ch := c.group.DoChan(sheet, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.load(fetchCtx, sheet, e, ok)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Grid), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load reads the shared tier, then upstream. stale is served when upstream fails.
func (c *CachedSource) load(ctx context.Context, sheet string, stale cacheEntry, hasStale bool) (Grid, error) {
	if c.store != nil {
		var sg storedGrid
		found, err := c.store.GetJSON(ctx, storeKey(sheet), &sg)
		if err != nil {
			log.Warn().Err(err).Str("sheet", sheet).Msg("Shared sheet cache read failed")
		}
		fetched := sg.Fetched
		if fetched.IsZero() {
			fetched = c.now()
		}
		if found && c.now().Sub(fetched) < c.ttl {
			metrics.RecordCacheHit(cacheName, "redis")
			c.putAt(sheet, sg.Values, fetched)
			return sg.Values, nil
		}
	}
	metrics.RecordCacheMiss(cacheName)

	values, err := c.src.Values(ctx, sheet)
	if err != nil {
		if hasStale {
			metrics.RecordStaleServed(cacheName)
			log.Warn().
				Err(err).
				Str("sheet", sheet).
				Dur("age", c.now().Sub(stale.fetched)).
				Msg("Sheet read failed, serving stale copy")
			return stale.values, nil
		}
		return nil, err
	}

	fetched := c.now()
	c.putAt(sheet, values, fetched)
	if c.store != nil {
		if err := c.store.SetJSON(ctx, storeKey(sheet), storedGrid{Values: values, Fetched: fetched}, c.ttl); err != nil {
			log.Warn().Err(err).Str("sheet", sheet).Msg("Shared sheet cache write failed")
		}
	}
	return values, nil
}

func (c *CachedSource) putAt(sheet string, values Grid, fetched time.Time) {
	c.mu.Lock()
	c.entries[sheet] = cacheEntry{values: values, fetched: fetched}
	c.mu.Unlock()
}

// Update writes through and invalidates the sheet
func (c *CachedSource) Update(ctx context.Context, sheet string, values Grid) error {
	defer c.Invalidate(ctx, sheet)
	return c.src.Update(ctx, sheet, values)
}

// Append writes through and invalidates the sheet
func (c *CachedSource) Append(ctx context.Context, sheet string, rows Grid) error {
	defer c.Invalidate(ctx, sheet)
	return c.src.Append(ctx, sheet, rows)
}

// Invalidate drops a sheet from both tiers
func (c *CachedSource) Invalidate(ctx context.Context, sheet string) {
	c.mu.Lock()
	delete(c.entries, sheet)
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Delete(ctx, storeKey(sheet)); err != nil {
			log.Warn().Err(err).Str("sheet", sheet).Msg("Shared sheet cache delete failed")
		}
	}
}
