package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultRateTTL is how long a fetched table is served before refetching.
	DefaultRateTTL = time.Hour
	// DefaultFetchTimeout bounds a single provider fetch.
	DefaultFetchTimeout = 5 * time.Second
)

// RateCache holds at most one rate table per base currency and refetches it
// from the provider once it is older than the TTL. It never serves a table
// past its TTL from GetRates; Stale exists for explicit call-site fallback.
type RateCache struct {
	BaseService
	provider     portsrepo.RateProvider
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu     sync.RWMutex
	tables map[domain.CurrencyCode]domain.RateTable

	inflight singleflight.Group
}

// RateCacheOption is a functional option for configuring the rate cache
type RateCacheOption func(*RateCache)

// WithRateTTL sets the staleness window.
func WithRateTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) {
		c.now = now
	}
}

// NewRateCache creates an empty RateCache backed by provider.
func NewRateCache(provider portsrepo.RateProvider, options ...RateCacheOption) *RateCache {
	c := &RateCache{
		provider:     provider,
		ttl:          DefaultRateTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		tables:       make(map[domain.CurrencyCode]domain.RateTable),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.RateCacheSvc = (*RateCache)(nil)

// GetRates returns the cached table for base if it is within the TTL,
// otherwise fetches a fresh one and replaces the cache entry.
// Concurrent callers for the same base share a single in-flight fetch.
func (c *RateCache) GetRates(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	base = domain.NormalizeCode(base)
	if base == "" {
		return domain.RateTable{}, apperrors.NewValidationError("base currency is required")
	}

	if table, ok := c.fresh(base); ok {
		return table, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: err}
	}

	// The shared fetch ignores cancellation of whichever caller started it;
	// each waiter only stops on its own ctx below.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(base, func() (interface{}, error) {
		// Another caller may have completed a fetch while we queued.
		if table, ok := c.fresh(base); ok {
			return table, nil
		}
		return c.fetch(fetchCtx, base)
	})

	select {
	case <-ctx.Done():
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return domain.RateTable{}, res.Err
		}
		return res.Val.(domain.RateTable), nil
	}
}

func (c *RateCache) fresh(base domain.CurrencyCode) (domain.RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.tables[base]
	if !ok || table.IsStale(c.now(), c.ttl) {
		return domain.RateTable{}, false
	}
	return table, true
}

func (c *RateCache) fetch(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	start := c.now()
	table, err := c.provider.FetchLatest(fetchCtx, base)
	if err != nil {
		var fetchErr *apperrors.RateFetchError
		if !errors.As(err, &fetchErr) {
			err = &apperrors.RateFetchError{Base: base, Err: err}
		}
		c.LogError(ctx, err, "Failed to fetch exchange rates", slog.String("base", base))
		return domain.RateTable{}, err
	}

	table.Base = base
	if table.FetchedAt.IsZero() {
		table.FetchedAt = start
	}
	// The base is implicit; never keep it in the map.
	if _, ok := table.Rates[base]; ok {
		rates := make(map[domain.CurrencyCode]decimal.Decimal, len(table.Rates)-1)
		for code, rate := range table.Rates {
			if code != base {
				rates[code] = rate
			}
		}
		table.Rates = rates
	}

	c.mu.Lock()
	c.tables[base] = table
	c.mu.Unlock()

	c.LogDebug(ctx, "Exchange rates refreshed",
		slog.String("base", base),
		slog.Int("currencies", len(table.Rates)),
		slog.Time("fetched_at", table.FetchedAt))
	return table, nil
}

// Stale returns the last table fetched for base regardless of its age.
func (c *RateCache) Stale(base domain.CurrencyCode) (domain.RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.tables[domain.NormalizeCode(base)]
	return table, ok
}

// Invalidate drops the cached table for base so the next GetRates refetches.
func (c *RateCache) Invalidate(base domain.CurrencyCode) {
	c.mu.Lock()
	delete(c.tables, domain.NormalizeCode(base))
	c.mu.Unlock()
}
