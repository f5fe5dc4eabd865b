package cache

import (
	"sync"
	"time"

	"github.com/meridianfi/rebalance/internal/rebalance"
)

// MemoryCache provides an in-memory cache of built portfolios keyed by
// owner. Building a portfolio touches every account row, so report and
// rebalance endpoints reuse a recent build instead of re-reading the
// database on every request. Cached portfolios are shared; callers must
// treat them as read-only and apply transactions with inPlace=false.
type MemoryCache struct {
	portfolios map[int64]portfolioEntry
	mu         sync.RWMutex
	ttl        time.Duration
}

type portfolioEntry struct {
	portfolio *rebalance.Portfolio
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		portfolios: make(map[int64]portfolioEntry),
		ttl:        ttl,
	}
}

// GetPortfolio retrieves a cached portfolio if fresh
func (c *MemoryCache) GetPortfolio(ownerID int64) (*rebalance.Portfolio, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.portfolios[ownerID]
	if !exists {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.portfolio, true
}

// SetPortfolio caches a built portfolio
func (c *MemoryCache) SetPortfolio(ownerID int64, p *rebalance.Portfolio) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.portfolios[ownerID] = portfolioEntry{
		portfolio: p,
		fetchedAt: time.Now(),
	}
}

// InvalidatePortfolio removes an owner's portfolio from the cache. Any write
// to an account must call this before the response goes out.
func (c *MemoryCache) InvalidatePortfolio(ownerID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.portfolios, ownerID)
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.portfolios = make(map[int64]portfolioEntry)
	c.mu.Unlock()
}
