package zones

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/maypok86/otter/v2"
)

// ErrCacheClosed is returned by lookups after Close.
var ErrCacheClosed = errors.New("offset cache is closed")

// OffsetEntry is a zone's offset as computed when it was cached.
type OffsetEntry struct {
	CachedAt      time.Time `json:"cached_at"`
	Zone          string    `json:"zone"`
	Abbreviation  string    `json:"abbreviation"`
	OffsetMinutes int       `json:"offset_minutes"`
}

// OffsetCache memoizes zone offsets for the lifetime of a session.
// Offsets are taken at the first lookup and reused until the TTL passes.
type OffsetCache struct {
	cache  *otter.Cache[string, OffsetEntry]
	logger *slog.Logger
	now    func() time.Time
	ttl    time.Duration
	hits   int
	misses int
	mu     sync.Mutex
	closed bool
}

// NewOffsetCache creates a cache whose entries live for ttl.
// A zero ttl uses the 24 hour default.
func NewOffsetCache(ttl time.Duration, logger *slog.Logger) *OffsetCache {
	if ttl <= 0 {
		ttl = constants.OffsetCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OffsetCache{
		cache: otter.Must(&otter.Options[string, OffsetEntry]{
			MaximumSize:      2_000,
			InitialCapacity:  len(Catalog) + 1,
			ExpiryCalculator: otter.ExpiryWriting[string, OffsetEntry](ttl),
		}),
		logger: logger,
		now:    time.Now,
		ttl:    ttl,
	}
}

// Offset returns zone's cached offset, computing and storing it on a miss.
func (c *OffsetCache) Offset(zone string) (OffsetEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return OffsetEntry{}, ErrCacheClosed
	}

	now := c.now()
	if entry, found := c.cache.GetIfPresent(zone); found {
		// otter expires on its own clock; the session clock is authoritative.
		if now.Sub(entry.CachedAt) < c.ttl {
			c.hits++
			return entry, nil
		}
		c.logger.Debug("offset cache expired", "zone", zone, "cached_at", entry.CachedAt)
		c.cache.Invalidate(zone)
	}

	loc, err := tzconvert.LoadZone(zone)
	if err != nil {
		return OffsetEntry{}, err
	}
	abbr, _ := now.In(loc).Zone()
	entry := OffsetEntry{
		Zone:          zone,
		OffsetMinutes: tzconvert.OffsetAt(now, loc),
		Abbreviation:  abbr,
		CachedAt:      now,
	}
	c.cache.Set(zone, entry)
	c.misses++
	c.logger.Debug("offset cache set", "zone", zone, "offset", entry.OffsetMinutes)
	return entry, nil
}

// Stats reports cache size and hit counts.
func (c *OffsetCache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"size":   c.cache.EstimatedSize(),
		"hits":   c.hits,
		"misses": c.misses,
	}
}

// Close drops every entry. Later lookups fail with ErrCacheClosed.
func (c *OffsetCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.cache.InvalidateAll()
	c.logger.Debug("offset cache closed")
	return nil
}
