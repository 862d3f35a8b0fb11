package application

import (
	"sync"
	"time"
)

// warningKey identifies one conflict query. Due is the trimmed caller string
// because warnings echo it back verbatim.
type warningKey struct {
	Due       string
	ExcludeID string
}

type cachedCheck struct {
	warnings []ConflictWarning
	storedAt time.Time
}

// warningCache remembers conflict checks computed against a single store
// revision. Moving to another revision drops every entry, so writes made by
// other processes are seen as soon as the store reports them.
type warningCache struct {
	mu       sync.Mutex
	now      func() time.Time
	ttl      time.Duration
	capacity int
	revision string
	checks   map[warningKey]cachedCheck
}

// newWarningCache returns nil when ttl is not positive; a nil cache misses
// every lookup and ignores writes.
func newWarningCache(ttl time.Duration, capacity int, now func() time.Time) *warningCache {
	if ttl <= 0 {
		return nil
	}
	if capacity <= 0 {
		capacity = 128
	}
	if now == nil {
		now = time.Now
	}
	return &warningCache{
		now:      now,
		ttl:      ttl,
		capacity: capacity,
		checks:   make(map[warningKey]cachedCheck),
	}
}

func (c *warningCache) enabled() bool {
	return c != nil
}

// lookup returns a copy of the warnings cached for key at revision.
func (c *warningCache) lookup(revision string, key warningKey) ([]ConflictWarning, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if revision != c.revision {
		return nil, false
	}
	check, ok := c.checks[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(check.storedAt) >= c.ttl {
		delete(c.checks, key)
		return nil, false
	}
	return cloneWarnings(check.warnings), true
}

// remember records warnings for key. A revision different from the current
// one replaces the whole cache.
func (c *warningCache) remember(revision string, key warningKey, warnings []ConflictWarning) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if revision != c.revision {
		c.revision = revision
		c.checks = make(map[warningKey]cachedCheck)
	}
	if _, exists := c.checks[key]; !exists && len(c.checks) >= c.capacity {
		c.evictOldestLocked()
	}
	c.checks[key] = cachedCheck{warnings: cloneWarnings(warnings), storedAt: c.now()}
}

// reset forgets every entry. Local writes call it without waiting for the
// store revision to move.
func (c *warningCache) reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.revision = ""
	c.checks = make(map[warningKey]cachedCheck)
	c.mu.Unlock()
}

func (c *warningCache) evictOldestLocked() {
	var (
		oldest warningKey
		found  bool
		at     time.Time
	)
	for key, check := range c.checks {
		if !found || check.storedAt.Before(at) {
			oldest, at, found = key, check.storedAt, true
		}
	}
	if found {
		delete(c.checks, oldest)
	}
}

func cloneWarnings(warnings []ConflictWarning) []ConflictWarning {
	out := make([]ConflictWarning, len(warnings))
	for i, w := range warnings {
		w.AffectedDates = append([]string(nil), w.AffectedDates...)
		out[i] = w
	}
	return out
}
