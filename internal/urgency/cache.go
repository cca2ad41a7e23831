package urgency

import "sync"

// TimeCache remembers the time of day found in each record's description so
// repeated render passes don't rescan it. Entries are keyed by record ID and
// description text, so an edited description starts a fresh lookup.
// Overlapping writers for the same key compute the same value.
type TimeCache struct {
	mu    sync.RWMutex
	times map[cacheKey]string
}

type cacheKey struct {
	id          string
	description string
}

// NewTimeCache creates an empty cache.
func NewTimeCache() *TimeCache {
	return &TimeCache{times: make(map[cacheKey]string)}
}

// Get returns the cached "HH:MM" scanned from description for id.
func (c *TimeCache) Get(id, description string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.times[cacheKey{id, description}]
	return t, ok
}

// Len returns the number of cached entries.
func (c *TimeCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.times)
}

func (c *TimeCache) put(key cacheKey, hhmm string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.times[key]; ok {
		return existing
	}
	c.times[key] = hhmm
	return hhmm
}

// Resolve returns the time of day for a record: the explicit dueTime when it
// is a valid "HH:MM", otherwise a 12-hour time found in description.
// The explicit time is always read fresh. Only description scans are cached;
// records without an ID and descriptions with no time are scanned again.
func (c *TimeCache) Resolve(id string, dueTime, description *string) (string, bool) {
	if dueTime != nil {
		if t, ok := NormalizeHHMM(*dueTime); ok {
			return t, true
		}
	}
	if description == nil {
		return "", false
	}

	key := cacheKey{id, *description}
	if c != nil && id != "" {
		if t, ok := c.Get(key.id, key.description); ok {
			return t, true
		}
	}
	t, ok := ParseClockTime(*description)
	if !ok {
		return "", false
	}
	if c != nil && id != "" {
		t = c.put(key, t)
	}
	return t, true
}

func resolveTime(dueTime, description *string) (string, bool) {
	var none *TimeCache
	return none.Resolve("", dueTime, description)
}
