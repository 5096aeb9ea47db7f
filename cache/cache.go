package cache

import (
	"sync"
	"time"
)

type viewEntry struct {
	Value    interface{}
	StoredAt time.Time
}

// ViewCache holds rendered read models per household. Writes drop every view
// of the affected household.
type ViewCache struct {
	mu     sync.RWMutex
	views  map[string]map[string]viewEntry // map[householdID]map[viewKey]entry
	gens   map[string]uint64               // bumped by every Invalidate
	ttl    time.Duration
	hits   int
	misses int
	now    func() time.Time
}

// NewViewCache returns a cache whose entries expire after ttl. A zero ttl
// keeps entries until they are invalidated.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		views: make(map[string]map[string]viewEntry),
		gens:  make(map[string]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached view for a household
func (vc *ViewCache) Get(householdID, key string) (interface{}, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	entry, ok := vc.views[householdID][key]
	if ok && vc.ttl > 0 && vc.now().Sub(entry.StoredAt) > vc.ttl {
		delete(vc.views[householdID], key)
		ok = false
	}
	if !ok {
		vc.misses++
		return nil, false
	}
	vc.hits++
	return entry.Value, true
}

// Set stores a view for a household
func (vc *ViewCache) Set(householdID, key string, value interface{}) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	vc.store(householdID, key, value)
}

// Generation returns the household's invalidation counter.
func (vc *ViewCache) Generation(householdID string) uint64 {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	return vc.gens[householdID]
}

// SetIfCurrent stores value only if the household has not been invalidated
// since gen was read.
func (vc *ViewCache) SetIfCurrent(householdID, key string, value interface{}, gen uint64) bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if vc.gens[householdID] != gen {
		return false
	}
	vc.store(householdID, key, value)
	return true
}

func (vc *ViewCache) store(householdID, key string, value interface{}) {
	if _, exists := vc.views[householdID]; !exists {
		vc.views[householdID] = make(map[string]viewEntry)
	}
	vc.views[householdID][key] = viewEntry{Value: value, StoredAt: vc.now()}
}

// Invalidate drops every view of a household and returns how many were held.
func (vc *ViewCache) Invalidate(householdID string) int {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	n := len(vc.views[householdID])
	delete(vc.views, householdID)
	vc.gens[householdID]++
	return n
}

// Stats returns statistics about the current cache
func (vc *ViewCache) Stats() map[string]interface{} {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	total := 0
	for _, views := range vc.views {
		total += len(views)
	}

	return map[string]interface{}{
		"households":  len(vc.views),
		"total_views": total,
		"hits":        vc.hits,
		"misses":      vc.misses,
		"ttl_seconds": vc.ttl.Seconds(),
	}
}

// Load returns the cached view under key or builds it with fn and stores it.
// A result is not stored when the household was invalidated while fn ran.
// A nil cache always calls fn.
func Load[T any](vc *ViewCache, householdID, key string, fn func() (T, error)) (T, error) {
	var gen uint64
	if vc != nil {
		gen = vc.Generation(householdID)
		if v, ok := vc.Get(householdID, key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}
	value, err := fn()
	if err != nil {
		return value, err
	}
	if vc != nil {
		vc.SetIfCurrent(householdID, key, value, gen)
	}
	return value, nil
}
