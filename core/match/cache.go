package match

import (
	"context"
	"sync"
)

// CachedLookup memoizes TokenLookup results. Tokens are immutable once a
// corpus is registered, so entries never go stale within a lookup's
// lifetime; scope one CachedLookup to a single run (or a single corpus)
// and let it be collected afterward.
//
// Input texts repeat morae and surfaces constantly, so the mora stage in
// particular hits the same queries over and over.
type CachedLookup struct {
	next TokenLookup

	mu       sync.RWMutex
	surfaces map[string][]string
	readings map[string][]string
	morae    map[string]*MoraLocation
}

var _ TokenLookup = (*CachedLookup)(nil)

// NewCachedLookup wraps next with memoization.
func NewCachedLookup(next TokenLookup) *CachedLookup {
	return &CachedLookup{
		next:     next,
		surfaces: make(map[string][]string),
		readings: make(map[string][]string),
		morae:    make(map[string]*MoraLocation),
	}
}

func cacheKey(corpusID, value string) string {
	return corpusID + "\x00" + value
}

func (c *CachedLookup) FindBySurface(ctx context.Context, corpusID, surface string) ([]string, error) {
	key := cacheKey(corpusID, surface)
	c.mu.RLock()
	ids, ok := c.surfaces[key]
	c.mu.RUnlock()
	if ok {
		return ids, nil
	}
	ids, err := c.next.FindBySurface(ctx, corpusID, surface)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.surfaces[key] = ids
	c.mu.Unlock()
	return ids, nil
}

func (c *CachedLookup) FindByReading(ctx context.Context, corpusID, normalizedReading string) ([]string, error) {
	key := cacheKey(corpusID, normalizedReading)
	c.mu.RLock()
	ids, ok := c.readings[key]
	c.mu.RUnlock()
	if ok {
		return ids, nil
	}
	ids, err := c.next.FindByReading(ctx, corpusID, normalizedReading)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.readings[key] = ids
	c.mu.Unlock()
	return ids, nil
}

func (c *CachedLookup) LocateMora(ctx context.Context, corpusID, mora string) (*MoraLocation, error) {
	key := cacheKey(corpusID, mora)
	c.mu.RLock()
	loc, ok := c.morae[key]
	c.mu.RUnlock()
	if ok {
		return loc, nil
	}
	loc, err := c.next.LocateMora(ctx, corpusID, mora)
	if err != nil {
		return nil, err
	}
	// Absent morae are cached too; nil is a result, not a failure.
	c.mu.Lock()
	c.morae[key] = loc
	c.mu.Unlock()
	return loc, nil
}
