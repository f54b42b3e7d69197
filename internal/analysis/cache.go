package analysis

import "sync"

// Store is the persistence boundary for cached analyses. The engine only
// needs a key-value shape, so alternative backings (a JSON file, a session
// database) can be dropped in without touching the cache logic.
type Store interface {
	// Get returns the analysis stored under hash, if any.
	Get(hash string) (Analysis, bool)
	// Put stores the analysis under its own hash, overwriting any
	// previous entry.
	Put(a Analysis)
	// All returns a copy of every stored analysis keyed by hash.
	All() map[string]Analysis
	// Clear removes every stored analysis.
	Clear()
}

// Cache holds the per-session analysis history plus the pointer to the most
// recently analyzed job. It is safe for concurrent use, though a session is
// normally driven from one goroutine at a time.
type Cache struct {
	mu       sync.RWMutex
	store    Store
	activeID string
}

// NewCache returns a Cache backed by an in-memory store.
func NewCache() *Cache {
	return NewCacheWith(NewMemoryStore())
}

// NewCacheWith returns a Cache backed by the given store.
func NewCacheWith(store Store) *Cache {
	return &Cache{store: store}
}

// Get returns the cached analysis for hash, if present.
func (c *Cache) Get(hash string) (Analysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Get(hash)
}

// Put stores an analysis in the history without changing the active pointer.
func (c *Cache) Put(a Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Put(a)
}

// SetActive marks hash as the currently active job.
func (c *Cache) SetActive(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = hash
}

// ActiveID returns the hash of the currently active job, or "" when no job
// is active.
func (c *Cache) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID
}

// Active returns the analysis the active pointer refers to. The second
// return is false when no job is active or the pointed-at entry is gone.
func (c *Cache) Active() (Analysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.activeID == "" {
		return Analysis{}, false
	}
	return c.store.Get(c.activeID)
}

// Reset clears the active pointer. With keepHistory false it also drops
// every cached analysis; with keepHistory true previously analyzed jobs
// stay available for revisiting.
func (c *Cache) Reset(keepHistory bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = ""
	if !keepHistory {
		c.store.Clear()
	}
}

// Jobs returns a copy of all cached analyses keyed by job hash.
func (c *Cache) Jobs() map[string]Analysis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.All()
}

// Len returns the number of cached analyses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store.All())
}
