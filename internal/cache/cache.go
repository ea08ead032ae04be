package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// Region names registered by every mapper.
const (
	ConverterByDestType = "CONVERTER_BY_DEST_TYPE"
	SuperTypeCheck      = "SUPER_TYPE_CHECK"
)

var (
	// ErrCacheExists is returned when a region name is registered twice.
	ErrCacheExists = errors.New("cache already exists")
	// ErrInvalidSize is returned for a non-positive region size.
	ErrInvalidSize = errors.New("cache size must be positive")
)

// Region is a bounded LRU cache.
type Region struct {
	name    string
	maxSize int
	lru     *lru.Cache

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Get returns the cached value for key.
func (r *Region) Get(key any) (any, bool) {
	v, ok := r.lru.Get(key)
	if ok {
		r.hits.Add(1)
	} else {
		r.misses.Add(1)
	}

	return v, ok
}

// Put stores value under key, evicting the least recently used entry when full.
func (r *Region) Put(key, value any) {
	r.lru.Add(key, value)
}

// Len returns the number of entries.
func (r *Region) Len() int {
	return r.lru.Len()
}

// MaxSize returns the configured capacity.
func (r *Region) MaxSize() int {
	return r.maxSize
}

// Hits returns how many Get calls found an entry.
func (r *Region) Hits() uint64 {
	return r.hits.Load()
}

// Misses returns how many Get calls found nothing.
func (r *Region) Misses() uint64 {
	return r.misses.Load()
}

// Clear drops every entry. Counters are kept.
func (r *Region) Clear() {
	r.lru.Purge()
}

// Manager owns the regions of one mapper instance.
type Manager struct {
	mu      sync.RWMutex
	regions map[string]*Region
}

// NewManager creates a manager without regions.
func NewManager() *Manager {
	return &Manager{regions: make(map[string]*Region)}
}

// AddCache registers a region of at most maxSize entries.
func (m *Manager) AddCache(name string, maxSize int) error {
	if maxSize <= 0 {
		return fmt.Errorf("failed to add cache %s: %w", name, ErrInvalidSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.regions[name]; ok {
		return fmt.Errorf("failed to add cache %s: %w", name, ErrCacheExists)
	}

	c, err := lru.New(maxSize)
	if err != nil {
		return fmt.Errorf("failed to add cache %s: %w", name, err)
	}

	m.regions[name] = &Region{name: name, maxSize: maxSize, lru: c}

	return nil
}

// Cache returns the region registered under name, or nil.
func (m *Manager) Cache(name string) *Region {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.regions[name]
}

// Names returns the registered region names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.regions))
	for name := range m.regions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ClearAll empties every region.
func (m *Manager) ClearAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.regions {
		r.Clear()
	}
}
