// Package cache provides a bounded in-memory key/value store with per-entry
// TTL expiry and least-recently-used eviction. It memoizes upstream search
// results so repeated queries within the TTL never hit the network.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config holds configuration for a Cache instance.
type Config struct {
	// DefaultTTL is applied to entries stored without an explicit TTL.
	DefaultTTL time.Duration
	// MaxSize bounds the number of live entries. When full, a Set of a new
	// key evicts the least recently used entry.
	MaxSize int
	// Prefix namespaces all keys as "prefix:key" so one cache instance can
	// be logically subdivided by use-case without key collisions.
	Prefix string
}

// DefaultConfig returns the configuration used for the search cache.
func DefaultConfig() Config {
	return Config{
		DefaultTTL: time.Hour,
		MaxSize:    1000,
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
	MaxSize   int    `json:"max_size"`
}

type entry[V any] struct {
	key          string
	value        V
	createdAt    time.Time
	lastAccessed time.Time
	ttl          time.Duration
}

func (e *entry[V]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache is a TTL+LRU cache safe for concurrent use. A single mutex
// serializes all operations; every entry access is short and in-memory, so
// contention is the only blocking concern.
type Cache[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front = least recently used, back = most recently used
	cfg     Config
	nowFunc func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a Cache with the given configuration.
func New[V any](cfg Config) *Cache[V] {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultConfig().DefaultTTL
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	return &Cache[V]{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// Get returns the value stored under key, refreshing its recency. An absent
// or expired key counts as a miss; an expired entry is removed and counted
// as an eviction.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	now := c.nowFunc()

	el, ok := c.items[c.fullKey(key)]
	if !ok {
		c.misses++
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if ent.expired(now) {
		c.remove(el)
		c.evictions++
		c.misses++
		return zero, false
	}

	ent.lastAccessed = now
	c.order.MoveToBack(el)
	c.hits++
	return ent.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.cfg.DefaultTTL)
}

// SetTTL stores value under key with an explicit TTL. All expired entries
// are swept first, which bounds growth from keys that are never read again;
// if the cache is still full and key is new, the least recently used entry
// is evicted.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	c.sweep(now)

	fk := c.fullKey(key)
	if el, ok := c.items[fk]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.createdAt = now
		ent.lastAccessed = now
		ent.ttl = ttl
		c.order.MoveToBack(el)
		return
	}

	if len(c.items) >= c.cfg.MaxSize {
		c.evictLRU()
	}

	el := c.order.PushBack(&entry[V]{
		key:          fk,
		value:        value,
		createdAt:    now,
		lastAccessed: now,
		ttl:          ttl,
	})
	c.items[fk] = el
}

// Clear drops all entries unconditionally. Counters are preserved.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Stats returns a snapshot of the cache counters and size.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.items),
		MaxSize:   c.cfg.MaxSize,
	}
}

// Keys sweeps expired entries and returns the remaining full keys in
// recency order, least recently used first.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep(c.nowFunc())

	keys := make([]string, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

func (c *Cache[V]) fullKey(key string) string {
	if c.cfg.Prefix == "" {
		return key
	}
	return c.cfg.Prefix + ":" + key
}

// sweep removes every expired entry. Callers must hold the lock.
func (c *Cache[V]) sweep(now time.Time) {
	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if el.Value.(*entry[V]).expired(now) {
			c.remove(el)
			c.evictions++
		}
	}
}

// evictLRU drops the least recently used entry. Callers must hold the lock.
func (c *Cache[V]) evictLRU() {
	if el := c.order.Front(); el != nil {
		c.remove(el)
		c.evictions++
	}
}

func (c *Cache[V]) remove(el *list.Element) {
	delete(c.items, el.Value.(*entry[V]).key)
	c.order.Remove(el)
}
