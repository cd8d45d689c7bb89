package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// The cache holds results that are expensive to compute and never change for
// a given key, such as the exact solution of a board. Only successful loads
// are kept.

type LoadFunc[T any] func(key string) (T, error)

type Cache[T any] struct {
	sync.Mutex
	objects  map[string]T
	capacity int

	hits   uint64
	misses uint64
}

// New returns a cache that holds at most capacity objects. When it is full,
// an arbitrary object is evicted to make room.
func New[T any](capacity int) *Cache[T] {
	return &Cache[T]{objects: make(map[string]T), capacity: max(capacity, 1)}
}

func (c *Cache[T]) evictOne() {
	for k := range c.objects {
		delete(c.objects, k)
		return
	}
}

// Get returns the object stored under key, loading it with loadFunc if it is
// not there yet. The lock is not held while loading, so two callers may load
// the same key at once; the later result wins.
func (c *Cache[T]) Get(key string, loadFunc LoadFunc[T]) (T, error) {
	c.Lock()
	if obj, ok := c.objects[key]; ok {
		c.hits++
		c.Unlock()
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	c.misses++
	c.Unlock()

	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Lock()
	defer c.Unlock()
	if _, ok := c.objects[key]; !ok && len(c.objects) >= c.capacity {
		c.evictOne()
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *Cache[T]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

// Stats returns the number of hits and misses so far.
func (c *Cache[T]) Stats() (hits, misses uint64) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}
