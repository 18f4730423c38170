// Package cache provides a typed freshness cache: values live until their
// per-entry TTL elapses, after which a read behaves as a miss.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 5 * time.Minute

// Store is a typed key/value cache with per-entry expiry. It is safe for
// concurrent use.
type Store[V any] struct {
	c *gocache.Cache
}

// New creates an empty Store. Entries never expire unless a TTL is given at
// Set time.
func New[V any]() *Store[V] {
	return &Store[V]{
		c: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Set stores value under key with an absolute expiry of now+ttl. A
// non-positive ttl stores the value without expiry.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.c.Set(key, value, ttl)
}

// Get returns the value under key if present and unexpired.
func (s *Store[V]) Get(key string) (V, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Delete removes key unconditionally, expired or not.
func (s *Store[V]) Delete(key string) {
	s.c.Delete(key)
}
