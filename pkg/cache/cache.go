/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache provides an LRU cache whose entries expire after a ttl.
package cache

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrInvalidSize is returned when the given size is not positive.
var ErrInvalidSize = errors.New("cache size must be > 0")

// Stats holds the hit and miss counters of a cache.
type Stats struct {
	hits   int64
	misses int64
}

// Hits returns the number of cache hits.
func (s *Stats) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the number of cache misses.
func (s *Stats) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	total := s.Hits() + s.Misses()
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits()) / float64(total) * 100.0
}

// LRU is a wrapper over hashicorp's expirable LRU counting hits and misses.
type LRU[K comparable, V any] struct {
	cache *expirable.LRU[K, V]
	stats *Stats
	name  string
}

// NewLRU creates an LRU holding at most size entries, each for at most ttl.
func NewLRU[K comparable, V any](name string, size int, ttl time.Duration) (*LRU[K, V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &LRU[K, V]{
		cache: expirable.NewLRU[K, V](size, nil, ttl),
		stats: &Stats{},
		name:  name,
	}, nil
}

// Get returns the value of the given key if it is cached and not expired.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	value, ok := c.cache.Get(key)
	if ok {
		atomic.AddInt64(&c.stats.hits, 1)
	} else {
		atomic.AddInt64(&c.stats.misses, 1)
	}
	return value, ok
}

// Add caches the given value, returning whether an entry was evicted.
func (c *LRU[K, V]) Add(key K, value V) bool {
	return c.cache.Add(key, value)
}

// Remove removes the given key, returning whether it was cached.
func (c *LRU[K, V]) Remove(key K) bool {
	return c.cache.Remove(key)
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.cache.Len()
}

// Stats returns the statistics of the cache.
func (c *LRU[K, V]) Stats() *Stats {
	return c.stats
}

// Name returns the name of the cache.
func (c *LRU[K, V]) Name() string {
	return c.name
}
