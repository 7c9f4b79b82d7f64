// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache implements the in-memory ephemeral cache used in front of the
// persistent response cache.
//
// Entries expire after a per-entry TTL (zero means "lives as long as the
// process") and the cache holds at most MaxEntries values, evicting the least
// recently accessed one on overflow. Get refreshes recency but never extends
// the TTL.
package cache

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache is safe for concurrent use. Expired entries stay in memory until
// Purge runs; Get already reports them as a miss.
type Cache struct {
	items      *ttlcache.Cache[string, any]
	defaultTTL time.Duration
}

// New creates a cache holding at most maxEntries values. maxEntries <= 0
// disables the size bound. defaultTTL is applied by Set.
func New(maxEntries int, defaultTTL time.Duration) *Cache {
	opts := []ttlcache.Option[string, any]{
		ttlcache.WithDisableTouchOnHit[string, any](),
	}
	if maxEntries > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, any](uint64(maxEntries)))
	}

	return &Cache{
		items:      ttlcache.New[string, any](opts...),
		defaultTTL: defaultTTL,
	}
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key. ttl == 0 never expires.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	c.items.Set(key, value, ttl)
}

// Get returns the live value stored under key and marks it most recently
// used.
func (c *Cache) Get(key string) (any, bool) {
	item := c.items.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.items.Delete(key)
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	n := 0
	for _, key := range c.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
			n++
		}
	}
	return n
}

// Purge drops expired entries and returns roughly how many went away.
func (c *Cache) Purge() int {
	before := c.items.Len()
	c.items.DeleteExpired()
	return max(before-c.items.Len(), 0)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.items.DeleteAll()
}

// Len counts stored entries.
func (c *Cache) Len() int {
	return c.items.Len()
}

// GetAs is a typed wrapper over Get. A value of another type is a miss.
func GetAs[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
