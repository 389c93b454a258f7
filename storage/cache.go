// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - short lived byte value cache for cold tier reads
type Cache interface {
	Get(string) ([]byte, bool)
	Set(string, []byte)
	Clear()
}

const (
	defaultExpiration = 1 * time.Minute
	cleanupInterval   = 2 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

func newCache() Cache {
	return &dbCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.([]byte), true
}

func (c *dbCache) Set(key string, value []byte) {
	c.cache.Set(key, value, defaultExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
