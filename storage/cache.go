// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - write-through view of an open batch so reads inside a
// transaction observe their own pending writes and deletes
type Cache interface {
	Get(string) ([]byte, bool)
	Set(int, string, []byte)
	Clear()
}

// batch operation markers
const (
	dbPut = iota
	dbDelete
)

const (
	cacheCleanupInterval = 1 * time.Minute
	cacheExpiration      = 2 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

type cacheEntry struct {
	op    int
	value []byte
}

func newCache() Cache {
	return &dbCache{
		cache: cache.New(cacheExpiration, cacheCleanupInterval),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	entry := obj.(cacheEntry)
	if dbDelete == entry.op {
		// pending delete hides the database record
		return nil, true
	}
	return entry.value, true
}

func (c *dbCache) Set(op int, key string, value []byte) {
	c.cache.Set(key, cacheEntry{op: op, value: value}, cache.DefaultExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
