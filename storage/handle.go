// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/nftinder/marketd/fault"
)

// PoolHandle - direct read access to one prefixed pool
//
// writes go through a Transaction so a rejected call leaves no partial
// state; the direct Put/Delete below exist for tests and recovery tools
type PoolHandle struct {
	prefix   byte
	database *leveldb.DB
}

// Element - a binary key/value pair from a range scan
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair directly to the database
func (p *PoolHandle) Put(key []byte, value []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		fault.Panic("pool.Put nil database")
		return
	}
	err := p.database.Put(p.prefixKey(key), value, nil)
	fault.PanicIfError("pool.Put", err)
}

// Delete - remove a key directly from the database
func (p *PoolHandle) Delete(key []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		fault.Panic("pool.Delete nil database")
		return
	}
	err := p.database.Delete(p.prefixKey(key), nil)
	fault.PanicIfError("pool.Delete", err)
}

// Get - read a value for a given key
//
// returns nil if the record was not found
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return nil
	}
	value, err := p.database.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	fault.PanicIfError("pool.Get", err)
	return value
}

// GetN - read a record and decode as big endian uint64
//
// second return is false if the record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	if 8 != len(buffer) {
		fault.Panic("pool.GetN truncated record")
	}
	return binary.BigEndian.Uint64(buffer), true
}

// PutN - store an 8 byte big endian record
func (p *PoolHandle) PutN(key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	p.Put(key, buffer)
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return false
	}
	value, err := p.database.Has(p.prefixKey(key), nil)
	fault.PanicIfError("pool.Has", err)
	return value
}

// Fetch - scan elements whose pool key begins with keyPrefix
//
// keyPrefix may be empty to scan the whole pool; count limits the
// result, negative count is invalid
func (p *PoolHandle) Fetch(keyPrefix []byte, count int) ([]Element, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return nil, fault.DatabaseIsNotSet
	}
	if count < 0 {
		return nil, fault.InvalidCount
	}

	iter := p.database.NewIterator(ldb_util.BytesPrefix(p.prefixKey(keyPrefix)), nil)
	defer iter.Release()

	results := make([]Element, 0, 10)
	for iter.Next() {
		if len(results) >= count {
			break
		}
		// note: iterator data is only valid until the next call
		key := make([]byte, len(iter.Key())-1)
		copy(key, iter.Key()[1:]) // strip the pool prefix
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		results = append(results, Element{Key: key, Value: value})
	}
	return results, iter.Error()
}

// CountPrefixed - number of records whose pool key begins with keyPrefix
//
// a full range walk, not bounded like Fetch, so totals stay exact for
// arbitrarily large owners
func (p *PoolHandle) CountPrefixed(keyPrefix []byte) (uint64, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == p.database {
		return 0, fault.DatabaseIsNotSet
	}

	iter := p.database.NewIterator(ldb_util.BytesPrefix(p.prefixKey(keyPrefix)), nil)
	defer iter.Release()

	n := uint64(0)
	for iter.Next() {
		n += 1
	}
	return n, iter.Error()
}
