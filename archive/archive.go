// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package archive - superseded token copies and the storage quota
//
// when a token is resold the previous owner may keep a snapshot of the
// outgoing generation in a per-account collection.  Retention is gated
// by the owner's opt-in flag and a buyer-declared capacity hint; the
// hint is advisory, the engine does not re-verify it against the
// purchased quota (callers wanting a hard guarantee must check before
// submitting the authorization).
package archive

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/sha3"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/storage"
	"github.com/nftinder/marketd/token"
)

// CollectionItem - one archived copy in an account's collection
type CollectionItem struct {
	TokenId    string `json:"tokenId"`
	Generation uint64 `json:"generation,string"`
}

// globals
type globalDataType struct {
	sync.RWMutex
	log          *logger.L
	maximumQuota uint64

	// set once during initialise
	initialised bool
}

var globalData globalDataType

// Initialise - set the quota ceiling
func Initialise(maximumQuota uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("archive")
	globalData.log.Info("starting…")
	globalData.maximumQuota = maximumQuota

	globalData.initialised = true
	return nil
}

// Finalise - shutdown
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	globalData.initialised = false
	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// SetOptIn - owner-controlled archival flag
func SetOptIn(acc account.Account, optIn bool) {
	if optIn {
		storage.Pool.OptIn.Put(acc.Bytes(), []byte{1})
	} else {
		storage.Pool.OptIn.Delete(acc.Bytes())
	}
}

// IsOptedIn - read the archival flag, default false
func IsOptedIn(acc account.Account) bool {
	return storage.Pool.OptIn.Has(acc.Bytes())
}

// Count - archived items in an account's collection
func Count(acc account.Account) uint64 {
	count, _ := storage.Pool.ArchiveCount.GetN(acc.Bytes())
	return count
}

// ShouldArchive - the resale-time retention decision
//
// the hint is the buyer's declaration of the seller's free capacity;
// absent hint means no retention
func ShouldArchive(trx storage.Transaction, seller account.Account, hint *uint64) bool {
	if nil == hint {
		return false
	}
	if !trx.Has(storage.Pool.OptIn, seller.Bytes()) {
		return false
	}
	count, _ := trx.GetN(storage.Pool.ArchiveCount, seller.Bytes())
	return *hint > count
}

// StoreCopy - file a superseded generation into the seller's collection
//
// registers the composite-id ownership record in the same transaction
func StoreCopy(trx storage.Transaction, tokenId string, generation uint64, seller account.Account) {
	key := itemKey(seller, tokenId, generation)
	if trx.Has(storage.Pool.Archive, key) {
		// generations only move forward, so this is corruption
		logger.Criticalf("archive.StoreCopy: duplicate %q generation %d for %s", tokenId, generation, seller)
		logger.Panic("archive.StoreCopy: duplicate archive entry")
	}
	trx.Put(storage.Pool.Archive, key, []byte{1})

	count, _ := trx.GetN(storage.Pool.ArchiveCount, seller.Bytes())
	trx.PutN(storage.Pool.ArchiveCount, seller.Bytes(), count+1)

	ownership.Issue(trx, token.GenerateId(generation, tokenId), seller)
}

// RemoveCopy - owner discards an archived copy, irreversibly
//
// deletes both the collection entry and the ownership record
func RemoveCopy(acc account.Account, tokenId string, generation uint64) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		return err
	}

	key := itemKey(acc, tokenId, generation)
	if !trx.Has(storage.Pool.Archive, key) {
		trx.Abort()
		return fault.ArchiveItemNotFound
	}
	trx.Delete(storage.Pool.Archive, key)

	count, _ := trx.GetN(storage.Pool.ArchiveCount, acc.Bytes())
	if 0 == count {
		trx.Abort()
		logger.Criticalf("archive.RemoveCopy: count underflow for %s", acc)
		return fault.ArchiveItemNotFound
	}
	trx.PutN(storage.Pool.ArchiveCount, acc.Bytes(), count-1)

	if err := ownership.Remove(trx, token.GenerateId(generation, tokenId), acc); nil != err {
		trx.Abort()
		return err
	}

	globalData.log.Infof("removed: %d:%s from: %s", generation, tokenId, acc)
	return trx.Commit()
}

// Collection - list an account's archived copies
func Collection(acc account.Account) ([]CollectionItem, error) {
	namespace := accountNamespace(acc)
	elements, err := storage.Pool.Archive.Fetch(namespace, maximumCollectionScan)
	if nil != err {
		return nil, err
	}

	items := make([]CollectionItem, 0, len(elements))
	for _, e := range elements {
		rest := e.Key[len(namespace):]
		if len(rest) < 9 {
			continue // malformed key
		}
		items = append(items, CollectionItem{
			Generation: binary.BigEndian.Uint64(rest[:8]),
			TokenId:    string(rest[8:]),
		})
	}
	return items, nil
}

const maximumCollectionScan = 10000

// item keys live in a derived per-account namespace so account names of
// different lengths can never alias: sha3(account) || generation || token id
func itemKey(acc account.Account, tokenId string, generation uint64) []byte {
	namespace := accountNamespace(acc)
	key := make([]byte, 0, len(namespace)+8+len(tokenId))
	key = append(key, namespace...)
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, generation)
	key = append(key, buffer...)
	return append(key, tokenId...)
}

func accountNamespace(acc account.Account) []byte {
	digest := sha3.Sum256(acc.Bytes())
	return digest[:]
}
