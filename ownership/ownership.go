// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ownership - who owns which token
//
// the registry keeps a direct token→owner map plus a per-owner list
// indexed by an append-only count, so enumeration is cheap and a
// transfer is a delete from one list and an append to another
//
// from storage/doc.go:
//
//	TokenOwner  token id         → owning account
//	OwnerCount  account          → next count value to use for appending
//	OwnerList   account || index → token id
//	OwnerIndex  account || token → position in list, for delete after transfer
package ownership

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// key separator between the account name and the rest of a composite key
//
// safe because validated account names never contain a NUL byte
const keySeparator = 0x00

// Record - one entry of an owner enumeration
type Record struct {
	N       uint64 `json:"n,string"`
	TokenId string `json:"tokenId"`
}

// CurrentOwner - look up the owner of a token inside a transaction
func CurrentOwner(trx storage.Transaction, tokenId string) (account.Account, bool) {
	owner := trx.Get(storage.Pool.TokenOwner, []byte(tokenId))
	if nil == owner {
		return "", false
	}
	return account.Account(owner), true
}

// OwnerOf - read-only owner lookup outside any transaction, for queries
func OwnerOf(tokenId string) (account.Account, bool) {
	owner := storage.Pool.TokenOwner.Get([]byte(tokenId))
	if nil == owner {
		return "", false
	}
	return account.Account(owner), true
}

// Issue - register the first owner of a token
func Issue(trx storage.Transaction, tokenId string, owner account.Account) {
	if trx.Has(storage.Pool.TokenOwner, []byte(tokenId)) {
		logger.Criticalf("ownership.Issue: token: %q already has an owner", tokenId)
		logger.Panic("ownership.Issue: duplicate issue")
	}
	appendToOwner(trx, tokenId, owner)
	trx.Put(storage.Pool.TokenOwner, []byte(tokenId), owner.Bytes())
}

// Transfer - move a token from the current owner to the next
func Transfer(trx storage.Transaction, tokenId string, currentOwner account.Account, newOwner account.Account) {
	if err := removeFromOwner(trx, tokenId, currentOwner); nil != err {
		// broken index invariant, not a caller error
		logger.Criticalf("ownership.Transfer: token: %q owner: %s error: %s", tokenId, currentOwner, err)
		logger.Panic("ownership.Transfer: ownership index corrupt")
	}
	appendToOwner(trx, tokenId, newOwner)
	trx.Put(storage.Pool.TokenOwner, []byte(tokenId), newOwner.Bytes())
}

// Remove - drop a token from the registry entirely
//
// used for archived copies the owner discards; unlike Transfer a
// mismatch is a caller error, not a corruption
func Remove(trx storage.Transaction, tokenId string, owner account.Account) error {
	recorded := trx.Get(storage.Pool.TokenOwner, []byte(tokenId))
	if nil == recorded {
		return fault.TokenNotFound
	}
	if string(recorded) != string(owner) {
		return fault.WrongOwner
	}
	if err := removeFromOwner(trx, tokenId, owner); nil != err {
		return err
	}
	trx.Delete(storage.Pool.TokenOwner, []byte(tokenId))
	return nil
}

func appendToOwner(trx storage.Transaction, tokenId string, owner account.Account) {
	nKey := owner.Bytes()
	count, _ := trx.GetN(storage.Pool.OwnerCount, nKey)

	trx.Put(storage.Pool.OwnerList, listKey(owner, count), []byte(tokenId))
	trx.PutN(storage.Pool.OwnerIndex, indexKey(owner, tokenId), count)
	trx.PutN(storage.Pool.OwnerCount, nKey, count+1)
}

func removeFromOwner(trx storage.Transaction, tokenId string, owner account.Account) error {
	dKey := indexKey(owner, tokenId)
	index, ok := trx.GetN(storage.Pool.OwnerIndex, dKey)
	if !ok {
		return fault.WrongOwner
	}
	trx.Delete(storage.Pool.OwnerList, listKey(owner, index))
	trx.Delete(storage.Pool.OwnerIndex, dKey)
	return nil
}

func listKey(owner account.Account, index uint64) []byte {
	key := make([]byte, 0, len(owner)+9)
	key = append(key, owner.Bytes()...)
	key = append(key, keySeparator)
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, index)
	return append(key, buffer...)
}

func indexKey(owner account.Account, tokenId string) []byte {
	key := make([]byte, 0, len(owner)+1+len(tokenId))
	key = append(key, owner.Bytes()...)
	key = append(key, keySeparator)
	return append(key, tokenId...)
}
