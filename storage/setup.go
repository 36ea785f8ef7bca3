// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"reflect"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Balances     *PoolHandle `prefix:"B"`
	LastAction   *PoolHandle `prefix:"A"`
	OptIn        *PoolHandle `prefix:"S"`
	Tokens       *PoolHandle `prefix:"T"`
	TokenOwner   *PoolHandle `prefix:"O"`
	OwnerCount   *PoolHandle `prefix:"N"`
	OwnerList    *PoolHandle `prefix:"L"`
	OwnerIndex   *PoolHandle `prefix:"D"`
	Archive      *PoolHandle `prefix:"C"`
	ArchiveCount *PoolHandle `prefix:"K"`
	Quota        *PoolHandle `prefix:"Q"`
	Packages     *PoolHandle `prefix:"P"`
	Pending      *PoolHandle `prefix:"Y"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
)

// holds the database handle
var poolData struct {
	sync.RWMutex
	db    *leveldb.DB
	batch *leveldb.Batch
	trx   Transaction
}

// Initialise - open up the database connection
//
// this must be called before any pool is accessed
func Initialise(database string) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db {
		return fault.AlreadyInitialised
	}

	db, err := openDB(database)
	if nil != err {
		return err
	}
	poolData.db = db
	poolData.batch = new(leveldb.Batch)
	poolData.trx = newTransaction(db, poolData.batch)

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	// scan each field to set up a prefixed handle
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			logger.Panicf("storage.Initialise: pool: %q has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		p := &PoolHandle{
			prefix:   prefixTag[0],
			database: db,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	return nil
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()
	dbClose()
}

// IsInitialised - check the database is open
func IsInitialised() bool {
	poolData.RLock()
	defer poolData.RUnlock()
	return nil != poolData.db
}

// NewDBTransaction - obtain the single batched transaction
//
// the execution model is one call at a time, so a second Begin before
// Commit or Abort reports fault.TransactionInUse
func NewDBTransaction() (Transaction, error) {
	if err := poolData.trx.Begin(); nil != err {
		return nil, err
	}
	return poolData.trx, nil
}

// transaction acquisition retry bounds
const (
	transactionRetryDelay = 10 * time.Millisecond
	transactionRetryLimit = 100
)

// WaitDBTransaction - obtain the transaction, waiting out a holder
//
// the single transaction is shared by every writer, so contention is
// expected and brief; concurrent callers queue here instead of seeing
// a transient TransactionInUse
func WaitDBTransaction() (Transaction, error) {
	for i := 0; i < transactionRetryLimit; i += 1 {
		trx, err := NewDBTransaction()
		if fault.TransactionInUse == err {
			time.Sleep(transactionRetryDelay)
			continue
		}
		return trx, err
	}
	return nil, fault.TransactionInUse
}

func dbClose() {
	if nil != poolData.db {
		if err := poolData.db.Close(); nil != err {
			logger.Criticalf("storage.Finalise: close error: %s", err)
		}
		poolData.db = nil
		poolData.batch = nil
		poolData.trx = nil
	}
}

// open and check or create the version record
func openDB(name string) (*leveldb.DB, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		// new database: stamp the version
		buffer := make([]byte, 8)
		binary.BigEndian.PutUint64(buffer, currentDBVersion)
		err = db.Put(versionKey, buffer, nil)
		if nil != err {
			db.Close()
			return nil, err
		}
		return db, nil
	} else if nil != err {
		db.Close()
		return nil, err
	}

	if 8 != len(versionValue) {
		db.Close()
		return nil, fault.ProcessError("database version record corrupt")
	}
	version := binary.BigEndian.Uint64(versionValue)
	if version > currentDBVersion {
		db.Close()
		logger.Criticalf("storage: database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.ProcessError("database version too new")
	}

	return db, nil
}
