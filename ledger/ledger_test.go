// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/fixtures"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/storage"
)

// test database file
const (
	databaseFileName = "test.leveldb"
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(databaseFileName)
}

// configure for testing
func setup(t *testing.T) {
	removeFiles()
	fixtures.SetupTestLogger()
	err := storage.Initialise(databaseFileName)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

// post test cleanup
func teardown(t *testing.T) {
	storage.Finalise()
	fixtures.TeardownTestLogger()
	removeFiles()
}

func withTransaction(t *testing.T, f func(trx storage.Transaction)) {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	f(trx)
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}
}

const alice = account.Account("alice")

func TestCreditDebit(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Equal(t, uint64(0), ledger.Balance(alice), "wrong initial balance")

	withTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, 100), "wrong Credit")
		assert.Equal(t, uint64(100), ledger.BalanceIn(trx, alice), "wrong buffered balance")
	})
	assert.Equal(t, uint64(100), ledger.Balance(alice), "wrong balance")

	withTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Debit(trx, alice, 30), "wrong Debit")
	})
	assert.Equal(t, uint64(70), ledger.Balance(alice), "wrong balance")
}

func TestCreditZeroIsNoOp(t *testing.T) {
	setup(t)
	defer teardown(t)

	withTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, 0), "wrong Credit")
	})
	assert.Equal(t, uint64(0), ledger.Balance(alice), "wrong balance")
	assert.False(t, storage.Pool.Balances.Has(alice.Bytes()), "no-op credit created a record")
}

func TestDebitBelowBalance(t *testing.T) {
	setup(t)
	defer teardown(t)

	withTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, 30), "wrong Credit")
	})

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")
	err = ledger.Debit(trx, alice, 50)
	assert.Equal(t, fault.BalanceTooSmall, err, "wrong error")
	trx.Abort()

	// nothing may change on the failure path
	assert.Equal(t, uint64(30), ledger.Balance(alice), "balance changed on failed debit")
}

func TestCreditOverflow(t *testing.T) {
	setup(t)
	defer teardown(t)

	withTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, math.MaxUint64), "wrong Credit")
	})

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")
	err = ledger.Credit(trx, alice, 1)
	assert.Equal(t, fault.BalanceOverflow, err, "wrong error")
	trx.Abort()
}

func TestCompensate(t *testing.T) {
	setup(t)
	defer teardown(t)

	withTransaction(t, func(trx storage.Transaction) {
		ledger.Compensate(trx, alice, 55)
	})
	assert.Equal(t, uint64(55), ledger.Balance(alice), "wrong compensated balance")

	// compensation never fails, it saturates
	withTransaction(t, func(trx storage.Transaction) {
		ledger.Compensate(trx, alice, math.MaxUint64)
	})
	assert.Equal(t, uint64(math.MaxUint64), ledger.Balance(alice), "wrong saturated balance")
}
