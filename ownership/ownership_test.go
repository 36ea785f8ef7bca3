// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership_test

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/fixtures"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/storage"
)

// test database file
const (
	databaseFileName = "test.leveldb"
)

const (
	alice = account.Account("alice")
	bob   = account.Account("bob")
)

func removeFiles() {
	os.RemoveAll(databaseFileName)
}

func setup(t *testing.T) {
	removeFiles()
	fixtures.SetupTestLogger()
	err := storage.Initialise(databaseFileName)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	storage.Finalise()
	fixtures.TeardownTestLogger()
	removeFiles()
}

func inTransaction(t *testing.T, f func(trx storage.Transaction)) {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	f(trx)
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}
}

func TestIssueAndTransfer(t *testing.T) {
	setup(t)
	defer teardown(t)

	inTransaction(t, func(trx storage.Transaction) {
		ownership.Issue(trx, "Qm1", alice)

		owner, ok := ownership.CurrentOwner(trx, "Qm1")
		assert.True(t, ok, "missing owner")
		assert.Equal(t, alice, owner, "wrong owner")
	})

	owner, ok := ownership.OwnerOf("Qm1")
	assert.True(t, ok, "missing owner")
	assert.Equal(t, alice, owner, "wrong owner")

	inTransaction(t, func(trx storage.Transaction) {
		ownership.Transfer(trx, "Qm1", alice, bob)
	})

	owner, ok = ownership.OwnerOf("Qm1")
	assert.True(t, ok, "missing owner")
	assert.Equal(t, bob, owner, "wrong owner after transfer")

	assert.Equal(t, uint64(0), ownership.TotalFor(alice), "wrong total for previous owner")
	assert.Equal(t, uint64(1), ownership.TotalFor(bob), "wrong total for new owner")
}

func TestRemove(t *testing.T) {
	setup(t)
	defer teardown(t)

	inTransaction(t, func(trx storage.Transaction) {
		ownership.Issue(trx, "Qm1", alice)
	})

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")

	err = ownership.Remove(trx, "missing", alice)
	assert.Equal(t, fault.TokenNotFound, err, "wrong error")

	err = ownership.Remove(trx, "Qm1", bob)
	assert.Equal(t, fault.WrongOwner, err, "wrong error")

	err = ownership.Remove(trx, "Qm1", alice)
	assert.Nil(t, err, "wrong Remove")
	assert.Nil(t, trx.Commit(), "wrong Commit")

	_, ok := ownership.OwnerOf("Qm1")
	assert.False(t, ok, "token not removed")
	assert.Equal(t, uint64(0), ownership.TotalFor(alice), "wrong total after remove")
}

func TestListFor(t *testing.T) {
	setup(t)
	defer teardown(t)

	inTransaction(t, func(trx storage.Transaction) {
		ownership.Issue(trx, "Qm1", alice)
		ownership.Issue(trx, "Qm2", alice)
		ownership.Issue(trx, "Qm3", alice)
		ownership.Issue(trx, "Qx1", bob)
	})

	records, err := ownership.ListFor(alice, 0, 10)
	assert.Nil(t, err, "wrong ListFor")
	assert.Equal(t, 3, len(records), "wrong count")
	assert.Equal(t, "Qm1", records[0].TokenId, "wrong token")
	assert.Equal(t, uint64(0), records[0].N, "wrong index")
	assert.Equal(t, "Qm3", records[2].TokenId, "wrong token")

	// paging: resume after the first record
	records, err = ownership.ListFor(alice, records[0].N+1, 10)
	assert.Nil(t, err, "wrong ListFor")
	assert.Equal(t, 2, len(records), "wrong page count")
	assert.Equal(t, "Qm2", records[0].TokenId, "wrong page start")

	_, err = ownership.ListFor(alice, 0, 0)
	assert.Equal(t, fault.InvalidCount, err, "wrong error")

	// list indexes survive transfers: a transferred token reappears
	// at the end of the receiver's list
	inTransaction(t, func(trx storage.Transaction) {
		ownership.Transfer(trx, "Qm2", alice, bob)
	})

	records, err = ownership.ListFor(bob, 0, 10)
	assert.Nil(t, err, "wrong ListFor")
	assert.Equal(t, 2, len(records), "wrong count after transfer")
	assert.Equal(t, "Qx1", records[0].TokenId, "wrong token")
	assert.Equal(t, "Qm2", records[1].TokenId, "wrong appended token")
}

func TestTotalForLargeOwner(t *testing.T) {
	setup(t)
	defer teardown(t)

	// well past any single scan page
	const issued = 10050

	inTransaction(t, func(trx storage.Transaction) {
		for i := 0; i < issued; i += 1 {
			ownership.Issue(trx, "Qm"+strconv.Itoa(i), alice)
		}
	})

	assert.Equal(t, uint64(issued), ownership.TotalFor(alice), "wrong large total")
}
