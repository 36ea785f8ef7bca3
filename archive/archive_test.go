// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/fixtures"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/storage"
	"github.com/nftinder/marketd/token"
)

// test database file
const (
	databaseFileName = "test.leveldb"
	maximumQuota     = 1000
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
	err = archive.Initialise(maximumQuota)
	if nil != err {
		t.Fatalf("archive initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	archive.Finalise()
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

func TestOptIn(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.False(t, archive.IsOptedIn(alice), "wrong default opt-in")

	archive.SetOptIn(alice, true)
	assert.True(t, archive.IsOptedIn(alice), "opt-in not stored")

	archive.SetOptIn(alice, false)
	assert.False(t, archive.IsOptedIn(alice), "opt-out not stored")
}

func TestShouldArchive(t *testing.T) {
	setup(t)
	defer teardown(t)

	hint := uint64(1)

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")
	defer trx.Abort()

	// no hint, never archive
	assert.False(t, archive.ShouldArchive(trx, alice, nil), "wrong ShouldArchive")

	// hint but not opted in
	assert.False(t, archive.ShouldArchive(trx, alice, &hint), "wrong ShouldArchive")

	archive.SetOptIn(alice, true)
	assert.True(t, archive.ShouldArchive(trx, alice, &hint), "wrong ShouldArchive")

	// the hint is against the current archive count
	zero := uint64(0)
	assert.False(t, archive.ShouldArchive(trx, alice, &zero), "wrong ShouldArchive")
}

func TestStoreAndRemoveCopy(t *testing.T) {
	setup(t)
	defer teardown(t)

	archive.SetOptIn(alice, true)

	inTransaction(t, func(trx storage.Transaction) {
		archive.StoreCopy(trx, "Qm1", 0, alice)
	})

	assert.Equal(t, uint64(1), archive.Count(alice), "wrong archive count")

	// the copy is registered under the composite id
	owner, ok := ownership.OwnerOf(token.GenerateId(0, "Qm1"))
	assert.True(t, ok, "missing archived copy owner")
	assert.Equal(t, alice, owner, "wrong archived copy owner")

	items, err := archive.Collection(alice)
	assert.Nil(t, err, "wrong Collection")
	assert.Equal(t, 1, len(items), "wrong collection size")
	assert.Equal(t, "Qm1", items[0].TokenId, "wrong collection token")
	assert.Equal(t, uint64(0), items[0].Generation, "wrong collection generation")

	err = archive.RemoveCopy(bob, "Qm1", 0)
	assert.Equal(t, fault.ArchiveItemNotFound, err, "wrong error")

	err = archive.RemoveCopy(alice, "Qm1", 7)
	assert.Equal(t, fault.ArchiveItemNotFound, err, "wrong error")

	err = archive.RemoveCopy(alice, "Qm1", 0)
	assert.Nil(t, err, "wrong RemoveCopy")

	assert.Equal(t, uint64(0), archive.Count(alice), "wrong count after remove")
	_, ok = ownership.OwnerOf(token.GenerateId(0, "Qm1"))
	assert.False(t, ok, "archived copy not removed from registry")

	items, err = archive.Collection(alice)
	assert.Nil(t, err, "wrong Collection")
	assert.Equal(t, 0, len(items), "collection not empty")
}

func TestPackages(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Equal(t, fault.InvalidPackage, archive.SetPackage(0, 0, 10), "zero size not rejected")

	assert.Nil(t, archive.SetPackage(0, 100, 500), "wrong SetPackage")
	assert.Nil(t, archive.SetPackage(1, 250, 1000), "wrong SetPackage")

	pkg, err := archive.PackageByIndex(1)
	assert.Nil(t, err, "wrong PackageByIndex")
	assert.Equal(t, archive.Package{Index: 1, Size: 250, Price: 1000}, pkg, "wrong package")

	_, err = archive.PackageByIndex(9)
	assert.Equal(t, fault.PackageNotFound, err, "wrong error")

	catalog, err := archive.Packages()
	assert.Nil(t, err, "wrong Packages")
	assert.Equal(t, 2, len(catalog), "wrong catalog size")
	assert.Equal(t, uint64(0), catalog[0].Index, "wrong catalog order")

	assert.Nil(t, archive.DeletePackage(0), "wrong DeletePackage")
	assert.Equal(t, fault.PackageNotFound, archive.DeletePackage(0), "wrong error")
}

func TestBuyPackage(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Nil(t, archive.SetPackage(0, 100, 500), "wrong SetPackage")

	// no funds
	err := archive.BuyPackage(alice, 0)
	assert.Equal(t, fault.BalanceTooSmall, err, "wrong error")

	inTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, 1200), "wrong Credit")
	})

	assert.Nil(t, archive.BuyPackage(alice, 0), "wrong BuyPackage")
	assert.Equal(t, uint64(100), archive.QuotaTotal(alice), "wrong quota")
	assert.Equal(t, uint64(700), ledger.Balance(alice), "wrong balance after purchase")

	// a second purchase stacks
	assert.Nil(t, archive.BuyPackage(alice, 0), "wrong BuyPackage")
	assert.Equal(t, uint64(200), archive.QuotaTotal(alice), "wrong stacked quota")

	// unknown package
	err = archive.BuyPackage(alice, 5)
	assert.Equal(t, fault.PackageNotFound, err, "wrong error")
}

func TestBuyPackageCeiling(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Nil(t, archive.SetPackage(0, maximumQuota, 1), "wrong SetPackage")

	inTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, ledger.Credit(trx, alice, 10), "wrong Credit")
	})

	assert.Nil(t, archive.BuyPackage(alice, 0), "wrong BuyPackage")

	err := archive.BuyPackage(alice, 0)
	assert.Equal(t, fault.QuotaExceeded, err, "ceiling not enforced")
	assert.Equal(t, uint64(maximumQuota), archive.QuotaTotal(alice), "quota changed on failure")
}

func TestQuotaTransferCycle(t *testing.T) {
	setup(t)
	defer teardown(t)

	// nothing to transfer on an empty account
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")
	_, err = archive.WithdrawQuota(trx, alice)
	assert.Equal(t, fault.NothingToTransfer, err, "wrong error")
	trx.Abort()

	// give alice quota 10 with 1 slot used
	inTransaction(t, func(trx storage.Transaction) {
		assert.Nil(t, archive.GrantQuota(trx, alice, 10), "wrong GrantQuota")
		ownership.Issue(trx, "Qm1", alice)
	})

	inTransaction(t, func(trx storage.Transaction) {
		free, err := archive.WithdrawQuota(trx, alice)
		assert.Nil(t, err, "wrong WithdrawQuota")
		assert.Equal(t, uint64(9), free, "wrong free quota")
	})

	// the whole local quota is zeroed, the used slot is forfeited
	assert.Equal(t, uint64(0), archive.QuotaTotal(alice), "quota not zeroed")

	// compensation restores only the free portion
	inTransaction(t, func(trx storage.Transaction) {
		archive.CompensateQuota(trx, alice, 9)
	})
	assert.Equal(t, uint64(9), archive.QuotaTotal(alice), "wrong compensated quota")
}

func TestGrantQuotaCeiling(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "wrong NewDBTransaction")
	defer trx.Abort()

	assert.Nil(t, archive.GrantQuota(trx, alice, maximumQuota), "wrong GrantQuota")

	err = archive.GrantQuota(trx, alice, 1)
	assert.Equal(t, fault.QuotaExceeded, err, "ceiling not enforced")

	// compensation saturates instead
	archive.CompensateQuota(trx, alice, 50)
	total, _ := trx.GetN(storage.Pool.Quota, alice.Bytes())
	assert.Equal(t, uint64(maximumQuota), total, "wrong saturated quota")
}
