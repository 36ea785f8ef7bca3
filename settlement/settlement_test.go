// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement_test

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ed25519"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/fixtures"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/settlement"
	"github.com/nftinder/marketd/storage"
	"github.com/nftinder/marketd/token"
)

// test database file
const (
	databaseFileName = "test.leveldb"
	maximumQuota     = 1000
	minimumMintPrice = 100
)

const (
	operator = account.Account("market.operator")
	alice    = account.Account("alice")
	bob      = account.Account("bob")
	carol    = account.Account("carol")
	dave     = account.Account("dave")
)

func removeFiles() {
	os.RemoveAll(databaseFileName)
}

func setup(t *testing.T, loopback *courier.Loopback) {
	setupWithFractions(t, loopback,
		feefraction.Fraction{Numerator: 1, Denominator: 2},
		feefraction.Fraction{Numerator: 1, Denominator: 5},
		feefraction.Fraction{Numerator: 1, Denominator: 10})
}

func setupWithFractions(t *testing.T, loopback *courier.Loopback, seller feefraction.Fraction, referral1 feefraction.Fraction, referral2 feefraction.Fraction) {
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

	authorityKey, err := account.VerifyingKeyFromHex(fixtures.AuthorityPublicKeyHex())
	if nil != err {
		t.Fatalf("verifying key error: %s", err)
	}

	err = settlement.Initialise(settlement.Settings{
		Operator:          operator,
		AuthorityKey:      authorityKey,
		MinimumMintPrice:  minimumMintPrice,
		IncreaseFraction:  feefraction.Fraction{Numerator: 1, Denominator: 10},
		SellerFraction:    seller,
		Referral1Fraction: referral1,
		Referral2Fraction: referral2,
	})
	if nil != err {
		t.Fatalf("settlement initialise error: %s", err)
	}

	err = courier.Initialise(loopback, settlement.Reconcile)
	if nil != err {
		t.Fatalf("courier initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	courier.Finalise()
	settlement.Finalise()
	archive.Finalise()
	storage.Finalise()
	fixtures.TeardownTestLogger()
	removeFiles()
}

// wrap a signed simple_mint message into the receipt payload
func receipt(t *testing.T, payload string) []byte {
	message := `{"simple_mint":` + payload + `}`
	signature := ed25519.Sign(fixtures.AuthorityPrivateKey, []byte(message))

	wrapped, err := json.Marshal(map[string]settlement.Purchase{
		"purchase": {
			Message:   message,
			Signature: account.Signature(signature),
		},
	})
	if nil != err {
		t.Fatalf("receipt marshal error: %s", err)
	}
	return wrapped
}

// every delivery resolved and reconciled
func waitForSettled(t *testing.T) {
	for i := 0; i < 100; i += 1 {
		pending, err := settlement.PendingCount()
		if nil != err {
			t.Fatalf("pending count error: %s", err)
		}
		if 0 == courier.InFlight() && 0 == pending {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("deliveries not settled")
}

func creditBalance(t *testing.T, acc account.Account, amount uint64) {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction error: %s", err)
	}
	if err := ledger.Credit(trx, acc, amount); nil != err {
		t.Fatalf("credit error: %s", err)
	}
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit error: %s", err)
	}
}

func timestamp(offset time.Duration) uint64 {
	return uint64(time.Now().Add(offset).UnixNano())
}

func mint(t *testing.T, tokenId string, buyer account.Account, when uint64) {
	payload := `{"token_id":"` + tokenId + `","account_id":"` + string(buyer) +
		`","timestamp":` + timestampString(when) + `}`
	err := settlement.Receive(buyer, minimumMintPrice, receipt(t, payload), when)
	if nil != err {
		t.Fatalf("mint error: %s", err)
	}
}

func timestampString(when uint64) string {
	buffer, _ := json.Marshal(when)
	return string(buffer)
}

func TestFirstSale(t *testing.T) {
	setup(t, &courier.Loopback{})
	defer teardown(t)

	now := timestamp(0)
	payload := `{"token_id":"Qm1","account_id":"alice","timestamp":` + timestampString(now) + `}`

	// insufficient payment names the exact deficit
	err := settlement.Receive(alice, minimumMintPrice-1, receipt(t, payload), now)
	assert.Equal(t, fault.DeficitError(1), err, "wrong error")
	assert.True(t, fault.IsErrInsufficientPayment(err), "wrong error class")

	// the authorization burned with the rejection
	err = settlement.Receive(alice, minimumMintPrice, receipt(t, payload), now)
	assert.Equal(t, fault.StaleAuthorization, err, "wrong error")

	// fresh authorization, exact payment
	later := now + 1
	payload = `{"token_id":"Qm1","account_id":"alice","timestamp":` + timestampString(later) + `}`
	err = settlement.Receive(alice, minimumMintPrice, receipt(t, payload), later)
	assert.Nil(t, err, "wrong Receive")

	owner, ok := ownership.OwnerOf("Qm1")
	assert.True(t, ok, "token not issued")
	assert.Equal(t, alice, owner, "wrong owner")

	record, ok := token.Pricing("Qm1")
	assert.True(t, ok, "missing pricing record")
	assert.Equal(t, uint64(0), record.Generation, "wrong generation")
	assert.Equal(t, uint64(minimumMintPrice), record.Price, "wrong price")
	assert.Equal(t, later, record.LastSale, "wrong last sale")

	// the whole initial price is system share, no seller on a mint
	assert.Equal(t, uint64(minimumMintPrice), ledger.Balance(operator), "wrong system fee")
	assert.Equal(t, uint64(0), ledger.Balance(alice), "buyer balance changed")
}

func TestResale(t *testing.T) {
	loopback := &courier.Loopback{}
	setup(t, loopback)
	defer teardown(t)

	mint(t, "Qm1", alice, timestamp(0))

	// price 100, increase 10, required 110
	// seller fee 5, referral 1 fee 2, referral 2 fee 1, system fee 2
	now := timestamp(time.Second)
	payload := `{"token_id":"Qm1","account_id":"bob","referral_id_1":"carol","referral_id_2":"dave","timestamp":` + timestampString(now) + `}`
	err := settlement.Receive(bob, 110, receipt(t, payload), now)
	assert.Nil(t, err, "wrong Receive")

	owner, ok := ownership.OwnerOf("Qm1")
	assert.True(t, ok, "token lost")
	assert.Equal(t, bob, owner, "wrong owner after resale")

	record, ok := token.Pricing("Qm1")
	assert.True(t, ok, "missing pricing record")
	assert.Equal(t, uint64(1), record.Generation, "wrong generation")
	assert.Equal(t, uint64(110), record.Price, "wrong price")

	assert.Equal(t, uint64(2), ledger.Balance(carol), "wrong referral 1 fee")
	assert.Equal(t, uint64(1), ledger.Balance(dave), "wrong referral 2 fee")
	assert.Equal(t, uint64(minimumMintPrice+2), ledger.Balance(operator), "wrong system fee")

	// previous owner is paid externally, not on the ledger
	waitForSettled(t)
	assert.Equal(t, uint64(0), ledger.Balance(alice), "seller credited locally")
	assert.Equal(t, 1, loopback.Count(), "wrong delivery count")

	delivery := loopback.Deliveries[0]
	assert.Equal(t, courier.KindPayout, delivery.Kind, "wrong delivery kind")
	assert.Equal(t, alice, delivery.Recipient, "wrong payout recipient")
	assert.Equal(t, uint64(105), delivery.Amount, "wrong payout amount")
}

func TestResaleFeesExceedIncrease(t *testing.T) {
	loopback := &courier.Loopback{}
	setupWithFractions(t, loopback,
		feefraction.Fraction{Numerator: 1, Denominator: 1},
		feefraction.Fraction{Numerator: 1, Denominator: 1},
		feefraction.Fraction{Numerator: 1, Denominator: 10})
	defer teardown(t)

	mint(t, "Qm1", alice, timestamp(0))

	// price 100, increase 10: seller fee 10 and referral 1 fee 10
	// already exhaust the increase, so no system share remains
	now := timestamp(time.Second)
	payload := `{"token_id":"Qm1","account_id":"bob","referral_id_1":"carol","timestamp":` + timestampString(now) + `}`
	err := settlement.Receive(bob, 110, receipt(t, payload), now)
	assert.Nil(t, err, "wrong Receive")

	// the credited referral fee stands, the system share is skipped
	assert.Equal(t, uint64(10), ledger.Balance(carol), "wrong referral 1 fee")
	assert.Equal(t, uint64(minimumMintPrice), ledger.Balance(operator), "system share not skipped")

	waitForSettled(t)
	assert.Equal(t, 1, loopback.Count(), "wrong delivery count")
	assert.Equal(t, uint64(110), loopback.Deliveries[0].Amount, "wrong payout amount")
}

func TestResaleRejections(t *testing.T) {
	setup(t, &courier.Loopback{})
	defer teardown(t)

	mint(t, "Qm1", alice, timestamp(0))

	// underpaid by one
	now := timestamp(time.Second)
	payload := `{"token_id":"Qm1","account_id":"bob","timestamp":` + timestampString(now) + `}`
	err := settlement.Receive(bob, 109, receipt(t, payload), now)
	assert.Equal(t, fault.DeficitError(1), err, "wrong error")

	owner, _ := ownership.OwnerOf("Qm1")
	assert.Equal(t, alice, owner, "ownership moved on rejection")

	// the rejection still burned the authorization
	err = settlement.Receive(bob, 110, receipt(t, payload), now)
	assert.Equal(t, fault.StaleAuthorization, err, "wrong error")

	// current owner cannot buy from themselves
	now = timestamp(2 * time.Second)
	payload = `{"token_id":"Qm1","account_id":"alice","timestamp":` + timestampString(now) + `}`
	err = settlement.Receive(alice, 110, receipt(t, payload), now)
	assert.Equal(t, fault.CannotSelfTrade, err, "wrong error")

	// and that rejection is burned too
	err = settlement.Receive(alice, 110, receipt(t, payload), now)
	assert.Equal(t, fault.StaleAuthorization, err, "wrong error")

	record, _ := token.Pricing("Qm1")
	assert.Equal(t, uint64(0), record.Generation, "pricing advanced on rejection")
}

func TestWithdraw(t *testing.T) {
	loopback := &courier.Loopback{}
	setup(t, loopback)
	defer teardown(t)

	creditBalance(t, bob, 100)

	over := uint64(150)
	err := settlement.Withdraw(bob, &over)
	assert.Equal(t, fault.BalanceTooSmall, err, "wrong error")

	zero := uint64(0)
	err = settlement.Withdraw(bob, &zero)
	assert.Equal(t, fault.PositiveAmountRequired, err, "wrong error")

	part := uint64(30)
	err = settlement.Withdraw(bob, &part)
	assert.Nil(t, err, "wrong Withdraw")
	assert.Equal(t, uint64(70), ledger.Balance(bob), "wrong remaining balance")

	// nil amount claims the rest
	err = settlement.Withdraw(bob, nil)
	assert.Nil(t, err, "wrong Withdraw")
	assert.Equal(t, uint64(0), ledger.Balance(bob), "balance not cleared")

	waitForSettled(t)
	assert.Equal(t, 2, loopback.Count(), "wrong delivery count")
	assert.Equal(t, uint64(30), loopback.Deliveries[0].Amount, "wrong first payout")
	assert.Equal(t, uint64(70), loopback.Deliveries[1].Amount, "wrong second payout")

	// drained account has nothing left to claim
	err = settlement.Withdraw(bob, nil)
	assert.Equal(t, fault.PositiveAmountRequired, err, "wrong error")
}

func TestWithdrawCompensation(t *testing.T) {
	loopback := &courier.Loopback{FailAll: true}
	setup(t, loopback)
	defer teardown(t)

	creditBalance(t, bob, 100)

	err := settlement.Withdraw(bob, nil)
	assert.Nil(t, err, "wrong Withdraw")

	// the failed delivery re-credits the full amount
	waitForSettled(t)
	assert.Equal(t, 1, loopback.Count(), "wrong delivery count")
	assert.Equal(t, uint64(100), ledger.Balance(bob), "compensation not applied")
}

func TestResaleArchivesCopy(t *testing.T) {
	setup(t, &courier.Loopback{})
	defer teardown(t)

	archive.SetOptIn(alice, true)
	mint(t, "Qm1", alice, timestamp(0))

	now := timestamp(time.Second)
	payload := `{"token_id":"Qm1","account_id":"bob","seller_storage_capacity_hint":1,"timestamp":` + timestampString(now) + `}`
	err := settlement.Receive(bob, 110, receipt(t, payload), now)
	assert.Nil(t, err, "wrong Receive")

	assert.Equal(t, uint64(1), archive.Count(alice), "copy not archived")

	copyOwner, ok := ownership.OwnerOf(token.GenerateId(0, "Qm1"))
	assert.True(t, ok, "archived copy not registered")
	assert.Equal(t, alice, copyOwner, "wrong archived copy owner")

	// the live token moved, the archived generation stayed
	owner, _ := ownership.OwnerOf("Qm1")
	assert.Equal(t, bob, owner, "wrong owner")
	waitForSettled(t)
}

func TestQuotaTransferSaga(t *testing.T) {
	loopback := &courier.Loopback{FailAll: true}
	setup(t, loopback)
	defer teardown(t)

	err := settlement.ReceiveQuota(bob, 0)
	assert.Equal(t, fault.PositiveAmountRequired, err, "wrong error")

	err = settlement.ReceiveQuota(bob, 50)
	assert.Nil(t, err, "wrong ReceiveQuota")
	assert.Equal(t, uint64(50), archive.QuotaTotal(bob), "wrong quota")

	err = settlement.TransferQuota(bob)
	assert.Nil(t, err, "wrong TransferQuota")

	// refused by the counterpart, compensated back
	waitForSettled(t)
	assert.Equal(t, 1, loopback.Count(), "wrong delivery count")
	assert.Equal(t, courier.KindQuota, loopback.Deliveries[0].Kind, "wrong delivery kind")
	assert.Equal(t, uint64(50), loopback.Deliveries[0].Amount, "wrong transfer amount")
	assert.Equal(t, uint64(50), archive.QuotaTotal(bob), "compensation not applied")

	// empty quota cannot travel
	err = settlement.TransferQuota(alice)
	assert.Equal(t, fault.NothingToTransfer, err, "wrong error")
}

func TestOperatorAdministration(t *testing.T) {
	setup(t, &courier.Loopback{})
	defer teardown(t)

	assert.True(t, settlement.IsOperator(operator), "wrong IsOperator")
	assert.False(t, settlement.IsOperator(alice), "wrong IsOperator")

	err := settlement.SetMinimumMintPrice(alice, 200)
	assert.Equal(t, fault.NotOperator, err, "wrong error")

	err = settlement.SetMinimumMintPrice(operator, 200)
	assert.Nil(t, err, "wrong SetMinimumMintPrice")
	assert.Equal(t, uint64(200), settlement.CurrentSettings().MinimumMintPrice, "price not updated")

	err = settlement.SetMinimumMintPrice(operator, 0)
	assert.Equal(t, fault.PositiveAmountRequired, err, "wrong error")

	err = settlement.SetStoragePackage(alice, 0, 100, 500)
	assert.Equal(t, fault.NotOperator, err, "wrong error")

	err = settlement.SetStoragePackage(operator, 0, 100, 500)
	assert.Nil(t, err, "wrong SetStoragePackage")

	err = settlement.DeleteStoragePackage(operator, 0)
	assert.Nil(t, err, "wrong DeleteStoragePackage")
	assert.Equal(t, fault.PackageNotFound, settlement.DeleteStoragePackage(operator, 0), "wrong error")
}
