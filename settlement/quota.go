// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// TransferQuota - move unassigned storage quota to a cooperating
// counterpart instance
//
// same saga as the payout: the local quota is zeroed optimistically,
// the unassigned portion travels as an asynchronous delivery, and a
// failure re-credits it through Reconcile
func TransferQuota(acc account.Account) error {
	globalData.RLock()
	if !globalData.initialised {
		globalData.RUnlock()
		return fault.NotInitialised
	}
	log := globalData.log
	globalData.RUnlock()

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		return err
	}

	free, err := archive.WithdrawQuota(trx, acc)
	if nil != err {
		trx.Abort()
		return err
	}

	delivery := courier.Delivery{
		Id:        courier.NewPayoutId(courier.KindQuota, acc, free),
		Kind:      courier.KindQuota,
		Recipient: acc,
		Amount:    free,
	}
	writePending(trx, delivery)

	if err := trx.Commit(); nil != err {
		return err
	}
	courier.Send(delivery)

	log.Infof("quota transfer: %d from: %s", free, acc)
	return nil
}

// ReceiveQuota - inbound side of a quota transfer from a counterpart
//
// the caller must already be authenticated as the counterpart
// instance; the grant fails if it would push the account past the
// quota ceiling
func ReceiveQuota(acc account.Account, amount uint64) error {
	globalData.RLock()
	if !globalData.initialised {
		globalData.RUnlock()
		return fault.NotInitialised
	}
	log := globalData.log
	globalData.RUnlock()

	if err := acc.Validate(); nil != err {
		return err
	}
	if 0 == amount {
		return fault.PositiveAmountRequired
	}

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		return err
	}

	if err := archive.GrantQuota(trx, acc, amount); nil != err {
		trx.Abort()
		return err
	}
	if err := trx.Commit(); nil != err {
		return err
	}

	log.Infof("quota received: %d for: %s", amount, acc)
	return nil
}
