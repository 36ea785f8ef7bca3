// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/storage"
)

// Withdraw - claim part or all of the internal balance
//
// nil amount means the whole balance.  The ledger is debited before
// the external transfer is issued; a failed delivery comes back
// through Reconcile as a compensating credit.
func Withdraw(acc account.Account, amount *uint64) error {
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

	balance := ledger.BalanceIn(trx, acc)
	claim := balance
	if nil != amount {
		if balance < *amount {
			trx.Abort()
			return fault.BalanceTooSmall
		}
		claim = *amount
	}
	if 0 == claim {
		trx.Abort()
		return fault.PositiveAmountRequired
	}

	if err := ledger.Debit(trx, acc, claim); nil != err {
		trx.Abort()
		return err
	}

	delivery := courier.Delivery{
		Id:        courier.NewPayoutId(courier.KindPayout, acc, claim),
		Kind:      courier.KindPayout,
		Recipient: acc,
		Amount:    claim,
	}
	writePending(trx, delivery)

	if err := trx.Commit(); nil != err {
		return err
	}
	courier.Send(delivery)

	log.Infof("withdraw: %d by: %s", claim, acc)
	return nil
}
