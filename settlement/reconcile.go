// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/storage"
)

// Reconcile - the courier callback, exactly once per delivery
//
// success just clears the pending record; failure applies the
// compensation the record was persisted for: a payout re-credits the
// ledger, a quota transfer re-credits the quota.  Compensation may
// not be dropped, so a transaction that cannot be acquired is a
// critical failure and the pending record is left for recovery at
// next start.
func Reconcile(d courier.Delivery, delivered bool) {
	globalData.RLock()
	if !globalData.initialised {
		globalData.RUnlock()
		logger.Criticalf("settlement.Reconcile: not initialised, delivery: %s", d.Id)
		return
	}
	log := globalData.log
	globalData.RUnlock()

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		logger.Criticalf("settlement.Reconcile: no transaction for delivery: %s error: %s", d.Id, err)
		return
	}

	record, err := readPending(trx, d.Id)
	if nil != err {
		trx.Abort()
		log.Errorf("reconcile: unknown delivery: %s", d.Id)
		return
	}

	deletePending(trx, d.Id)

	if delivered {
		if err := trx.Commit(); nil != err {
			logger.Criticalf("settlement.Reconcile: commit: %s", err)
		}
		log.Infof("delivered: %s to: %s amount: %d", d.Id, record.Recipient, record.Amount)
		return
	}

	switch record.Kind {
	case courier.KindPayout:
		ledger.Compensate(trx, record.Recipient, record.Amount)
	case courier.KindQuota:
		archive.CompensateQuota(trx, record.Recipient, record.Amount)
	default:
		trx.Abort()
		logger.Criticalf("settlement.Reconcile: unknown kind: %q delivery: %s", record.Kind, d.Id)
		return
	}

	if err := trx.Commit(); nil != err {
		logger.Criticalf("settlement.Reconcile: commit: %s", err)
		return
	}
	log.Warnf("compensated: %s to: %s amount: %d", d.Id, record.Recipient, record.Amount)
}
