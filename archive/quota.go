// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import (
	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/storage"
)

// QuotaTotal - purchased storage quota of an account
func QuotaTotal(acc account.Account) uint64 {
	total, _ := storage.Pool.Quota.GetN(acc.Bytes())
	return total
}

// QuotaUsed - slots consumed by all registry records the account owns,
// live and archived
func QuotaUsed(acc account.Account) uint64 {
	return ownership.TotalFor(acc)
}

// MaximumQuota - the configured ceiling
func MaximumQuota() uint64 {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.maximumQuota
}

// BuyPackage - purchase one package from the catalog
//
// funded from the buyer's claimable balance; the full package price is
// debited in the same transaction that raises the quota
func BuyPackage(acc account.Account, index uint64) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	pkg, err := PackageByIndex(index)
	if nil != err {
		return err
	}

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		return err
	}

	total, _ := trx.GetN(storage.Pool.Quota, acc.Bytes())
	newTotal, ok := feefraction.CheckedAdd(total, pkg.Size)
	if !ok || newTotal > globalData.maximumQuota {
		trx.Abort()
		return fault.QuotaExceeded
	}

	if err := ledger.Debit(trx, acc, pkg.Price); nil != err {
		trx.Abort()
		return err
	}

	trx.PutN(storage.Pool.Quota, acc.Bytes(), newTotal)

	globalData.log.Infof("quota: %s + %d  →  %d (paid: %d)", acc, pkg.Size, newTotal, pkg.Price)
	return trx.Commit()
}

// WithdrawQuota - optimistically zero the local quota ahead of an
// asynchronous transfer, returning the unassigned portion to send
//
// the caller owns the transaction and is responsible for recording the
// in-flight amount and dispatching the delivery
func WithdrawQuota(trx storage.Transaction, acc account.Account) (uint64, error) {
	total, _ := trx.GetN(storage.Pool.Quota, acc.Bytes())
	used := ownership.TotalFor(acc)
	if used >= total {
		return 0, fault.NothingToTransfer
	}

	trx.PutN(storage.Pool.Quota, acc.Bytes(), 0)
	return total - used, nil
}

// GrantQuota - raise an account's quota, capped at the ceiling
func GrantQuota(trx storage.Transaction, acc account.Account, amount uint64) error {
	globalData.RLock()
	maximum := globalData.maximumQuota
	globalData.RUnlock()

	total, _ := trx.GetN(storage.Pool.Quota, acc.Bytes())
	newTotal, ok := feefraction.CheckedAdd(total, amount)
	if !ok || newTotal > maximum {
		return fault.QuotaExceeded
	}
	trx.PutN(storage.Pool.Quota, acc.Bytes(), newTotal)
	return nil
}

// CompensateQuota - re-credit quota after a failed outbound transfer
//
// like ledger.Compensate this must not fail closed: the quota was
// already removed locally, so saturate at the ceiling rather than
// lose the remainder
func CompensateQuota(trx storage.Transaction, acc account.Account, amount uint64) {
	globalData.RLock()
	maximum := globalData.maximumQuota
	globalData.RUnlock()

	total, _ := trx.GetN(storage.Pool.Quota, acc.Bytes())
	newTotal, ok := feefraction.CheckedAdd(total, amount)
	if !ok || newTotal > maximum {
		logger.Criticalf("archive.CompensateQuota: account: %s quota: %d + %d exceeds ceiling, saturating", acc, total, amount)
		newTotal = maximum
	}
	trx.PutN(storage.Pool.Quota, acc.Bytes(), newTotal)
}
