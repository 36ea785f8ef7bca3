// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - per-account claimable balances
//
// balances are credited by fee distribution and compensation, debited
// by withdrawal.  All arithmetic is checked: a credit that would wrap
// fails the whole enclosing call, a debit below zero never happens.
package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/storage"
)

// Credit - add to an account's claimable balance
//
// zero amount is a no-op; overflow aborts the caller's transaction
func Credit(trx storage.Transaction, acc account.Account, amount uint64) error {
	if 0 == amount {
		return nil
	}
	balance, _ := trx.GetN(storage.Pool.Balances, acc.Bytes())
	sum, ok := feefraction.CheckedAdd(balance, amount)
	if !ok {
		return fault.BalanceOverflow
	}
	trx.PutN(storage.Pool.Balances, acc.Bytes(), sum)
	return nil
}

// Debit - remove from an account's claimable balance
//
// fails with BalanceTooSmall before any external call is issued
func Debit(trx storage.Transaction, acc account.Account, amount uint64) error {
	balance, _ := trx.GetN(storage.Pool.Balances, acc.Bytes())
	remaining, ok := feefraction.CheckedSub(balance, amount)
	if !ok {
		return fault.BalanceTooSmall
	}
	trx.PutN(storage.Pool.Balances, acc.Bytes(), remaining)
	return nil
}

// Balance - read-only query
func Balance(acc account.Account) uint64 {
	balance, _ := storage.Pool.Balances.GetN(acc.Bytes())
	return balance
}

// BalanceIn - balance as seen inside a transaction
func BalanceIn(trx storage.Transaction, acc account.Account) uint64 {
	balance, _ := trx.GetN(storage.Pool.Balances, acc.Bytes())
	return balance
}

// Compensate - re-credit after a failed external transfer
//
// this is the recovery path for funds already removed from the ledger,
// so it must not fail closed: on the (pathological) overflow the
// balance saturates and the loss is logged at critical level
func Compensate(trx storage.Transaction, acc account.Account, amount uint64) {
	balance, _ := trx.GetN(storage.Pool.Balances, acc.Bytes())
	sum, ok := feefraction.CheckedAdd(balance, amount)
	if !ok {
		logger.Criticalf("ledger.Compensate: account: %s balance: %d + %d overflows, saturating", acc, balance, amount)
		sum = ^uint64(0)
	}
	trx.PutN(storage.Pool.Balances, acc.Bytes(), sum)
}
