// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package accounts

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
)

const (
	rateLimitAccounts = 200
	rateBurstAccounts = 100
)

// Account - type for RPC calls
//
// callers are authenticated at the transport layer; the account named
// in the arguments is trusted to be the connected principal
type Account struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the account service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Account {
	return &Account{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitAccounts, rateBurstAccounts),
		IsNormalMode: isNormalMode,
	}
}

// Account.Status
// --------------

// StatusArguments - account to look up
type StatusArguments struct {
	Account account.Account `json:"account"`
}

// StatusReply - balance, quota and archival state of one account
type StatusReply struct {
	Balance       uint64 `json:"balance,string"`
	QuotaTotal    uint64 `json:"quotaTotal,string"`
	QuotaUsed     uint64 `json:"quotaUsed,string"`
	ArchiveOptIn  bool   `json:"archiveOptIn"`
	ArchivedItems uint64 `json:"archivedItems,string"`
}

// Status - read-only account summary
func (acc *Account) Status(arguments *StatusArguments, reply *StatusReply) error {

	if err := ratelimit.Limit(acc.Limiter); nil != err {
		return err
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	reply.Balance = ledger.Balance(arguments.Account)
	reply.QuotaTotal = archive.QuotaTotal(arguments.Account)
	reply.QuotaUsed = archive.QuotaUsed(arguments.Account)
	reply.ArchiveOptIn = archive.IsOptedIn(arguments.Account)
	reply.ArchivedItems = archive.Count(arguments.Account)
	return nil
}

// Account.Withdraw
// ----------------

// WithdrawArguments - nil amount claims the whole balance
type WithdrawArguments struct {
	Account account.Account `json:"account"`
	Amount  *uint64         `json:"amount,string,omitempty"`
}

// WithdrawReply - the amount actually claimed
type WithdrawReply struct {
	Amount uint64 `json:"amount,string"`
}

// Withdraw - claim from the internal balance via the external transfer
func (acc *Account) Withdraw(arguments *WithdrawArguments, reply *WithdrawReply) error {

	if err := ratelimit.Limit(acc.Limiter); nil != err {
		return err
	}
	if !acc.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	claim := ledger.Balance(arguments.Account)
	if nil != arguments.Amount {
		claim = *arguments.Amount
	}

	if err := settlement.Withdraw(arguments.Account, arguments.Amount); nil != err {
		return err
	}
	reply.Amount = claim
	return nil
}

// Account.SetArchival
// -------------------

// SetArchivalArguments - owner-controlled opt-in flag
type SetArchivalArguments struct {
	Account account.Account `json:"account"`
	OptIn   bool            `json:"optIn"`
}

// SetArchivalReply - the flag as stored
type SetArchivalReply struct {
	OptIn bool `json:"optIn"`
}

// SetArchival - opt in or out of keeping superseded copies
func (acc *Account) SetArchival(arguments *SetArchivalArguments, reply *SetArchivalReply) error {

	if err := ratelimit.Limit(acc.Limiter); nil != err {
		return err
	}
	if !acc.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	archive.SetOptIn(arguments.Account, arguments.OptIn)
	reply.OptIn = arguments.OptIn
	return nil
}

// Account.Collection
// ------------------

// CollectionArguments - account whose archived copies to list
type CollectionArguments struct {
	Account account.Account `json:"account"`
}

// CollectionReply - all archived copies of the account
type CollectionReply struct {
	Items []archive.CollectionItem `json:"items"`
}

// Collection - list archived copies
func (acc *Account) Collection(arguments *CollectionArguments, reply *CollectionReply) error {

	if err := ratelimit.Limit(acc.Limiter); nil != err {
		return err
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	items, err := archive.Collection(arguments.Account)
	if nil != err {
		return err
	}
	reply.Items = items
	return nil
}

// Account.DiscardCopy
// -------------------

// DiscardCopyArguments - archived copy to remove, irreversibly
type DiscardCopyArguments struct {
	Account    account.Account `json:"account"`
	TokenId    string          `json:"tokenId"`
	Generation uint64          `json:"generation,string"`
}

// DiscardCopyReply - confirmation
type DiscardCopyReply struct {
	OK bool `json:"ok"`
}

// DiscardCopy - remove one archived copy and its registry record
func (acc *Account) DiscardCopy(arguments *DiscardCopyArguments, reply *DiscardCopyReply) error {

	if err := ratelimit.Limit(acc.Limiter); nil != err {
		return err
	}
	if !acc.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	err := archive.RemoveCopy(arguments.Account, arguments.TokenId, arguments.Generation)
	if nil != err {
		return err
	}
	reply.OK = true
	return nil
}
