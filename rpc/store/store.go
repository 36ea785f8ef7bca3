// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
)

const (
	rateLimitStore = 200
	rateBurstStore = 100
)

// Storage - type for RPC calls
type Storage struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the storage quota service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Storage {
	return &Storage{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitStore, rateBurstStore),
		IsNormalMode: isNormalMode,
	}
}

// Storage.Catalog
// ---------------

// CatalogArguments - empty arguments
type CatalogArguments struct{}

// CatalogReply - every purchasable package plus the quota ceiling
type CatalogReply struct {
	Packages     []archive.Package `json:"packages"`
	MaximumQuota uint64            `json:"maximumQuota,string"`
}

// Catalog - read-only package catalog
func (s *Storage) Catalog(_ *CatalogArguments, reply *CatalogReply) error {

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}

	packages, err := archive.Packages()
	if nil != err {
		return err
	}
	reply.Packages = packages
	reply.MaximumQuota = archive.MaximumQuota()
	return nil
}

// Storage.Buy
// -----------

// BuyArguments - purchase one catalog package
type BuyArguments struct {
	Account account.Account `json:"account"`
	Index   uint64          `json:"index,string"`
}

// BuyReply - the quota after the purchase
type BuyReply struct {
	QuotaTotal uint64 `json:"quotaTotal,string"`
}

// Buy - raise the quota, paid from the claimable balance
func (s *Storage) Buy(arguments *BuyArguments, reply *BuyReply) error {

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	if !s.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	if err := archive.BuyPackage(arguments.Account, arguments.Index); nil != err {
		return err
	}
	reply.QuotaTotal = archive.QuotaTotal(arguments.Account)
	return nil
}

// Storage.Transfer
// ----------------

// TransferArguments - send unassigned quota to the counterpart
// instance
type TransferArguments struct {
	Account account.Account `json:"account"`
}

// TransferReply - confirmation; the outcome arrives asynchronously
type TransferReply struct {
	OK bool `json:"ok"`
}

// Transfer - outbound side of the quota transfer saga
func (s *Storage) Transfer(arguments *TransferArguments, reply *TransferReply) error {

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	if !s.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}
	if err := arguments.Account.Validate(); nil != err {
		return err
	}

	if err := settlement.TransferQuota(arguments.Account); nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Storage.Inbound
// ---------------

// InboundArguments - quota arriving from the counterpart instance
type InboundArguments struct {
	Account account.Account `json:"account"`
	Amount  uint64          `json:"amount,string"`
}

// InboundReply - the quota after the grant
type InboundReply struct {
	QuotaTotal uint64 `json:"quotaTotal,string"`
}

// Inbound - receiving side of the quota transfer saga
func (s *Storage) Inbound(arguments *InboundArguments, reply *InboundReply) error {

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	if !s.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}

	if err := settlement.ReceiveQuota(arguments.Account, arguments.Amount); nil != err {
		return err
	}
	reply.QuotaTotal = archive.QuotaTotal(arguments.Account)
	return nil
}
