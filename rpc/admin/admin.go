// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
)

const (
	rateLimitAdmin = 10
	rateBurstAdmin = 5
)

// Admin - operator-only setters
//
// every operation names its caller, which must be the configured
// operator account; each validates its own invariants before taking
// effect
type Admin struct {
	Log     *logger.L
	Limiter *rate.Limiter
}

// New - create the admin service
func New(log *logger.L) *Admin {
	return &Admin{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitAdmin, rateBurstAdmin),
	}
}

// ConfirmReply - shared confirmation reply
type ConfirmReply struct {
	OK bool `json:"ok"`
}

// Admin.SetMinimumMintPrice
// -------------------------

// SetMinimumMintPriceArguments - new first-sale price
type SetMinimumMintPriceArguments struct {
	Caller account.Account `json:"caller"`
	Price  uint64          `json:"price,string"`
}

// SetMinimumMintPrice - adjust the first-sale price
func (admin *Admin) SetMinimumMintPrice(arguments *SetMinimumMintPriceArguments, reply *ConfirmReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	admin.Log.Infof("Admin.SetMinimumMintPrice: %d by: %s", arguments.Price, arguments.Caller)

	if err := settlement.SetMinimumMintPrice(arguments.Caller, arguments.Price); nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Admin.SetAuthorityKey
// ---------------------

// SetAuthorityKeyArguments - replacement verification key, hex encoded
type SetAuthorityKeyArguments struct {
	Caller account.Account `json:"caller"`
	HexKey string          `json:"hexKey"`
}

// SetAuthorityKey - replace the authorization verification key
func (admin *Admin) SetAuthorityKey(arguments *SetAuthorityKeyArguments, reply *ConfirmReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	admin.Log.Infof("Admin.SetAuthorityKey by: %s", arguments.Caller)

	if err := settlement.SetAuthorityKey(arguments.Caller, arguments.HexKey); nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Admin.SetFractions
// ------------------

// SetFractionsArguments - all four fractions replaced together
type SetFractionsArguments struct {
	Caller    account.Account      `json:"caller"`
	Increase  feefraction.Fraction `json:"increase"`
	Seller    feefraction.Fraction `json:"seller"`
	Referral1 feefraction.Fraction `json:"referral1"`
	Referral2 feefraction.Fraction `json:"referral2"`
}

// SetFractions - adjust the pricing and fee fractions
func (admin *Admin) SetFractions(arguments *SetFractionsArguments, reply *ConfirmReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	admin.Log.Infof("Admin.SetFractions by: %s", arguments.Caller)

	err := settlement.SetFractions(arguments.Caller,
		arguments.Increase, arguments.Seller, arguments.Referral1, arguments.Referral2)
	if nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Admin.SetPackage
// ----------------

// SetPackageArguments - create or replace one catalog entry
type SetPackageArguments struct {
	Caller account.Account `json:"caller"`
	Index  uint64          `json:"index,string"`
	Size   uint64          `json:"size,string"`
	Price  uint64          `json:"price,string"`
}

// SetPackage - update the storage package catalog
func (admin *Admin) SetPackage(arguments *SetPackageArguments, reply *ConfirmReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	admin.Log.Infof("Admin.SetPackage: %d (%d, %d) by: %s",
		arguments.Index, arguments.Size, arguments.Price, arguments.Caller)

	err := settlement.SetStoragePackage(arguments.Caller, arguments.Index, arguments.Size, arguments.Price)
	if nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Admin.DeletePackage
// -------------------

// DeletePackageArguments - catalog entry to remove
type DeletePackageArguments struct {
	Caller account.Account `json:"caller"`
	Index  uint64          `json:"index,string"`
}

// DeletePackage - remove one catalog entry
func (admin *Admin) DeletePackage(arguments *DeletePackageArguments, reply *ConfirmReply) error {

	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	admin.Log.Infof("Admin.DeletePackage: %d by: %s", arguments.Index, arguments.Caller)

	if err := settlement.DeleteStoragePackage(arguments.Caller, arguments.Index); nil != err {
		return err
	}
	reply.OK = true
	return nil
}
