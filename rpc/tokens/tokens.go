// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokens

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
	"github.com/nftinder/marketd/token"
)

const (
	rateLimitTokens = 200
	rateBurstTokens = 100
)

// limit for owned list
const maximumTokenList = 100

// Token - type for RPC calls
type Token struct {
	Log     *logger.L
	Limiter *rate.Limiter
}

// New - create the token query service
func New(log *logger.L) *Token {
	return &Token{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitTokens, rateBurstTokens),
	}
}

// Token.Get
// ---------

// GetArguments - token to look up
type GetArguments struct {
	TokenId string `json:"tokenId"`
}

// GetReply - ownership and pricing of one token
//
// the seller archive fields let a prospective buyer fill in the
// storage capacity hint of the purchase authorization
type GetReply struct {
	TokenId         string          `json:"tokenId"`
	Owner           account.Account `json:"owner"`
	Generation      uint64          `json:"generation,string"`
	Price           uint64          `json:"price,string"`
	RequiredPayment uint64          `json:"requiredPayment,string"`
	LastSale        uint64          `json:"lastSale,string"`
	SellerOptedIn   bool            `json:"sellerOptedIn"`
	SellerArchived  uint64          `json:"sellerArchived,string"`
}

// Get - look up one token
//
// for an unsold token the pricing record does not exist yet and the
// reply carries the minimum mint price
func (t *Token) Get(arguments *GetArguments, reply *GetReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if err := token.ValidateId(arguments.TokenId); nil != err {
		return err
	}

	settings := settlement.CurrentSettings()
	reply.TokenId = arguments.TokenId

	record, exists := token.Pricing(arguments.TokenId)
	if !exists {
		reply.RequiredPayment = settings.MinimumMintPrice
		return nil
	}

	owner, ok := ownership.OwnerOf(arguments.TokenId)
	if !ok {
		return fault.TokenNotFound
	}

	increase := settings.IncreaseFraction.Multiply(record.Price)

	reply.Owner = owner
	reply.Generation = record.Generation
	reply.Price = record.Price
	reply.RequiredPayment = record.Price + increase
	reply.LastSale = record.LastSale
	reply.SellerOptedIn = archive.IsOptedIn(owner)
	reply.SellerArchived = archive.Count(owner)
	return nil
}

// Token.Owned
// -----------

// OwnedArguments - paged enumeration of an account's registry records
type OwnedArguments struct {
	Owner account.Account `json:"owner"`
	Start uint64          `json:"start,string"`
	Count int             `json:"count"`
}

// OwnedReply - one page of owned records
type OwnedReply struct {
	Tokens    []ownership.Record `json:"tokens"`
	NextStart uint64             `json:"nextStart,string"`
}

// Owned - list registry records, live and archived copies alike
func (t *Token) Owned(arguments *OwnedArguments, reply *OwnedReply) error {

	if err := ratelimit.LimitN(t.Limiter, arguments.Count, maximumTokenList); nil != err {
		return err
	}
	if err := arguments.Owner.Validate(); nil != err {
		return err
	}

	records, err := ownership.ListFor(arguments.Owner, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Tokens = records
	if n := len(records); n > 0 {
		reply.NextStart = records[n-1].N + 1
	}
	return nil
}
