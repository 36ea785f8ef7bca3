// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
)

const (
	rateLimitMarket = 200
	rateBurstMarket = 100
)

// Market - type for RPC calls
type Market struct {
	Log          *logger.L
	Limiter      *rate.Limiter
	IsNormalMode func(mode.Mode) bool
}

// New - create the market service
func New(log *logger.L, isNormalMode func(mode.Mode) bool) *Market {
	return &Market{
		Log:          log,
		Limiter:      rate.NewLimiter(rateLimitMarket, rateBurstMarket),
		IsNormalMode: isNormalMode,
	}
}

// Market.Receive
// --------------

// ReceiveArguments - a payment receipt from the external token
// contract: sender paid amount, the payload says what for
type ReceiveArguments struct {
	Sender  account.Account `json:"sender"`
	Amount  uint64          `json:"amount,string"`
	Payload json.RawMessage `json:"payload"`
}

// ReceiveReply - result of the purchase
type ReceiveReply struct {
	OK bool `json:"ok"`
}

// Receive - the payment receipt hook, mint or resale
func (market *Market) Receive(arguments *ReceiveArguments, reply *ReceiveReply) error {

	if err := ratelimit.Limit(market.Limiter); nil != err {
		return err
	}
	if !market.IsNormalMode(mode.Normal) {
		return fault.NotAvailableInStoppedMode
	}

	if err := arguments.Sender.Validate(); nil != err {
		return err
	}

	market.Log.Infof("Market.Receive: %s amount: %d", arguments.Sender, arguments.Amount)

	now := uint64(time.Now().UnixNano())
	err := settlement.Receive(arguments.Sender, arguments.Amount, arguments.Payload, now)
	if nil != err {
		return err
	}
	reply.OK = true
	return nil
}

// Market.Settings
// ---------------

// SettingsArguments - empty arguments
type SettingsArguments struct{}

// SettingsReply - the current market parameters
type SettingsReply struct {
	Operator          account.Account      `json:"operator"`
	AuthorityKey      string               `json:"authorityKey"`
	MinimumMintPrice  uint64               `json:"minimumMintPrice,string"`
	IncreaseFraction  feefraction.Fraction `json:"increaseFraction"`
	SellerFraction    feefraction.Fraction `json:"sellerFraction"`
	Referral1Fraction feefraction.Fraction `json:"referral1Fraction"`
	Referral2Fraction feefraction.Fraction `json:"referral2Fraction"`
}

// Settings - read-only query of the market parameters
func (market *Market) Settings(_ *SettingsArguments, reply *SettingsReply) error {

	if err := ratelimit.Limit(market.Limiter); nil != err {
		return err
	}

	settings := settlement.CurrentSettings()
	reply.Operator = settings.Operator
	reply.AuthorityKey = settings.AuthorityKey.String()
	reply.MinimumMintPrice = settings.MinimumMintPrice
	reply.IncreaseFraction = settings.IncreaseFraction
	reply.SellerFraction = settings.SellerFraction
	reply.Referral1Fraction = settings.Referral1Fraction
	reply.Referral2Fraction = settings.Referral2Fraction
	return nil
}
