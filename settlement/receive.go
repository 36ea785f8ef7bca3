// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"bytes"
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/authorization"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/ownership"
	"github.com/nftinder/marketd/storage"
	"github.com/nftinder/marketd/token"
)

// the single accepted variant of the receipt payload
const purchaseTag = "purchase"

// Purchase - the receipt payload: the signed authorization and its
// detached signature, both produced off-system
type Purchase struct {
	Message   string            `json:"message"`
	Signature account.Signature `json:"signature"`
}

// Receive - the payment receipt hook
//
// sender already paid amount to the external token contract; decide
// whether that buys the named token, and either complete the purchase
// or reject without crediting anything.  A rejection after the
// authorization was consumed still burns it.
func Receive(sender account.Account, amount uint64, payload []byte, now uint64) error {
	globalData.RLock()
	if !globalData.initialised {
		globalData.RUnlock()
		return fault.NotInitialised
	}
	settings := globalData.settings
	log := globalData.log
	globalData.RUnlock()

	purchase, err := decodeReceipt(payload)
	if nil != err {
		return err
	}

	message := []byte(purchase.Message)
	msg, err := authorization.Verify(message, purchase.Signature, settings.AuthorityKey)
	if nil != err {
		return err
	}

	trx, err := storage.WaitDBTransaction()
	if nil != err {
		return err
	}

	if err := authorization.Consume(trx, msg, sender, now); nil != err {
		trx.Abort()
		return err
	}

	record, exists := token.ReadPricing(trx, msg.TokenId)
	if !exists {
		return firstSale(trx, settings, msg, amount, now, log)
	}
	return resale(trx, settings, msg, record, amount, now, log)
}

// first sale: no previous owner, the whole minimum price is the
// increase and the seller share is forced to zero
func firstSale(trx storage.Transaction, settings Settings, msg *authorization.SimpleMint, amount uint64, now uint64, log *logger.L) error {

	required := settings.MinimumMintPrice
	if amount < required {
		return rejectConsumed(trx, msg, fault.DeficitError(required-amount))
	}

	if _, err := distributeFees(trx, true, settings, msg, required); nil != err {
		return rejectConsumed(trx, msg, err)
	}

	token.WritePricing(trx, msg.TokenId, token.PricingRecord{
		Generation: 0,
		Price:      required,
		LastSale:   now,
	})
	ownership.Issue(trx, msg.TokenId, msg.AccountId)

	if err := trx.Commit(); nil != err {
		return err
	}
	log.Infof("minted: %q for: %s price: %d", msg.TokenId, msg.AccountId, required)
	return nil
}

// resale: price grows by the configured fraction, the increase is
// split, the previous owner is paid out asynchronously and may keep
// an archived copy of the outgoing generation
func resale(trx storage.Transaction, settings Settings, msg *authorization.SimpleMint, record token.PricingRecord, amount uint64, now uint64, log *logger.L) error {

	seller, ok := ownership.CurrentOwner(trx, msg.TokenId)
	if !ok {
		trx.Abort()
		return fault.TokenNotFound
	}
	if seller == msg.AccountId {
		return rejectConsumed(trx, msg, fault.CannotSelfTrade)
	}

	increase := settings.IncreaseFraction.Multiply(record.Price)
	required, ok := feefraction.CheckedAdd(record.Price, increase)
	if !ok {
		return rejectConsumed(trx, msg, fault.BalanceOverflow)
	}
	if amount < required {
		return rejectConsumed(trx, msg, fault.DeficitError(required-amount))
	}

	if archive.ShouldArchive(trx, seller, msg.SellerStorageCapacityHint) {
		archive.StoreCopy(trx, msg.TokenId, record.Generation, seller)
	}

	token.WritePricing(trx, msg.TokenId, token.PricingRecord{
		Generation: record.Generation + 1,
		Price:      required,
		LastSale:   now,
	})

	sellerFee, err := distributeFees(trx, false, settings, msg, increase)
	if nil != err {
		return rejectConsumed(trx, msg, err)
	}

	ownership.Transfer(trx, msg.TokenId, seller, msg.AccountId)

	payout := record.Price + sellerFee
	delivery := courier.Delivery{
		Id:        courier.NewPayoutId(courier.KindPayout, seller, payout),
		Kind:      courier.KindPayout,
		Recipient: seller,
		Amount:    payout,
	}
	writePending(trx, delivery)

	if err := trx.Commit(); nil != err {
		return err
	}

	// only after the local state is durable
	courier.Send(delivery)

	log.Infof("resold: %q generation: %d to: %s price: %d payout: %d to: %s",
		msg.TokenId, record.Generation+1, msg.AccountId, required, payout, seller)
	return nil
}

// a consumed authorization must stay consumed even when the purchase
// is rejected: abort the transaction, then re-apply the last action
// advance directly
func rejectConsumed(trx storage.Transaction, msg *authorization.SimpleMint, reason error) error {
	trx.Abort()
	storage.Pool.LastAction.PutN(msg.AccountId.Bytes(), msg.Timestamp)
	return reason
}

// decode the closed receipt union: exactly one variant, no unknown
// fields
func decodeReceipt(payload []byte) (*Purchase, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); nil != err {
		return nil, fault.InvalidPayload
	}
	if 1 != len(envelope) {
		return nil, fault.InvalidPayload
	}
	inner, ok := envelope[purchaseTag]
	if !ok {
		return nil, fault.InvalidPayload
	}

	decoder := json.NewDecoder(bytes.NewReader(inner))
	decoder.DisallowUnknownFields()

	purchase := &Purchase{}
	if err := decoder.Decode(purchase); nil != err {
		return nil, fault.InvalidPayload
	}
	if 0 == len(purchase.Message) || 0 == len(purchase.Signature) {
		return nil, fault.InvalidPayload
	}
	return purchase, nil
}
