// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package authorization

import (
	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/constants"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
	"github.com/nftinder/marketd/token"
)

// Consume - the replay rules, then record consumption
//
// order is fixed:
//  1. the payer must be the named beneficiary
//  2. the message must be younger than MaximumAuthorizationAge
//  3. the timestamp must be strictly after the account's last accepted
//     action, and not before the token's last sale
//  4. the account's last action advances to the message timestamp
//
// the final write happens before any other mutation; callers that
// reject later must still persist it (see settlement) so the same
// message can never be consumed twice
func Consume(trx storage.Transaction, msg *SimpleMint, payer account.Account, now uint64) error {

	if payer != msg.AccountId {
		return fault.AuthorizationFailed
	}

	maximumAge := uint64(constants.MaximumAuthorizationAge)
	if now > maximumAge && msg.Timestamp < now-maximumAge {
		return fault.StaleAuthorization
	}

	lastAction, ok := trx.GetN(storage.Pool.LastAction, msg.AccountId.Bytes())
	if ok && msg.Timestamp <= lastAction {
		return fault.StaleAuthorization
	}

	if record, ok := token.ReadPricing(trx, msg.TokenId); ok {
		if 0 != record.LastSale && msg.Timestamp < record.LastSale {
			return fault.StaleAuthorization
		}
	}

	trx.PutN(storage.Pool.LastAction, msg.AccountId.Bytes(), msg.Timestamp)
	return nil
}
