// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/nftinder/marketd/authorization"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/ledger"
	"github.com/nftinder/marketd/storage"
)

// distributeFees - split the price increase in the fixed order:
// seller, referral 1, referral 2, system
//
// the seller share is not credited here, it rides the asynchronous
// payout together with the previous price; referral and system shares
// go straight to the internal ledger.  The system share is whatever
// remains of the increase after running checked subtraction, and is
// skipped entirely if any subtraction would go negative; the already
// credited referral fees stand.  Returns the seller share.
func distributeFees(trx storage.Transaction, initialSale bool, settings Settings, msg *authorization.SimpleMint, increase uint64) (uint64, error) {

	var sellerFee uint64
	if !initialSale {
		sellerFee = settings.SellerFraction.Multiply(increase)
	}

	var referral1Fee, referral2Fee uint64
	if nil != msg.ReferralId1 {
		referral1Fee = settings.Referral1Fraction.Multiply(increase)
		if err := ledger.Credit(trx, *msg.ReferralId1, referral1Fee); nil != err {
			return 0, err
		}
	}
	if nil != msg.ReferralId2 {
		referral2Fee = settings.Referral2Fraction.Multiply(increase)
		if err := ledger.Credit(trx, *msg.ReferralId2, referral2Fee); nil != err {
			return 0, err
		}
	}

	systemFee := increase
	ok := true
	for _, fee := range []uint64{sellerFee, referral1Fee, referral2Fee} {
		systemFee, ok = feefraction.CheckedSub(systemFee, fee)
		if !ok {
			break
		}
	}
	if ok {
		if err := ledger.Credit(trx, settings.Operator, systemFee); nil != err {
			return 0, err
		}
	} else {
		globalData.log.Warnf("fees exceed increase: %d, system share skipped", increase)
	}

	return sellerFee, nil
}
