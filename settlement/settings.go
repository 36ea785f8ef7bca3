// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
)

// Settings - the operator-controlled market parameters
//
// a value type: the engine always works on an immutable snapshot, the
// setters swap in a new validated record rather than mutating in place
type Settings struct {
	Operator          account.Account `gluamapper:"operator" json:"operator"`
	AuthorityKey      *account.VerifyingKey
	MinimumMintPrice  uint64               `gluamapper:"minimum_mint_price" json:"minimum_mint_price"`
	IncreaseFraction  feefraction.Fraction `gluamapper:"increase_fraction" json:"increase_fraction"`
	SellerFraction    feefraction.Fraction `gluamapper:"seller_fraction" json:"seller_fraction"`
	Referral1Fraction feefraction.Fraction `gluamapper:"referral_1_fraction" json:"referral_1_fraction"`
	Referral2Fraction feefraction.Fraction `gluamapper:"referral_2_fraction" json:"referral_2_fraction"`
}

// Validate - all fraction invariants plus the fixed fields
func (s *Settings) Validate() error {
	if err := s.Operator.Validate(); nil != err {
		return err
	}
	if nil == s.AuthorityKey {
		return fault.MissingParameters
	}
	if 0 == s.MinimumMintPrice {
		return fault.PositiveAmountRequired
	}
	for _, f := range []feefraction.Fraction{
		s.IncreaseFraction,
		s.SellerFraction,
		s.Referral1Fraction,
		s.Referral2Fraction,
	} {
		if err := f.Validate(); nil != err {
			return err
		}
	}
	return nil
}

// CurrentSettings - snapshot for queries and for the engine itself
func CurrentSettings() Settings {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.settings
}

// IsOperator - administrative caller check
func IsOperator(caller account.Account) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return caller == globalData.settings.Operator
}

// SetMinimumMintPrice - operator only
func SetMinimumMintPrice(caller account.Account, price uint64) error {
	if 0 == price {
		return fault.PositiveAmountRequired
	}
	return updateSettings(caller, func(s *Settings) {
		s.MinimumMintPrice = price
	})
}

// SetAuthorityKey - operator only, replaces the verification key
func SetAuthorityKey(caller account.Account, hexKey string) error {
	key, err := account.VerifyingKeyFromHex(hexKey)
	if nil != err {
		return err
	}
	return updateSettings(caller, func(s *Settings) {
		s.AuthorityKey = key
	})
}

// SetFractions - operator only, replaces all four fractions together
func SetFractions(caller account.Account, increase feefraction.Fraction, seller feefraction.Fraction, referral1 feefraction.Fraction, referral2 feefraction.Fraction) error {
	return updateSettings(caller, func(s *Settings) {
		s.IncreaseFraction = increase
		s.SellerFraction = seller
		s.Referral1Fraction = referral1
		s.Referral2Fraction = referral2
	})
}

// apply a change to a copy, validate, then swap
func updateSettings(caller account.Account, change func(*Settings)) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if caller != globalData.settings.Operator {
		return fault.NotOperator
	}

	revised := globalData.settings
	change(&revised)
	if err := revised.Validate(); nil != err {
		return err
	}
	globalData.settings = revised
	globalData.log.Infof("settings updated by: %s", caller)
	return nil
}
