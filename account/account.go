// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - market account identities
//
// Accounts are opaque names issued off-system; the market only needs a
// stable, validated identity string to key its ledgers.  The single
// authorization verifying key also lives here.
package account

import (
	"github.com/nftinder/marketd/fault"
)

// account name limits
const (
	minimumAccountLength = 2
	maximumAccountLength = 64
)

// Account - validated account identity
type Account string

// Validate - check an account name
//
// names are lowercase [a-z0-9] with single internal [._-] separators,
// the same rules the off-system identity issuer enforces
func (account Account) Validate() error {
	n := len(account)
	if n < minimumAccountLength || n > maximumAccountLength {
		return fault.InvalidAccountName
	}
	lastSeparator := true // separator cannot start the name
	for i := 0; i < n; i += 1 {
		c := account[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			lastSeparator = false
		case '.' == c || '_' == c || '-' == c:
			if lastSeparator {
				return fault.InvalidAccountName
			}
			lastSeparator = true
		default:
			return fault.InvalidAccountName
		}
	}
	if lastSeparator {
		return fault.InvalidAccountName
	}
	return nil
}

// String - for the fmt package
func (account Account) String() string {
	return string(account)
}

// Bytes - key material for storage pools
func (account Account) Bytes() []byte {
	return []byte(account)
}

// MarshalText - for JSON and config round trips
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account), nil
}

// UnmarshalText - validate while decoding
func (account *Account) UnmarshalText(s []byte) error {
	a := Account(s)
	if err := a.Validate(); nil != err {
		return err
	}
	*account = a
	return nil
}
