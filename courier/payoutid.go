// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/counter"
	"github.com/nftinder/marketd/fault"
)

// PayoutId - identifier of one asynchronous transfer
type PayoutId [32]byte

// monotonic per-process nonce so equal (recipient, amount) transfers
// still get distinct identifiers
var payoutNonce counter.Counter

// NewPayoutId - derive an identifier for a transfer
func NewPayoutId(kind Kind, recipient account.Account, amount uint64) PayoutId {
	nonce := payoutNonce.Increment()

	buffer := make([]byte, 8)
	digest := sha3.New256()
	digest.Write([]byte{byte(kind)})
	digest.Write(recipient.Bytes())
	binary.BigEndian.PutUint64(buffer, amount)
	digest.Write(buffer)
	binary.BigEndian.PutUint64(buffer, nonce)
	digest.Write(buffer)

	var payoutId PayoutId
	copy(payoutId[:], digest.Sum(nil))
	return payoutId
}

// String - convert a binary payout id to hex string for use by the fmt package (for %s)
func (payoutId PayoutId) String() string {
	return hex.EncodeToString(payoutId[:])
}

// GoString - convert a binary payout id to hex string for use by the fmt package (for %#v)
func (payoutId PayoutId) GoString() string {
	return "<payout:" + hex.EncodeToString(payoutId[:]) + ">"
}

// MarshalText - convert payout id to hex text
func (payoutId PayoutId) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(payoutId))
	buffer := make([]byte, size)
	hex.Encode(buffer, payoutId[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a payout id
func (payoutId *PayoutId) UnmarshalText(s []byte) error {
	if len(*payoutId) != hex.DecodedLen(len(s)) {
		return fault.PayoutNotFound
	}
	byteCount, err := hex.Decode(payoutId[:], s)
	if nil != err {
		return err
	}
	if len(payoutId) != byteCount {
		return fault.PayoutNotFound
	}
	return nil
}
