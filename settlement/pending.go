// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"encoding/binary"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// a pending record persists just enough to compensate a failed
// delivery: kind, amount, recipient.  Written in the same transaction
// as the optimistic mutation, removed by reconciliation.
//
// packed layout: kind byte, 8 byte amount, recipient name

func writePending(trx storage.Transaction, d courier.Delivery) {
	recipient := d.Recipient.Bytes()
	packed := make([]byte, 0, 9+len(recipient))
	packed = append(packed, byte(d.Kind))
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, d.Amount)
	packed = append(packed, buffer...)
	packed = append(packed, recipient...)
	trx.Put(storage.Pool.Pending, d.Id[:], packed)
}

func readPending(trx storage.Transaction, id courier.PayoutId) (courier.Delivery, error) {
	packed := trx.Get(storage.Pool.Pending, id[:])
	if nil == packed {
		return courier.Delivery{}, fault.PayoutNotFound
	}
	if len(packed) < 10 {
		return courier.Delivery{}, fault.PayoutNotFound
	}
	return courier.Delivery{
		Id:        id,
		Kind:      courier.Kind(packed[0]),
		Amount:    binary.BigEndian.Uint64(packed[1:9]),
		Recipient: account.Account(packed[9:]),
	}, nil
}

func deletePending(trx storage.Transaction, id courier.PayoutId) {
	trx.Delete(storage.Pool.Pending, id[:])
}

// PendingCount - unresolved deliveries, for the status query
func PendingCount() (uint64, error) {
	elements, err := storage.Pool.Pending.Fetch(nil, maximumPendingScan)
	if nil != err {
		return 0, err
	}
	return uint64(len(elements)), nil
}

const maximumPendingScan = 10000
