// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token

import (
	"encoding/binary"

	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// PricingRecord - generation counter, current price and last sale time
//
// generation and price are one record on purpose: they are never valid
// independently, every accepted resale advances both together
type PricingRecord struct {
	Generation uint64 `json:"generation,string"`
	Price      uint64 `json:"price,string"`
	LastSale   uint64 `json:"lastSale,string"` // nanoseconds, zero means never sold
}

// packed layout: three 8 byte big endian fields
const packedPricingSize = 24

// Pack - pricing record to pool bytes
func (record PricingRecord) Pack() []byte {
	buffer := make([]byte, packedPricingSize)
	binary.BigEndian.PutUint64(buffer[0:8], record.Generation)
	binary.BigEndian.PutUint64(buffer[8:16], record.Price)
	binary.BigEndian.PutUint64(buffer[16:24], record.LastSale)
	return buffer
}

// UnpackPricing - pool bytes to pricing record
func UnpackPricing(buffer []byte) (PricingRecord, error) {
	if packedPricingSize != len(buffer) {
		return PricingRecord{}, fault.ProcessError("pricing record corrupt")
	}
	return PricingRecord{
		Generation: binary.BigEndian.Uint64(buffer[0:8]),
		Price:      binary.BigEndian.Uint64(buffer[8:16]),
		LastSale:   binary.BigEndian.Uint64(buffer[16:24]),
	}, nil
}

// ReadPricing - fetch a pricing record inside a transaction
func ReadPricing(trx storage.Transaction, tokenId string) (PricingRecord, bool) {
	buffer := trx.Get(storage.Pool.Tokens, []byte(tokenId))
	if nil == buffer {
		return PricingRecord{}, false
	}
	record, err := UnpackPricing(buffer)
	fault.PanicIfError("token.ReadPricing", err)
	return record, true
}

// WritePricing - store a pricing record inside a transaction
func WritePricing(trx storage.Transaction, tokenId string, record PricingRecord) {
	trx.Put(storage.Pool.Tokens, []byte(tokenId), record.Pack())
}

// Pricing - read-only fetch outside any transaction, for queries
func Pricing(tokenId string) (PricingRecord, bool) {
	buffer := storage.Pool.Tokens.Get([]byte(tokenId))
	if nil == buffer {
		return PricingRecord{}, false
	}
	record, err := UnpackPricing(buffer)
	fault.PanicIfError("token.Pricing", err)
	return record, true
}
