// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - token identifiers and the pricing record
//
// a token id is a content-derived string (an IPFS hash in practice); an
// archived copy of a superseded generation carries the composite id
// "<generation>:<token id>" so it can never collide with a live token
package token

import (
	"strconv"
	"strings"

	"github.com/nftinder/marketd/fault"
)

// token id limits
const (
	minimumIdLength = 1
	maximumIdLength = 256
)

// the separator of a composite archived-copy id
const generationSeparator = ":"

// ValidateId - check a live token id
//
// composite ids are rejected here: they are derived, never submitted
func ValidateId(tokenId string) error {
	if len(tokenId) < minimumIdLength || len(tokenId) > maximumIdLength {
		return fault.InvalidPayload
	}
	if strings.Contains(tokenId, generationSeparator) {
		return fault.InvalidPayload
	}
	return nil
}

// GenerateId - composite id for an archived generation of a token
func GenerateId(generation uint64, tokenId string) string {
	return strconv.FormatUint(generation, 10) + generationSeparator + tokenId
}

// ParseId - split a possibly composite id
//
// a plain id parses as generation zero of itself with composite false
func ParseId(tokenId string) (generation uint64, baseId string, composite bool) {
	i := strings.Index(tokenId, generationSeparator)
	if i < 0 {
		return 0, tokenId, false
	}
	generation, err := strconv.ParseUint(tokenId[:i], 10, 64)
	if nil != err {
		return 0, tokenId, false
	}
	return generation, tokenId[i+1:], true
}
