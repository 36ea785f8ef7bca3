// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/token"
)

func TestValidateId(t *testing.T) {
	tests := []struct {
		tokenId string
		err     error
	}{
		{"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", nil},
		{"a", nil},
		{strings.Repeat("x", 256), nil},
		{"", fault.InvalidPayload},
		{strings.Repeat("x", 257), fault.InvalidPayload},
		{"3:QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", fault.InvalidPayload},
		{":", fault.InvalidPayload},
	}

	for i, test := range tests {
		err := token.ValidateId(test.tokenId)
		assert.Equal(t, test.err, err, "test: %d id: %q", i, test.tokenId)
	}
}

func TestGenerateAndParseId(t *testing.T) {
	composite := token.GenerateId(7, "Qmabc")
	assert.Equal(t, "7:Qmabc", composite, "wrong composite id")

	generation, baseId, ok := token.ParseId(composite)
	assert.True(t, ok, "wrong composite flag")
	assert.Equal(t, uint64(7), generation, "wrong generation")
	assert.Equal(t, "Qmabc", baseId, "wrong base id")

	generation, baseId, ok = token.ParseId("Qmabc")
	assert.False(t, ok, "wrong composite flag")
	assert.Equal(t, uint64(0), generation, "wrong generation")
	assert.Equal(t, "Qmabc", baseId, "wrong base id")
}

func TestPricingPack(t *testing.T) {
	record := token.PricingRecord{
		Generation: 3,
		Price:      121,
		LastSale:   1700000000000000000,
	}

	buffer := record.Pack()
	assert.Equal(t, 24, len(buffer), "wrong packed size")

	restored, err := token.UnpackPricing(buffer)
	assert.Nil(t, err, "wrong UnpackPricing")
	assert.Equal(t, record, restored, "wrong round trip")

	_, err = token.UnpackPricing(buffer[:20])
	assert.NotNil(t, err, "short buffer not detected")
}
