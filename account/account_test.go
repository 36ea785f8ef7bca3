// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ed25519"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"alice", nil},
		{"ab", nil},
		{"alice.near", nil},
		{"a-b_c.d", nil},
		{"0x1234", nil},
		{strings.Repeat("a", 64), nil},
		{"", fault.InvalidAccountName},
		{"a", fault.InvalidAccountName},
		{strings.Repeat("a", 65), fault.InvalidAccountName},
		{"Alice", fault.InvalidAccountName},
		{".alice", fault.InvalidAccountName},
		{"alice.", fault.InvalidAccountName},
		{"alice..near", fault.InvalidAccountName},
		{"-alice", fault.InvalidAccountName},
		{"ali ce", fault.InvalidAccountName},
		{"alice!", fault.InvalidAccountName},
	}

	for i, test := range tests {
		err := account.Account(test.name).Validate()
		assert.Equal(t, test.err, err, "test: %d account: %q", i, test.name)
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	s := account.Signature{0x01, 0x02, 0xab, 0xff}

	text, err := s.MarshalText()
	assert.Nil(t, err, "wrong MarshalText")
	assert.Equal(t, "0102abff", string(text), "wrong hex")

	var restored account.Signature
	err = restored.UnmarshalText(text)
	assert.Nil(t, err, "wrong UnmarshalText")
	assert.Equal(t, s, restored, "wrong round trip")

	err = restored.UnmarshalText([]byte("not hex"))
	assert.Equal(t, fault.CannotDecodeSignature, err, "wrong error")
}

func TestVerifyingKey(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	assert.Nil(t, err, "wrong GenerateKey")

	_, err = account.VerifyingKeyFromHex("zz")
	assert.Equal(t, fault.CannotDecodeVerifyingKey, err, "wrong error")

	_, err = account.VerifyingKeyFromHex("0102")
	assert.Equal(t, fault.InvalidKeyLength, err, "wrong error")

	key, err := account.VerifyingKeyFromHex(account.Signature(publicKey).String())
	assert.Nil(t, err, "wrong VerifyingKeyFromHex")

	message := []byte(`{"simple_mint":{}}`)
	signature := account.Signature(ed25519.Sign(privateKey, message))

	err = key.CheckSignature(message, signature)
	assert.Nil(t, err, "wrong CheckSignature")

	err = key.CheckSignature([]byte("tampered"), signature)
	assert.Equal(t, fault.AuthorizationFailed, err, "wrong error")

	err = key.CheckSignature(message, signature[:16])
	assert.Equal(t, fault.AuthorizationFailed, err, "wrong error")
}
