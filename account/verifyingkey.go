// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/nftinder/marketd/fault"
)

// VerifyingKey - the single configuration-set ed25519 public key that
// every authorization message must be signed with
type VerifyingKey struct {
	publicKey ed25519.PublicKey
}

// VerifyingKeyFromHex - decode the configured hex key string
func VerifyingKeyFromHex(hexKey string) (*VerifyingKey, error) {
	key, err := hex.DecodeString(hexKey)
	if nil != err {
		return nil, fault.CannotDecodeVerifyingKey
	}
	if ed25519.PublicKeySize != len(key) {
		return nil, fault.InvalidKeyLength
	}
	return &VerifyingKey{publicKey: ed25519.PublicKey(key)}, nil
}

// CheckSignature - verify a detached signature over the raw message bytes
//
// the scheme signs the message itself, not a digest of it
func (v *VerifyingKey) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.AuthorizationFailed
	}
	if !ed25519.Verify(v.publicKey, message, []byte(signature)) {
		return fault.AuthorizationFailed
	}
	return nil
}

// PublicKeyBytes - raw key for display or fingerprinting
func (v *VerifyingKey) PublicKeyBytes() []byte {
	return v.publicKey
}

// String - Base58 display form
func (v *VerifyingKey) String() string {
	return base58.Encode(v.publicKey)
}
