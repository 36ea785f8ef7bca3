// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package authorization - the gate in front of every state change
//
// an authorization is a signed, timestamped capability produced
// off-system: "account A may acquire token T".  Messages can be
// resubmitted or arrive out of order, so acceptance is guarded by three
// independent staleness rules and consumption is at most once per
// account timestamp.
package authorization

import (
	"bytes"
	"encoding/json"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/token"
)

// the single accepted variant of the authorization payload
const simpleMintTag = "simple_mint"

// SimpleMint - the decoded authorization message
type SimpleMint struct {
	TokenId                   string           `json:"token_id"`
	AccountId                 account.Account  `json:"account_id"`
	ReferralId1               *account.Account `json:"referral_id_1,omitempty"`
	ReferralId2               *account.Account `json:"referral_id_2,omitempty"`
	Timestamp                 uint64           `json:"timestamp"`
	SellerStorageCapacityHint *uint64          `json:"seller_storage_capacity_hint,omitempty"`
}

// Verify - signature check then strict decode
//
// the signature covers the raw message bytes, so verification happens
// before any parsing; a valid signature over an undecodable payload is
// still rejected, but with InvalidPayload rather than
// AuthorizationFailed
func Verify(message []byte, signature account.Signature, key *account.VerifyingKey) (*SimpleMint, error) {
	if err := key.CheckSignature(message, signature); nil != err {
		return nil, err
	}
	return decode(message)
}

// decode the closed tagged union
//
// exactly one variant key is allowed and unknown payload fields are
// rejected: authorizations are machine generated, anything unexpected
// is treated as hostile
func decode(message []byte) (*SimpleMint, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(message, &envelope); nil != err {
		return nil, fault.InvalidPayload
	}
	if 1 != len(envelope) {
		return nil, fault.InvalidPayload
	}
	payload, ok := envelope[simpleMintTag]
	if !ok {
		return nil, fault.InvalidPayload
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()

	msg := &SimpleMint{}
	if err := decoder.Decode(msg); nil != err {
		// account fields validate themselves while decoding and the
		// error names the field at fault; keep it
		if fault.IsErrInvalid(err) {
			return nil, err
		}
		return nil, fault.InvalidPayload
	}

	if err := token.ValidateId(msg.TokenId); nil != err {
		return nil, err
	}
	if err := msg.AccountId.Validate(); nil != err {
		return nil, err
	}
	if nil != msg.ReferralId1 {
		if err := msg.ReferralId1.Validate(); nil != err {
			return nil, err
		}
	}
	if nil != msg.ReferralId2 {
		if err := msg.ReferralId2.Validate(); nil != err {
			return nil, err
		}
	}
	if 0 == msg.Timestamp {
		return nil, fault.InvalidTimestamp
	}
	return msg, nil
}
