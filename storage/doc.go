// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
// over a single LevelDB database, one prefix byte per pool:
//
//	Balances     'B'  account            → uint64 claimable balance
//	LastAction   'A'  account            → uint64 last accepted authorization timestamp
//	OptIn        'S'  account            → one byte archival opt-in flag
//	Tokens       'T'  token id           → packed pricing record {generation, price, last sale}
//	TokenOwner   'O'  token id           → owning account
//	OwnerCount   'N'  account            → next append index for the owned-token list
//	OwnerList    'L'  account || index   → token id
//	OwnerIndex   'D'  account || token   → index, for delete after transfer
//	Archive      'C'  sha3(account) || token || generation → one byte marker
//	ArchiveCount 'K'  account            → uint64 archived item count
//	Quota        'Q'  account            → uint64 purchased storage quota
//	Packages     'P'  uint64 index       → packed {size, price}
//	Pending      'Y'  payout id          → packed {kind, recipient, amount}
//
// every mutating operation runs inside a single Transaction so a
// rejection leaves no partial state behind
package storage
