// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"encoding/binary"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// scan ceiling for one enumeration page
const maximumCountScan = 10000

// ListFor - enumerate tokens owned by an account
//
// start is the list index to resume from (returned as Record.N values),
// count limits the page size
func ListFor(owner account.Account, start uint64, count int) ([]Record, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	prefix := make([]byte, 0, len(owner)+1)
	prefix = append(prefix, owner.Bytes()...)
	prefix = append(prefix, keySeparator)

	elements, err := storage.Pool.OwnerList.Fetch(prefix, maximumCountScan)
	if nil != err {
		return nil, err
	}

	records := make([]Record, 0, count)
	for _, e := range elements {
		n := binary.BigEndian.Uint64(e.Key[len(prefix):])
		if n < start {
			continue
		}
		records = append(records, Record{
			N:       n,
			TokenId: string(e.Value),
		})
		if len(records) >= count {
			break
		}
	}
	return records, nil
}

// TotalFor - number of tokens currently owned, archived copies included
func TotalFor(owner account.Account) uint64 {
	prefix := make([]byte, 0, len(owner)+1)
	prefix = append(prefix, owner.Bytes()...)
	prefix = append(prefix, keySeparator)

	n, err := storage.Pool.OwnerList.CountPrefixed(prefix)
	if nil != err {
		return 0
	}
	return n
}
