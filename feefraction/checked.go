// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feefraction

// checked balance arithmetic
//
// balances must never wrap; a failed operation reports false and the
// caller decides whether to abort or skip (see the settlement fee split)

// CheckedAdd - a + b unless the sum would wrap
func CheckedAdd(a uint64, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// CheckedSub - a - b unless the difference would go negative
func CheckedSub(a uint64, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
