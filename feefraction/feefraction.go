// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package feefraction - exact rational multipliers for fee computation
//
// Every percentage in the market is a numerator/denominator pair in the
// range [0, 1].  Multiplication runs through a 256 bit intermediate so
// that numerator * value can never overflow before the divide; results
// are floored.  Floating point never touches a balance.
package feefraction

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/nftinder/marketd/fault"
)

// Fraction - a validated multiplier in [0, 1]
type Fraction struct {
	Numerator   uint64 `gluamapper:"numerator" json:"numerator"`
	Denominator uint64 `gluamapper:"denominator" json:"denominator"`
}

// New - create a validated fraction
func New(numerator uint64, denominator uint64) (Fraction, error) {
	f := Fraction{
		Numerator:   numerator,
		Denominator: denominator,
	}
	if err := f.Validate(); nil != err {
		return Fraction{}, err
	}
	return f, nil
}

// Validate - the configuration time invariants
func (f Fraction) Validate() error {
	if 0 == f.Denominator {
		return fault.InvalidDenominator
	}
	if f.Numerator > f.Denominator {
		return fault.InvalidNumerator
	}
	return nil
}

// Multiply - floor(numerator * value / denominator)
func (f Fraction) Multiply(value uint64) uint64 {
	n := new(uint256.Int).SetUint64(f.Numerator)
	v := new(uint256.Int).SetUint64(value)
	d := new(uint256.Int).SetUint64(f.Denominator)
	n.Mul(n, v)
	n.Div(n, d)
	return n.Uint64()
}

// String - for the fmt package
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
