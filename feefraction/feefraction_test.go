// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feefraction_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/feefraction"
)

func TestNew(t *testing.T) {
	tests := []struct {
		numerator   uint64
		denominator uint64
		err         error
	}{
		{0, 1, nil},
		{1, 1, nil},
		{1, 10, nil},
		{3, 7, nil},
		{math.MaxUint64, math.MaxUint64, nil},
		{1, 0, fault.InvalidDenominator},
		{0, 0, fault.InvalidDenominator},
		{2, 1, fault.InvalidNumerator},
		{math.MaxUint64, 1, fault.InvalidNumerator},
	}

	for i, test := range tests {
		_, err := feefraction.New(test.numerator, test.denominator)
		assert.Equal(t, test.err, err, "test: %d fraction: %d/%d", i, test.numerator, test.denominator)
	}
}

func TestMultiply(t *testing.T) {
	tests := []struct {
		numerator   uint64
		denominator uint64
		value       uint64
		expected    uint64
	}{
		{1, 10, 100, 10},
		{1, 10, 105, 10}, // floored
		{1, 10, 109, 10}, // floored
		{1, 2, 101, 50},  // floored
		{1, 1, 12345, 12345},
		{0, 7, 12345, 0},
		{1, 3, 10, 3},
		{2, 3, 10, 6},
		{1, 10, 0, 0},
	}

	for i, test := range tests {
		f, err := feefraction.New(test.numerator, test.denominator)
		assert.Nil(t, err, "test: %d", i)
		assert.Equal(t, test.expected, f.Multiply(test.value), "test: %d  %d/%d * %d", i, test.numerator, test.denominator, test.value)
	}
}

// numerator * value exceeds 64 bits, the wide intermediate must not wrap
func TestMultiplyWideIntermediate(t *testing.T) {
	f, err := feefraction.New(math.MaxUint64-1, math.MaxUint64)
	assert.Nil(t, err, "wrong New")

	v := uint64(math.MaxUint64)
	expected := uint64(math.MaxUint64 - 1)
	assert.Equal(t, expected, f.Multiply(v), "wrong wide multiply")
}

func TestCheckedAdd(t *testing.T) {
	sum, ok := feefraction.CheckedAdd(1, 2)
	assert.True(t, ok, "wrong ok")
	assert.Equal(t, uint64(3), sum, "wrong sum")

	_, ok = feefraction.CheckedAdd(math.MaxUint64, 1)
	assert.False(t, ok, "overflow not detected")

	sum, ok = feefraction.CheckedAdd(math.MaxUint64, 0)
	assert.True(t, ok, "wrong ok")
	assert.Equal(t, uint64(math.MaxUint64), sum, "wrong sum")
}

func TestCheckedSub(t *testing.T) {
	diff, ok := feefraction.CheckedSub(5, 3)
	assert.True(t, ok, "wrong ok")
	assert.Equal(t, uint64(2), diff, "wrong difference")

	_, ok = feefraction.CheckedSub(3, 5)
	assert.False(t, ok, "underflow not detected")

	diff, ok = feefraction.CheckedSub(3, 3)
	assert.True(t, ok, "wrong ok")
	assert.Equal(t, uint64(0), diff, "wrong difference")
}
