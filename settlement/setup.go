// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settlement - the resale engine
//
// orchestrates every purchase: authorization, pricing, fee
// distribution, ownership transfer, archival, and the asynchronous
// payout with its compensating callback.  All local mutation within
// one call is a single storage transaction; the payout is dispatched
// only after that transaction commits.
package settlement

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/archive"
	"github.com/nftinder/marketd/fault"
)

// globals
type globalDataType struct {
	sync.RWMutex
	log      *logger.L
	settings Settings

	// set once during initialise
	initialised bool
}

var globalData globalDataType

// Initialise - validate and install the market parameters
func Initialise(settings Settings) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	if err := settings.Validate(); nil != err {
		return err
	}

	globalData.log = logger.New("settlement")
	globalData.log.Info("starting…")
	globalData.settings = settings

	globalData.initialised = true
	return nil
}

// Finalise - shutdown
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	globalData.initialised = false
	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// SetStoragePackage - operator only catalog update
func SetStoragePackage(caller account.Account, index uint64, size uint64, price uint64) error {
	if !IsOperator(caller) {
		return fault.NotOperator
	}
	return archive.SetPackage(index, size, price)
}

// DeleteStoragePackage - operator only catalog removal
func DeleteStoragePackage(caller account.Account, index uint64) error {
	if !IsOperator(caller) {
		return fault.NotOperator
	}
	return archive.DeletePackage(index)
}
