// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package courier - asynchronous transfers to the external token contract
//
// the market never blocks on an external transfer: a delivery is
// queued, the issuing call returns, and the outcome arrives later as a
// callback.  Exactly one callback per delivery, no ordering guarantee
// relative to other calls.
package courier

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/background"
	"github.com/nftinder/marketd/counter"
	"github.com/nftinder/marketd/fault"
)

// Kind - what a delivery settles
type Kind byte

// delivery kinds
const (
	KindPayout Kind = 'P' // fungible tokens owed to a seller or withdrawer
	KindQuota  Kind = 'Q' // storage quota moving to a counterpart instance
)

// Delivery - one queued transfer
type Delivery struct {
	Id        PayoutId
	Kind      Kind
	Recipient account.Account
	Amount    uint64
}

// Transport - performs the external call; error means failed delivery
type Transport interface {
	Deliver(d Delivery) error
}

// Callback - receives exactly one outcome per delivery
type Callback func(d Delivery, delivered bool)

// internal constants
const (
	queueSize = 1000
)

// globals
type globalDataType struct {
	sync.RWMutex
	log        *logger.L
	queue      chan Delivery
	transport  Transport
	notify     Callback
	inFlight   counter.Counter
	background *background.T

	// set once during initialise
	initialised bool
}

var globalData globalDataType

// Initialise - start the dispatch process
func Initialise(transport Transport, notify Callback) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("courier")
	globalData.log.Info("starting…")

	globalData.queue = make(chan Delivery, queueSize)
	globalData.transport = transport
	globalData.notify = notify

	processes := background.Processes{
		&dispatcher{},
	}
	globalData.background = background.Start(processes, globalData.log)

	globalData.initialised = true
	return nil
}

// Finalise - stop the dispatch process
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.background.Stop()
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// Send - queue a delivery, returns immediately
func Send(d Delivery) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		fault.Panic("courier.Send before initialise")
	}
	globalData.inFlight.Increment()
	globalData.queue <- d
}

// InFlight - deliveries queued or awaiting their callback
func InFlight() uint64 {
	return globalData.inFlight.Uint64()
}

// the queue drainer
type dispatcher struct{}

func (d *dispatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := args.(*logger.L)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case delivery := <-globalData.queue:
			err := globalData.transport.Deliver(delivery)
			delivered := nil == err
			if !delivered {
				log.Warnf("delivery: %s to: %s amount: %d failed: %s", delivery.Id, delivery.Recipient, delivery.Amount, err)
			} else {
				log.Infof("delivery: %s to: %s amount: %d", delivery.Id, delivery.Recipient, delivery.Amount)
			}
			globalData.inFlight.Decrement()
			globalData.notify(delivery, delivered)
		}
	}
}
