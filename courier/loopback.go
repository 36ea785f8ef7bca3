// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier

import (
	"sync"

	"github.com/nftinder/marketd/fault"
)

// Loopback - a transport that records deliveries locally
//
// used by the tests and by a daemon configured without an external
// token endpoint; FailAll simulates a collaborator that rejects every
// transfer so compensation paths can be exercised
type Loopback struct {
	sync.Mutex
	Deliveries []Delivery
	FailAll    bool
}

// Deliver - record and resolve the delivery
func (l *Loopback) Deliver(d Delivery) error {
	l.Lock()
	defer l.Unlock()

	l.Deliveries = append(l.Deliveries, d)
	if l.FailAll {
		return fault.ProcessError("loopback delivery refused")
	}
	return nil
}

// Count - deliveries recorded so far
func (l *Loopback) Count() int {
	l.Lock()
	defer l.Unlock()
	return len(l.Deliveries)
}
