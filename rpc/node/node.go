// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nftinder/marketd/counter"
	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/rpc/ratelimit"
	"github.com/nftinder/marketd/settlement"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	counter *counter.Counter
}

// New - create the node info service
func New(log *logger.L, start time.Time, version string, counter *counter.Counter) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		counter: counter,
	}
}

// Node.Info
// ---------

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Mode              string `json:"mode"`
	RPCs              uint64 `json:"rpcs"`
	PendingDeliveries uint64 `json:"pendingDeliveries"`
	InFlight          uint64 `json:"inFlight"`
	Version           string `json:"version"`
	Uptime            string `json:"uptime"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	pending, err := settlement.PendingCount()
	if nil != err {
		return err
	}

	reply.Mode = mode.String()
	reply.RPCs = node.counter.Uint64()
	reply.PendingDeliveries = pending
	reply.InFlight = courier.InFlight()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
