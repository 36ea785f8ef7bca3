// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/counter"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/rpc/accounts"
	"github.com/nftinder/marketd/rpc/admin"
	"github.com/nftinder/marketd/rpc/market"
	"github.com/nftinder/marketd/rpc/node"
	"github.com/nftinder/marketd/rpc/store"
	"github.com/nftinder/marketd/rpc/tokens"
)

// Create - a new RPC server with all services registered
func Create(log *logger.L, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(market.New(log, mode.Is))
	_ = server.Register(tokens.New(log))
	_ = server.Register(accounts.New(log, mode.Is))
	_ = server.Register(store.New(log, mode.Is))
	_ = server.Register(admin.New(log))
	_ = server.Register(node.New(log, start, version, rpcCount))

	return server
}
