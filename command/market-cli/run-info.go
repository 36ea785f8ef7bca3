// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/nftinder/marketd/rpc/node"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	var reply node.InfoReply
	if err := client.Call("Node.Info", node.InfoArguments{}, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
