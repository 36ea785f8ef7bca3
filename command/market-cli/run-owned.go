// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/rpc/tokens"
)

func runOwned(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner := c.String("owner")
	if "" == owner {
		return fmt.Errorf("missing owner account")
	}

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	start := c.Uint64("start")

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", owner)
		fmt.Fprintf(m.e, "start: %d\n", start)
		fmt.Fprintf(m.e, "count: %d\n", count)
	}

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := tokens.OwnedArguments{
		Owner: account.Account(owner),
		Start: start,
		Count: count,
	}

	var reply tokens.OwnedReply
	if err := client.Call("Token.Owned", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
