// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/rpc/store"
)

func runBuyPackage(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("account")
	if "" == name {
		return fmt.Errorf("missing account")
	}

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := store.BuyArguments{
		Account: account.Account(name),
		Index:   c.Uint64("index"),
	}

	var reply store.BuyReply
	if err := client.Call("Storage.Buy", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
