// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/rpc/accounts"
)

func runCollection(c *cli.Context) error {

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

	arguments := accounts.CollectionArguments{
		Account: account.Account(name),
	}

	var reply accounts.CollectionReply
	if err := client.Call("Account.Collection", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
