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

func runDiscard(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("account")
	if "" == name {
		return fmt.Errorf("missing account")
	}

	tokenId := c.String("token")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	if m.verbose {
		fmt.Fprintf(m.e, "account: %s\n", name)
		fmt.Fprintf(m.e, "tokenId: %s\n", tokenId)
		fmt.Fprintf(m.e, "generation: %d\n", c.Uint64("generation"))
	}

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := accounts.DiscardCopyArguments{
		Account:    account.Account(name),
		TokenId:    tokenId,
		Generation: c.Uint64("generation"),
	}

	var reply accounts.DiscardCopyReply
	if err := client.Call("Account.DiscardCopy", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
