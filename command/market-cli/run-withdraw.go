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

func runWithdraw(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("account")
	if "" == name {
		return fmt.Errorf("missing account")
	}

	arguments := accounts.WithdrawArguments{
		Account: account.Account(name),
	}

	// zero claims the full balance
	if amount := c.Uint64("amount"); amount > 0 {
		arguments.Amount = &amount
	}

	if m.verbose {
		fmt.Fprintf(m.e, "account: %s\n", name)
		if nil != arguments.Amount {
			fmt.Fprintf(m.e, "amount: %d\n", *arguments.Amount)
		} else {
			fmt.Fprintf(m.e, "amount: full balance\n")
		}
	}

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	var reply accounts.WithdrawReply
	if err := client.Call("Account.Withdraw", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
