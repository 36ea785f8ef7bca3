// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nftinder/marketd/rpc/tokens"
)

func runToken(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tokenId := c.String("token")
	if "" == tokenId {
		return fmt.Errorf("missing token id")
	}

	if m.verbose {
		fmt.Fprintf(m.e, "tokenId: %s\n", tokenId)
	}

	client, err := newClient(m.connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := tokens.GetArguments{
		TokenId: tokenId,
	}

	var reply tokens.GetReply
	if err := client.Call("Token.Get", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)

	return nil
}
