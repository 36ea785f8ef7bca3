// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect string
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "market-cli"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "127.0.0.1:2230",
			Usage: " marketd host/IP and port, `HOST:PORT`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "display marketd status",
			Action: runInfo,
		},
		{
			Name:   "settings",
			Usage:  "display the current market parameters",
			Action: runSettings,
		},
		{
			Name:      "token",
			Usage:     "display ownership and pricing of a token",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token, t",
					Value: "",
					Usage: "*token id `STRING`",
				},
			},
			Action: runToken,
		},
		{
			Name:      "owned",
			Usage:     "list tokens owned",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owner account `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " start point `COUNT`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runOwned,
		},
		{
			Name:      "status",
			Usage:     "display balance, quota and archival state of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
			},
			Action: runStatus,
		},
		{
			Name:      "withdraw",
			Usage:     "claim from the internal balance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "amount, m",
					Value: 0,
					Usage: " amount to claim, zero claims the full balance `NUMBER`",
				},
			},
			Action: runWithdraw,
		},
		{
			Name:      "archival",
			Usage:     "opt in or out of keeping superseded copies",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
				cli.BoolFlag{
					Name:  "enable, e",
					Usage: " opt in when set, opt out otherwise",
				},
			},
			Action: runArchival,
		},
		{
			Name:      "collection",
			Usage:     "list archived copies of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
			},
			Action: runCollection,
		},
		{
			Name:      "discard",
			Usage:     "remove one archived copy",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "token, t",
					Value: "",
					Usage: "*token id `STRING`",
				},
				cli.Uint64Flag{
					Name:  "generation, g",
					Value: 0,
					Usage: "*generation of the archived copy `NUMBER`",
				},
			},
			Action: runDiscard,
		},
		{
			Name:   "catalog",
			Usage:  "list purchasable storage packages",
			Action: runCatalog,
		},
		{
			Name:      "buy-package",
			Usage:     "buy a storage package from the internal balance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "index, i",
					Value: 0,
					Usage: "*package index `NUMBER`",
				},
			},
			Action: runBuyPackage,
		},
		{
			Name:      "transfer-quota",
			Usage:     "send the free storage quota to the counterpart instance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `ACCOUNT`",
				},
			},
			Action: runTransferQuota,
		},
	}

	app.Action = func(c *cli.Context) error {
		return cli.ShowAppHelp(c)
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			connect: c.GlobalString("connect"),
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	if err := app.Run(os.Args); nil != err {
		cli.HandleExitCoder(err)
	}
}
