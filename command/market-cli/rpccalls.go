// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"io"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"
)

// connect to marketd RPC
//
// the daemon uses a self-signed certificate so verification is by
// fingerprint out of band, not by chain
func newClient(connect string, verbose bool, e io.Writer) (*netrpc.Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	if verbose {
		fmt.Fprintf(e, "connecting to: %s\n", connect)
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	return jsonrpc.NewClient(conn), nil
}
