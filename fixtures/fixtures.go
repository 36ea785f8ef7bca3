// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup helpers
package fixtures

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/ed25519"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// the signing pair used to mint test authorizations
var (
	AuthorityPublicKey  ed25519.PublicKey
	AuthorityPrivateKey ed25519.PrivateKey
)

func init() {
	var err error
	AuthorityPublicKey, AuthorityPrivateKey, err = ed25519.GenerateKey(rand.Reader)
	if nil != err {
		panic(err)
	}
}

// AuthorityPublicKeyHex - the configuration form of the test key
func AuthorityPublicKeyHex() string {
	return hex.EncodeToString(AuthorityPublicKey)
}

func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
