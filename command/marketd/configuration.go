// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/account"
	"github.com/nftinder/marketd/bridge"
	"github.com/nftinder/marketd/configuration"
	"github.com/nftinder/marketd/feefraction"
	"github.com/nftinder/marketd/rpc"
	"github.com/nftinder/marketd/rpc/listeners"
	"github.com/nftinder/marketd/settlement"
	"github.com/nftinder/marketd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "market.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "marketd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10

	defaultMaximumQuota = 100 * 1024 * 1024 * 1024 // bytes
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - where the ledgers live
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// MarketType - pricing engine parameters from the configuration file
type MarketType struct {
	Operator          string               `gluamapper:"operator" json:"operator"`
	AuthorityKey      string               `gluamapper:"authority_key" json:"authority_key"`
	MinimumMintPrice  uint64               `gluamapper:"minimum_mint_price" json:"minimum_mint_price"`
	IncreaseFraction  feefraction.Fraction `gluamapper:"increase_fraction" json:"increase_fraction"`
	SellerFraction    feefraction.Fraction `gluamapper:"seller_fraction" json:"seller_fraction"`
	Referral1Fraction feefraction.Fraction `gluamapper:"referral_1_fraction" json:"referral_1_fraction"`
	Referral2Fraction feefraction.Fraction `gluamapper:"referral_2_fraction" json:"referral_2_fraction"`
}

// StoreType - archival subsystem parameters
type StoreType struct {
	MaximumQuota uint64 `gluamapper:"maximum_quota" json:"maximum_quota"`
}

// Configuration - the entire configuration file
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	Testing       bool   `gluamapper:"testing" json:"testing"`
	ProfileHTTP   string `gluamapper:"profile_http" json:"profile_http"`

	Database DatabaseType `gluamapper:"database" json:"database"`

	ClientRPC listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC  rpc.HTTPSConfiguration     `gluamapper:"https_rpc" json:"https_rpc"`
	Gateway   bridge.Configuration       `gluamapper:"gateway" json:"gateway"`
	Market    MarketType                 `gluamapper:"market" json:"market"`
	Store     StoreType                  `gluamapper:"store" json:"store"`
	Logging   logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Testing:       false,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		// default: share config with normal RPC
		HttpsRPC: rpc.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		Store: StoreType{
			MaximumQuota: defaultMaximumQuota,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	// note: the client_rpc and https_rpc certificate fields hold PEM
	// data read by the configuration script, not file names
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Gateway.CACertificate,
		&options.Gateway.Certificate,
		&options.Gateway.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// build the validated settlement settings from the market section
func marketSettings(options *Configuration) (*settlement.Settings, error) {

	authorityKey, err := account.VerifyingKeyFromHex(options.Market.AuthorityKey)
	if nil != err {
		return nil, err
	}

	settings := &settlement.Settings{
		Operator:          account.Account(options.Market.Operator),
		AuthorityKey:      authorityKey,
		MinimumMintPrice:  options.Market.MinimumMintPrice,
		IncreaseFraction:  options.Market.IncreaseFraction,
		SellerFraction:    options.Market.SellerFraction,
		Referral1Fraction: options.Market.Referral1Fraction,
		Referral2Fraction: options.Market.Referral2Fraction,
	}

	if err := settings.Validate(); nil != err {
		return nil, err
	}

	return settings, nil
}
