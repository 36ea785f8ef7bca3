// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bridge - HTTP client for the external fungible token gateway
//
// implements the courier transport by posting each delivery to the
// gateway as a JSON RPC call.  A non-2xx status or an error field in
// the response body counts as a failed delivery and triggers the
// courier compensation callback.
package bridge

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/fault"
)

// Configuration - gateway connection settings from the configuration file
type Configuration struct {
	URL           string `gluamapper:"url" json:"url"`
	Username      string `gluamapper:"username" json:"username"`
	Password      string `gluamapper:"password" json:"password"`
	CACertificate string `gluamapper:"ca_certificate" json:"ca_certificate"`
	Certificate   string `gluamapper:"certificate" json:"certificate"`
	PrivateKey    string `gluamapper:"private_key" json:"private_key"`
}

const (
	requestTimeout = 30 * time.Second
)

// globals
type bridgeData struct {
	sync.RWMutex

	log      *logger.L
	client   *http.Client
	url      string
	username string
	password string
	id       uint64

	// set once during initialise
	initialised bool
}

var globalData bridgeData

// Initialise - create the gateway client
func Initialise(configuration *Configuration) error {

	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	if "" == configuration.URL {
		return fault.MissingParameters
	}

	globalData.log = logger.New("bridge")
	globalData.log.Info("starting…")

	globalData.id = 0
	globalData.url = configuration.URL
	globalData.username = configuration.Username
	globalData.password = configuration.Password

	if "" != configuration.Certificate {
		keyPair, err := tls.LoadX509KeyPair(configuration.Certificate, configuration.PrivateKey)
		if nil != err {
			return err
		}

		certificatePool := x509.NewCertPool()

		data, err := ioutil.ReadFile(configuration.CACertificate)
		if nil != err {
			globalData.log.Criticalf("failed to read certificate from: %q", configuration.CACertificate)
			return err
		}

		if !certificatePool.AppendCertsFromPEM(data) {
			globalData.log.Criticalf("failed to parse certificate from: %q", configuration.CACertificate)
			return fault.InvalidError("invalid CA certificate")
		}

		tlsConfiguration := &tls.Config{
			Certificates: []tls.Certificate{keyPair},
			RootCAs:      certificatePool,
			MinVersion:   tls.VersionTLS12,
		}

		globalData.client = &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfiguration,
			},
		}
	} else {
		globalData.client = &http.Client{
			Timeout: requestTimeout,
		}
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - release the client
func Finalise() error {

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Transport - the courier transport backed by the gateway
type Transport struct{}

// for encoding the RPC arguments
type gatewayArguments struct {
	Id     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// the RPC error response
type gatewayRpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// for decoding the RPC reply
type gatewayReply struct {
	Id     uint64           `json:"id"`
	Result interface{}      `json:"result"`
	Error  *gatewayRpcError `json:"error"`
}

// one delivery as a gateway call
type transferParams struct {
	Reference string `json:"reference"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount,string"`
}

// Deliver - perform the external transfer, blocking until the gateway
// accepts or rejects it
func (t Transport) Deliver(d courier.Delivery) error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	method := ""
	switch d.Kind {
	case courier.KindPayout:
		method = "ft_transfer"
	case courier.KindQuota:
		method = "storage_deposit"
	default:
		return fault.ProcessError("unsupported delivery kind")
	}

	globalData.id += 1

	arguments := gatewayArguments{
		Id:     globalData.id,
		Method: method,
		Params: []interface{}{
			transferParams{
				Reference: d.Id.String(),
				Recipient: d.Recipient.String(),
				Amount:    d.Amount,
			},
		},
	}

	var reply gatewayReply
	err := gatewayRPC(&arguments, &reply)
	if nil != err {
		return err
	}

	if nil != reply.Error {
		return fault.ProcessError("gateway error: " + reply.Error.Message)
	}

	return nil
}

// basic RPC - only use while global data locked
func gatewayRPC(arguments *gatewayArguments, reply *gatewayReply) error {

	s, err := json.Marshal(arguments)
	if nil != err {
		return err
	}

	globalData.log.Tracef("rpc send: %s", s)

	postData := bytes.NewBuffer(s)

	request, err := http.NewRequest("POST", globalData.url, postData)
	if nil != err {
		return err
	}
	if "" != globalData.username {
		request.SetBasicAuth(globalData.username, globalData.password)
	}

	response, err := globalData.client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return err
	}

	globalData.log.Tracef("rpc response body: %s", body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fault.ProcessError("gateway status: " + response.Status)
	}

	err = json.Unmarshal(body, reply)
	if nil != err {
		return err
	}

	return nil
}
