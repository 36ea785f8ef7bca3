// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nftinder/marketd/courier"
	"github.com/nftinder/marketd/mode"
	"github.com/nftinder/marketd/settlement"
)

// InternalConnection - type to allow RPC system to interface to http request
type InternalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *InternalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *InternalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *InternalConnection) Close() error {
	return nil
}

// the argument passed to the handlers
type httpHandler struct {
	log                *logger.L
	server             *rpc.Server
	version            string
	start              time.Time
	allow              map[string][]*net.IPNet
	maximumConnections uint64
}

// this matches anything not matched and returns an error
func (s *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// performs a call to any normal RPC
func (s *httpHandler) rpc(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if uint64(connectionCountRPC.Increment()) > s.maximumConnections {
		connectionCountRPC.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer connectionCountRPC.Decrement()

	serverCodec := jsonrpc.NewServerCodec(&InternalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	err := s.server.ServeRequest(serverCodec)
	if nil != err {
		sendInternalServerError(w)
		return
	}
}

// to allow a GET for the same response and Node.Info RPC
func (s *httpHandler) details(w http.ResponseWriter, r *http.Request) {

	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.isAllowed("details", r) {
		s.log.Warnf("access denied: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	type lrCount struct {
		Incoming uint64 `json:"incoming"`
	}

	type theReply struct {
		Mode              string  `json:"mode"`
		RPCs              uint64  `json:"rpcs"`
		Connections       lrCount `json:"connections"`
		PendingDeliveries uint64  `json:"pendingDeliveries"`
		InFlight          uint64  `json:"inFlight"`
		Version           string  `json:"version"`
		Uptime            string  `json:"uptime"`
	}

	connections := connectionCountRPC.Uint64()

	pending, err := settlement.PendingCount()
	if nil != err {
		s.log.Errorf("pending count error: %s", err)
	}

	reply := theReply{
		Mode:              mode.String(),
		RPCs:              connections,
		Connections:       lrCount{Incoming: connections},
		PendingDeliveries: pending,
		InFlight:          courier.InFlight(),
		Version:           s.version,
		Uptime:            time.Since(s.start).String(),
	}

	sendReply(w, reply)
}

// to output current connection count
func (s *httpHandler) connections(w http.ResponseWriter, r *http.Request) {

	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.isAllowed("connections", r) {
		s.log.Warnf("access denied: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	type theReply struct {
		ConnectedTo uint64 `json:"connectedTo"`
	}

	reply := theReply{
		ConnectedTo: connectionCountRPC.Uint64(),
	}

	sendReply(w, reply)
}

// check if remote address is allowed
func (s *httpHandler) isAllowed(api string, r *http.Request) bool {
	last := len(r.RemoteAddr) - 1
	if last <= 0 {
		return false
	}

	cidr, ok := s.allow[api]
	if !ok {
		return false
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		return false
	}

	addr := net.ParseIP(host)
	if nil == addr {
		return false
	}

	for _, n := range cidr {
		if n.Contains(addr) {
			return true
		}
	}

	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, "too many requests", http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"code":` + strconv.Itoa(code) + `,"error":"` + message + `"}`))
}
