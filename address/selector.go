// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package address

import (
	"net"
	"strconv"
	"strings"

	"github.com/gogama/httpcore/request"
)

// An Address is the network address of a server.
type Address struct {
	Host string
	Port int
}

// String returns the address in "host:port" form, bracketing IPv6
// hosts.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// A Selector chooses the address of the server to which a request
// attempt is sent.
//
// Implementations of Selector must be safe for concurrent use by
// multiple goroutines.
type Selector interface {
	Select(req *request.Request) Address
}

// The SelectorFunc type is an adapter to allow the use of ordinary
// functions as selectors.
type SelectorFunc func(req *request.Request) Address

// Select calls f(req).
func (f SelectorFunc) Select(req *request.Request) Address {
	return f(req)
}

// Default selects the host of the request URL, and its explicit port if
// there is one. Otherwise it selects port 443 for secure schemes and 80
// for all others.
//
// Default never fails: malformed URLs are rejected when requests are
// built.
var Default Selector = SelectorFunc(selectDefault)

func selectDefault(req *request.Request) Address {
	u := req.URL
	addr := Address{Host: u.Hostname()}
	if port := u.Port(); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			addr.Port = p
			return addr
		}
	}
	addr.Port = DefaultPort(u.Scheme)
	return addr
}

// DefaultPort returns 443 if scheme is secure, and 80 otherwise.
func DefaultPort(scheme string) int {
	if Secure(scheme) {
		return 443
	}
	return 80
}

// Secure reports whether scheme indicates a TLS-protected transport.
func Secure(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "https", "wss":
		return true
	default:
		return false
	}
}
