// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport declares the connection layer the execution core
// runs on. Establishing, pooling and evicting connections, and reading
// responses from them, are the business of implementations of Pool.
package transport

import (
	"context"

	"github.com/gogama/httpcore/address"
	"github.com/gogama/httpcore/body"
	"github.com/gogama/httpcore/handle"
)

// A Conn is a connection acquired from a Pool.
//
// The write side is one of body.H1Conn or body.H2Conn, matching
// Multiplexed. The read side is the connection's own business: as
// responses arrive it routes their events through Handles to the
// handle registered for each request id, calls Continue on the
// request.Context of a request receiving 100 Continue, and calls
// Handles().Close when the connection dies.
type Conn interface {
	body.Conn
	// Secure reports whether the connection is encrypted.
	Secure() bool
	// Version is the HTTP/1.x protocol version, such as "HTTP/1.1".
	// It is empty for multiplexed connections.
	Version() string
	// Multiplexed reports whether the connection carries concurrent
	// streams, in which case request ids are stream identifiers.
	Multiplexed() bool
	// Handles returns the registry of in-flight requests on the
	// connection.
	Handles() *handle.Registry
}

// A Pool hands out connections to addresses.
//
// Implementations of Pool must be safe for concurrent use by multiple
// goroutines.
type Pool interface {
	// Acquire returns a connection to addr, blocking until one is
	// available or ctx is done.
	Acquire(ctx context.Context, addr address.Address) (Conn, error)
	// Release returns a connection acquired from the pool once the
	// request written on it has completed.
	Release(c Conn)
}

// NewRegistry returns the handle registry suited to a connection:
// multiplexed connections number requests with odd client stream
// identifiers starting at 1, others number them 1, 2, 3 and so on.
// Either way the last id is math.MaxInt32, after which Put fails with
// handle.ErrIDsExhausted and the connection must be retired.
func NewRegistry(multiplexed bool) *handle.Registry {
	if multiplexed {
		return handle.NewRegistry(-1, 2)
	}
	return handle.NewRegistry(0, 1)
}
