// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"errors"
	"net/http"

	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// DefaultChunkSize is the maximum number of body bytes put in one DATA
// frame, or read from a stream body at once.
const DefaultChunkSize = 8192

// ErrProtocol is the failure of a write on a connection which does not
// implement the protocol the request is being sent with.
var ErrProtocol = errors.New("httpcore/body: connection does not speak requested protocol")

// A Writer writes requests to connections, choosing the HTTP1 or HTTP2
// strategy according to whether the connection is multiplexed.
//
// The zero value is a valid Writer using DefaultChunkSize.
type Writer struct {
	// ChunkSize is the maximum number of body bytes per DATA frame on
	// multiplexed connections, and the read size for stream bodies. Zero
	// means DefaultChunkSize.
	ChunkSize int
}

// Write writes req to conn and returns a signal resolved once the whole
// request has been written, or failed if it could not be.
//
// If the request.ExpectContinueEnabled attribute of ctx is set and the
// request has a body, only the header block is written and the signal
// stays pending. The body is written when the connection layer calls
// ctx.Continue on receiving a 100 Continue response. Cancelling the
// pending signal abandons the body.
//
// Parameter version is the HTTP/1.x protocol version, ignored on
// multiplexed connections. An empty version means HTTP/1.1.
func (w Writer) Write(req *request.Request, conn Conn, ctx *request.Context, secure bool, version string, multiplexed bool) *future.Future[struct{}] {
	if multiplexed {
		h2, ok := conn.(H2Conn)
		if !ok {
			return future.Failed[struct{}](ErrProtocol)
		}
		return HTTP2{ChunkSize: w.ChunkSize}.Write(req, h2, ctx, secure)
	}
	h1, ok := conn.(H1Conn)
	if !ok {
		return future.Failed[struct{}](ErrProtocol)
	}
	return HTTP1{ChunkSize: w.ChunkSize}.Write(req, h1, ctx, secure, version)
}

// Write writes req to conn using the zero Writer.
func Write(req *request.Request, conn Conn, ctx *request.Context, secure bool, version string, multiplexed bool) *future.Future[struct{}] {
	return Writer{}.Write(req, conn, ctx, secure, version, multiplexed)
}

func chunkSize(n int) int {
	if n <= 0 {
		return DefaultChunkSize
	}
	return n
}

func newHead(req *request.Request, secure bool) *Head {
	h := &Head{
		Method: req.Method,
		Scheme: "http",
		Header: req.Header.Clone(),
	}
	if h.Method == "" {
		h.Method = "GET"
	}
	if secure {
		h.Scheme = "https"
	}
	if h.Header == nil {
		h.Header = make(http.Header)
	}
	if req.URL != nil {
		h.Authority = req.URL.Host
		h.Path = req.URL.RequestURI()
	}
	if h.Path == "" {
		h.Path = "/"
	}
	return h
}

func expectContinue(req *request.Request, ctx *request.Context) bool {
	return ctx != nil && req.Kind() != request.NoBody && ctx.BoolAttr(request.ExpectContinueEnabled)
}

// transmit writes the head, then either sends the body right away or
// parks send behind the expect-continue callback. The callback is
// registered before the head is written, since a 100 Continue may
// arrive as soon as the head is flushed.
func transmit(ctx *request.Context, expect bool, signal *future.Future[struct{}], writeHead func() error, send func() error) *future.Future[struct{}] {
	if !expect {
		if err := writeHead(); err != nil {
			signal.Fail(err)
			return signal
		}
		settle(signal, send())
		return signal
	}
	ctx.SetAttr(request.ExpectContinueCallback, request.ContinueFunc(func() {
		if signal.IsDone() {
			return
		}
		settle(signal, send())
	}))
	if err := writeHead(); err != nil {
		ctx.RemoveAttr(request.ExpectContinueCallback)
		signal.Fail(err)
	}
	return signal
}

func settle(signal *future.Future[struct{}], err error) {
	if err != nil {
		signal.Fail(err)
	} else {
		signal.Complete(struct{}{})
	}
}
