// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handle

import (
	"net/http"
	"sync"

	"github.com/gogama/httpcore/buffer"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// MaxComposedFragments caps the number of fragments a Buffered handle
// holds by reference before consolidating them.
const MaxComposedFragments = 1024

// Buffered is the Handle that accumulates the whole response body and
// resolves its result with a single Response once the body is complete.
//
// Fragments are retained, not copied, as they arrive. The accumulated
// buffer is created on the first non-empty fragment and released
// exactly once: after the body is copied out on OnEnd, or on OnError.
// Events delivered after OnEnd or OnError are ignored, so a fragment
// racing with a detach is never retained.
type Buffered struct {
	req    *request.Request
	ctx    *request.Context
	result *future.Future[*request.Response]
	alloc  buffer.Allocator

	lock sync.Mutex
	resp request.Response
	body *buffer.Composite
	done bool
}

// NewBuffered returns a Buffered handle resolving result. If alloc is
// nil, buffer.Pooled is used.
func NewBuffered(req *request.Request, ctx *request.Context, result *future.Future[*request.Response], alloc buffer.Allocator) *Buffered {
	if result == nil {
		panic("httpcore/handle: nil result")
	}
	if alloc == nil {
		alloc = buffer.Pooled
	}
	return &Buffered{
		req:    req,
		ctx:    ctx,
		result: result,
		alloc:  alloc,
	}
}

// Request returns the request whose response h consumes.
func (h *Buffered) Request() *request.Request {
	return h.req
}

// Context returns the execution context of the request.
func (h *Buffered) Context() *request.Context {
	return h.ctx
}

// Result returns the future h resolves.
func (h *Buffered) Result() *future.Future[*request.Response] {
	return h.result
}

func (h *Buffered) OnStart(statusCode int, header http.Header) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.done {
		return
	}
	h.resp.StatusCode = statusCode
	h.resp.Header = header
}

func (h *Buffered) OnData(fragment *buffer.Buffer) {
	if fragment == nil || fragment.Len() == 0 {
		return
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.done {
		return
	}
	if h.body == nil {
		h.body = h.alloc.Composite(MaxComposedFragments)
	}
	h.body.Add(fragment.Retain())
}

func (h *Buffered) OnTrailer(trailer http.Header) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.done {
		return
	}
	if h.resp.Trailer == nil {
		h.resp.Trailer = make(http.Header, len(trailer))
	}
	for k, vs := range trailer {
		for _, v := range vs {
			h.resp.Trailer.Add(k, v)
		}
	}
}

func (h *Buffered) OnEnd() {
	h.lock.Lock()
	if h.done {
		h.lock.Unlock()
		return
	}
	h.done = true
	resp := h.resp
	if h.body == nil || h.body.Len() == 0 {
		resp.Body = []byte{}
	} else {
		resp.Body = h.body.Bytes()
	}
	h.release()
	h.lock.Unlock()

	h.result.Complete(&resp)
}

func (h *Buffered) OnError(err error) {
	h.lock.Lock()
	h.done = true
	h.release()
	h.lock.Unlock()

	h.result.Fail(err)
}

func (h *Buffered) release() {
	if h.body != nil {
		h.body.Release()
		h.body = nil
	}
}
