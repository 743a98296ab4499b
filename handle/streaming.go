// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handle

import (
	"net/http"

	"github.com/gogama/httpcore/buffer"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// Callbacks receive the fragments of a streamed response. Any field
// may be nil. The slice passed to Data is only valid for the duration
// of the call.
type Callbacks struct {
	Start   func(statusCode int, header http.Header)
	Data    func(p []byte)
	Trailer func(trailer http.Header)
	End     func()
	Error   func(err error)
}

// Streaming is the Handle that hands every fragment to caller-supplied
// callbacks as it arrives instead of buffering the body. Its result
// resolves with a Response whose Body is nil.
type Streaming struct {
	cb     Callbacks
	result *future.Future[*request.Response]
	resp   request.Response
}

// NewStreaming returns a Streaming handle resolving result.
func NewStreaming(result *future.Future[*request.Response], cb Callbacks) *Streaming {
	if result == nil {
		panic("httpcore/handle: nil result")
	}
	return &Streaming{cb: cb, result: result}
}

func (h *Streaming) OnStart(statusCode int, header http.Header) {
	h.resp.StatusCode = statusCode
	h.resp.Header = header
	if h.cb.Start != nil {
		h.cb.Start(statusCode, header)
	}
}

func (h *Streaming) OnData(fragment *buffer.Buffer) {
	if fragment == nil || fragment.Len() == 0 || h.cb.Data == nil {
		return
	}
	h.cb.Data(fragment.Bytes())
}

func (h *Streaming) OnTrailer(trailer http.Header) {
	h.resp.Trailer = trailer
	if h.cb.Trailer != nil {
		h.cb.Trailer(trailer)
	}
}

func (h *Streaming) OnEnd() {
	if h.cb.End != nil {
		h.cb.End()
	}
	resp := h.resp
	h.result.Complete(&resp)
}

func (h *Streaming) OnError(err error) {
	if h.cb.Error != nil {
		h.cb.Error(err)
	}
	h.result.Fail(err)
}
