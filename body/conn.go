// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"net/http"
	"os"
	"strconv"
)

// A Conn is the write side of a connection. Writes may be buffered
// until Flush is called.
type Conn interface {
	Flush() error
}

// An H1Conn is a connection speaking HTTP/1.x, on which one request
// is written at a time.
type H1Conn interface {
	Conn
	// WriteHead writes the request line and header block.
	WriteHead(version string, h *Head) error
	// TransferFile writes n bytes of f starting at offset off. When the
	// underlying connection supports it, the bytes go straight from the
	// file to the socket without passing through user space.
	TransferFile(f *os.File, off, n int64) error
	// WriteContent writes a piece of the request body.
	WriteContent(p []byte) error
	// WriteLast ends the request body. It writes the terminating chunk
	// if the body uses chunked transfer coding, and nothing otherwise.
	WriteLast() error
}

// An H2Conn is a multiplexed connection speaking HTTP/2, on which the
// frames of many streams are interleaved.
//
// Implementations of H2Conn must be safe for concurrent use by multiple
// goroutines. Each method call writes whole frames.
type H2Conn interface {
	Conn
	// NextStreamID allocates the identifier of a new client stream.
	NextStreamID() uint32
	// WriteHeaders writes the header block of h on the stream.
	WriteHeaders(streamID uint32, h *Head, endStream bool) error
	// WriteData writes a DATA frame on the stream.
	WriteData(streamID uint32, p []byte, endStream bool) error
}

// A Head is the protocol-neutral header block of a request.
type Head struct {
	Method    string
	Scheme    string
	Authority string
	Path      string
	Header    http.Header
	// ContentLength is the body length, or -1 if it is unknown.
	ContentLength int64
}

// contentLength returns the value of the content-length header to send,
// if any. A zero length is only sent for methods which normally carry a
// body, as net/http does.
func (h *Head) contentLength() (string, bool) {
	switch {
	case h.ContentLength > 0:
		return strconv.FormatInt(h.ContentLength, 10), true
	case h.ContentLength == 0 && (h.Method == "POST" || h.Method == "PUT" || h.Method == "PATCH"):
		return "0", true
	}
	return "", false
}
