// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"errors"
	"io"
	"os"

	pool "github.com/libp2p/go-buffer-pool"

	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// HTTP2 is the strategy for multiplexed connections. Bodies are cut into
// DATA frames of at most ChunkSize bytes so that a large body never
// monopolizes a connection shared with other streams.
type HTTP2 struct {
	// ChunkSize is the maximum payload of one DATA frame. Zero means
	// DefaultChunkSize.
	ChunkSize int
}

// Write writes req to conn. See Writer.Write.
//
// The stream is req.StreamID if set, otherwise one allocated by conn.
// The HEADERS frame never ends the stream unless the request has no
// body; of the DATA frames, only the last one does. If the body cannot
// be read, no further frames are written and the signal fails. Frames
// already written are not retracted.
func (s HTTP2) Write(req *request.Request, conn H2Conn, ctx *request.Context, secure bool) *future.Future[struct{}] {
	id := req.StreamID
	if id == 0 {
		id = conn.NextStreamID()
	}
	size := chunkSize(s.ChunkSize)
	signal := future.New[struct{}]()
	head := newHead(req, secure)
	expect := expectContinue(req, ctx)
	kind := req.Kind()
	writeHead := func() error {
		if err := conn.WriteHeaders(id, head, kind == request.NoBody); err != nil {
			return err
		}
		return conn.Flush()
	}

	var send func() error
	switch kind {
	case request.FileBody:
		if head.Header.Get("Content-Type") == "" {
			head.Header.Set("Content-Type", "application/octet-stream")
		}
		f, n, err := openFile(req.File)
		head.ContentLength = n
		if err != nil {
			if werr := conn.WriteHeaders(id, head, false); werr != nil {
				err = werr
			} else if ferr := conn.Flush(); ferr != nil {
				err = ferr
			}
			signal.Fail(err)
			return signal
		}
		signal.OnComplete(func(struct{}, error) { _ = f.Close() })
		send = func() error {
			return writeFile(conn, id, f, n, size)
		}
	case request.BytesBody:
		head.ContentLength = int64(len(req.Bytes))
		send = func() error {
			return writeBytes(conn, id, req.Bytes, size)
		}
	case request.StreamBody:
		head.ContentLength = -1
		send = func() error {
			return writeStream(conn, id, req.Stream, size)
		}
	default:
		head.ContentLength = 0
		send = func() error { return nil }
	}

	if expect {
		head.Header.Set("Expect", "100-continue")
	}
	return transmit(ctx, expect, signal, writeHead, send)
}

// writeFile writes exactly n bytes of f as ceil(n/size) DATA frames.
func writeFile(conn H2Conn, id uint32, f *os.File, n int64, size int) error {
	if n == 0 {
		if err := conn.WriteData(id, nil, true); err != nil {
			return err
		}
		return conn.Flush()
	}
	buf := pool.Get(size)
	defer pool.Put(buf)
	for remaining := n; remaining > 0; {
		chunk := buf
		if remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		if _, err := io.ReadFull(f, chunk); err != nil {
			return err
		}
		remaining -= int64(len(chunk))
		if err := conn.WriteData(id, chunk, remaining == 0); err != nil {
			return err
		}
	}
	return conn.Flush()
}

func writeBytes(conn H2Conn, id uint32, p []byte, size int) error {
	for {
		chunk := p
		if len(chunk) > size {
			chunk = chunk[:size]
		}
		p = p[len(chunk):]
		if err := conn.WriteData(id, chunk, len(p) == 0); err != nil {
			return err
		}
		if len(p) == 0 {
			return conn.Flush()
		}
	}
}

// writeStream ends the stream on the first short chunk, so a stream
// whose length is a multiple of size ends with an empty DATA frame.
func writeStream(conn H2Conn, id uint32, r io.Reader, size int) error {
	buf := pool.Get(size)
	defer pool.Put(buf)
	for {
		n, err := io.ReadFull(r, buf)
		switch {
		case err == nil:
			if werr := conn.WriteData(id, buf[:n], false); werr != nil {
				return werr
			}
		case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
			if werr := conn.WriteData(id, buf[:n], true); werr != nil {
				return werr
			}
			return conn.Flush()
		default:
			return err
		}
	}
}
