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

// HTTP1 is the strategy for connections carrying one request at a time.
// A file body is handed to the connection in one piece so the operating
// system can copy it to the socket directly.
type HTTP1 struct {
	// ChunkSize is the read size for stream bodies. Zero means
	// DefaultChunkSize.
	ChunkSize int
}

// Write writes req to conn. See Writer.Write.
//
// For a file body the emitted sequence is the header block, carrying
// the file size as content-length, then the file region, then the end
// of the body. If the file cannot be opened the header block is still
// written, with a zero content-length, but neither the region nor the
// end of the body is, and the signal fails with the open error.
func (s HTTP1) Write(req *request.Request, conn H1Conn, ctx *request.Context, secure bool, version string) *future.Future[struct{}] {
	if version == "" {
		version = "HTTP/1.1"
	}
	signal := future.New[struct{}]()
	head := newHead(req, secure)
	expect := expectContinue(req, ctx)
	writeHead := func() error {
		if err := conn.WriteHead(version, head); err != nil {
			return err
		}
		if expect {
			return conn.Flush()
		}
		return nil
	}

	var send func() error
	switch req.Kind() {
	case request.FileBody:
		if head.Header.Get("Content-Type") == "" {
			head.Header.Set("Content-Type", "application/octet-stream")
		}
		f, size, err := openFile(req.File)
		head.ContentLength = size
		if err != nil {
			if werr := conn.WriteHead(version, head); werr != nil {
				err = werr
			} else if ferr := conn.Flush(); ferr != nil {
				err = ferr
			}
			signal.Fail(err)
			return signal
		}
		signal.OnComplete(func(struct{}, error) { _ = f.Close() })
		send = func() error {
			if err := conn.TransferFile(f, 0, size); err != nil {
				return err
			}
			if err := conn.WriteLast(); err != nil {
				return err
			}
			return conn.Flush()
		}
	case request.BytesBody:
		head.ContentLength = int64(len(req.Bytes))
		send = func() error {
			if err := conn.WriteContent(req.Bytes); err != nil {
				return err
			}
			if err := conn.WriteLast(); err != nil {
				return err
			}
			return conn.Flush()
		}
	case request.StreamBody:
		head.ContentLength = -1
		send = func() error {
			if err := copyStream(conn, req.Stream, chunkSize(s.ChunkSize)); err != nil {
				return err
			}
			if err := conn.WriteLast(); err != nil {
				return err
			}
			return conn.Flush()
		}
	default:
		head.ContentLength = 0
		send = func() error {
			if err := conn.WriteLast(); err != nil {
				return err
			}
			return conn.Flush()
		}
	}

	if expect {
		head.Header.Set("Expect", "100-continue")
	}
	return transmit(ctx, expect, signal, writeHead, send)
}

func copyStream(conn H1Conn, r io.Reader, size int) error {
	buf := pool.Get(size)
	defer pool.Put(buf)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := conn.WriteContent(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// openFile opens the named file and returns it with its size. On
// failure the size is zero.
func openFile(name string) (*os.File, int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, fi.Size(), nil
}
