// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"bufio"
	"fmt"
	"io"
	"net/http/httputil"
	"os"

	"golang.org/x/net/http/httpguts"
)

var h1Excluded = map[string]bool{
	"Host":              true,
	"Content-Length":    true,
	"Transfer-Encoding": true,
}

type h1Conn struct {
	w       io.Writer
	bw      *bufio.Writer
	chunked io.WriteCloser
}

// NewH1Conn returns an H1Conn writing the HTTP/1.x wire format to w.
//
// If w is a *net.TCPConn, or otherwise implements io.ReaderFrom in a
// way that recognizes *os.File, TransferFile copies file regions to the
// socket with sendfile.
func NewH1Conn(w io.Writer) H1Conn {
	return &h1Conn{w: w, bw: bufio.NewWriter(w)}
}

func (c *h1Conn) WriteHead(version string, h *Head) error {
	if !httpguts.ValidHostHeader(h.Authority) {
		return fmt.Errorf("httpcore/body: invalid host %q", h.Authority)
	}
	for k, vs := range h.Header {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("httpcore/body: invalid header field name %q", k)
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("httpcore/body: invalid header field value for %q", k)
			}
		}
	}

	host := h.Header.Get("Host")
	if host == "" {
		host = h.Authority
	}
	if _, err := fmt.Fprintf(c.bw, "%s %s %s\r\nHost: %s\r\n", h.Method, h.Path, version, host); err != nil {
		return err
	}
	if err := h.Header.WriteSubset(c.bw, h1Excluded); err != nil {
		return err
	}
	c.chunked = nil
	if cl, ok := h.contentLength(); ok {
		if _, err := fmt.Fprintf(c.bw, "Content-Length: %s\r\n", cl); err != nil {
			return err
		}
	} else if h.ContentLength < 0 && version == "HTTP/1.1" {
		if _, err := io.WriteString(c.bw, "Transfer-Encoding: chunked\r\n"); err != nil {
			return err
		}
		c.chunked = httputil.NewChunkedWriter(c.bw)
	}
	_, err := io.WriteString(c.bw, "\r\n")
	return err
}

func (c *h1Conn) TransferFile(f *os.File, off, n int64) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return err
	}
	var dst io.Writer = c.w
	if c.chunked != nil {
		dst = c.chunked
	} else if err := c.bw.Flush(); err != nil {
		return err
	}
	copied, err := io.Copy(dst, &io.LimitedReader{R: f, N: n})
	if err != nil {
		return err
	}
	if copied < n {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (c *h1Conn) WriteContent(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	var err error
	if c.chunked != nil {
		_, err = c.chunked.Write(p)
	} else {
		_, err = c.bw.Write(p)
	}
	return err
}

func (c *h1Conn) WriteLast() error {
	if c.chunked == nil {
		return nil
	}
	chunked := c.chunked
	c.chunked = nil
	if err := chunked.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(c.bw, "\r\n")
	return err
}

func (c *h1Conn) Flush() error {
	return c.bw.Flush()
}

