// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

// maxFrameSize is the initial SETTINGS_MAX_FRAME_SIZE of RFC 7540.
const maxFrameSize = 16384

// connectionHeaders may not appear in an HTTP/2 header block.
var connectionHeaders = map[string]bool{
	"connection":        true,
	"host":              true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
	"content-length":    true,
}

type h2Conn struct {
	lock   sync.Mutex
	bw     *bufio.Writer
	fr     *http2.Framer
	hbuf   bytes.Buffer
	henc   *hpack.Encoder
	nextID uint32
}

// NewH2Conn returns an H2Conn writing HTTP/2 frames to w. It neither
// writes the connection preface nor reads SETTINGS; the transport owning
// w does that before handing it over. Frames are limited to the initial
// maximum frame size.
func NewH2Conn(w io.Writer) H2Conn {
	c := &h2Conn{
		bw:     bufio.NewWriter(w),
		nextID: 1,
	}
	c.fr = http2.NewFramer(c.bw, nil)
	c.henc = hpack.NewEncoder(&c.hbuf)
	return c
}

func (c *h2Conn) NextStreamID() uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()
	id := c.nextID
	c.nextID += 2
	return id
}

func (c *h2Conn) WriteHeaders(streamID uint32, h *Head, endStream bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	hdrs, err := c.encodeHeaders(h)
	if err != nil {
		return err
	}
	first := true
	for len(hdrs) > 0 {
		chunk := hdrs
		if len(chunk) > maxFrameSize {
			chunk = chunk[:maxFrameSize]
		}
		hdrs = hdrs[len(chunk):]
		endHeaders := len(hdrs) == 0
		if first {
			err = c.fr.WriteHeaders(http2.HeadersFrameParam{
				StreamID:      streamID,
				BlockFragment: chunk,
				EndStream:     endStream,
				EndHeaders:    endHeaders,
			})
			first = false
		} else {
			err = c.fr.WriteContinuation(streamID, endHeaders, chunk)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *h2Conn) encodeHeaders(h *Head) ([]byte, error) {
	for k, vs := range h.Header {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("httpcore/body: invalid header field name %q", k)
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, fmt.Errorf("httpcore/body: invalid header field value for %q", k)
			}
		}
	}

	c.hbuf.Reset()
	write := func(name, value string) {
		_ = c.henc.WriteField(hpack.HeaderField{Name: name, Value: value})
	}
	write(":method", h.Method)
	write(":scheme", h.Scheme)
	write(":authority", h.Authority)
	write(":path", h.Path)

	keys := make([]string, 0, len(h.Header))
	for k := range h.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := strings.ToLower(k)
		if connectionHeaders[name] {
			continue
		}
		for _, v := range h.Header[k] {
			if name == "te" && v != "trailers" {
				continue
			}
			write(name, v)
		}
	}
	if cl, ok := h.contentLength(); ok {
		write("content-length", cl)
	}

	out := make([]byte, c.hbuf.Len())
	copy(out, c.hbuf.Bytes())
	return out, nil
}

func (c *h2Conn) WriteData(streamID uint32, p []byte, endStream bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	for {
		chunk := p
		if len(chunk) > maxFrameSize {
			chunk = chunk[:maxFrameSize]
		}
		p = p[len(chunk):]
		if err := c.fr.WriteData(streamID, endStream && len(p) == 0, chunk); err != nil {
			return err
		}
		if len(p) == 0 {
			return nil
		}
	}
}

func (c *h2Conn) Flush() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.bw.Flush()
}
