// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gogama/httpcore/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

func TestH1Conn(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		name, data := tempFile(t, 300000)
		req, ctx := fileRequest(t, name)
		req.Header.Set("X-Trace", "abc")
		var buf bytes.Buffer
		_, err := Write(req, NewH1Conn(&buf), ctx, false, "", false).Result()
		require.NoError(t, err)

		got, err := http.ReadRequest(bufio.NewReader(&buf))
		require.NoError(t, err)
		assert.Equal(t, "POST", got.Method)
		assert.Equal(t, "/abc", got.RequestURI)
		assert.Equal(t, "127.0.0.1", got.Host)
		assert.Equal(t, int64(len(data)), got.ContentLength)
		assert.Equal(t, "application/octet-stream", got.Header.Get("Content-Type"))
		assert.Equal(t, "abc", got.Header.Get("X-Trace"))
		assert.Equal(t, 1, got.ProtoMinor)
		body, err := io.ReadAll(got.Body)
		require.NoError(t, err)
		assert.Equal(t, data, body)
		assert.Zero(t, buf.Len())
	})
	t.Run("chunked stream", func(t *testing.T) {
		req, err := request.New("POST", "http://example.com/upload", strings.NewReader(strings.Repeat("x", 20000)))
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = Write(req, NewH1Conn(&buf), nil, false, "", false).Result()
		require.NoError(t, err)

		got, err := http.ReadRequest(bufio.NewReader(&buf))
		require.NoError(t, err)
		assert.Equal(t, []string{"chunked"}, got.TransferEncoding)
		body, err := io.ReadAll(got.Body)
		require.NoError(t, err)
		assert.Equal(t, 20000, len(body))
	})
	t.Run("expect continue", func(t *testing.T) {
		req, err := request.New("PUT", "http://example.com/doc", "payload")
		require.NoError(t, err)
		ctx := request.NewContext(context.Background(), req)
		ctx.SetAttr(request.ExpectContinueEnabled, true)
		var buf bytes.Buffer
		signal := Write(req, NewH1Conn(&buf), ctx, false, "", false)
		assert.False(t, signal.IsDone())
		assert.True(t, strings.HasSuffix(buf.String(), "\r\n\r\n"))
		assert.Contains(t, buf.String(), "Expect: 100-continue\r\n")
		headLen := buf.Len()

		ctx.Continue()
		_, err = signal.Result()
		require.NoError(t, err)
		assert.Equal(t, "payload", buf.String()[headLen:])
	})
	t.Run("invalid header", func(t *testing.T) {
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		req.Header["Bad Name"] = []string{"v"}
		var buf bytes.Buffer
		_, err = Write(req, NewH1Conn(&buf), nil, false, "", false).Result()
		assert.Error(t, err)
		assert.Zero(t, buf.Len())
	})
}

func readFrames(t *testing.T, r io.Reader) []http2.Frame {
	fr := http2.NewFramer(nil, r)
	fr.ReadMetaHeaders = hpack.NewDecoder(4096, nil)
	var frames []http2.Frame
	for {
		f, err := fr.ReadFrame()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		if df, ok := f.(*http2.DataFrame); ok {
			// Data is only valid until the next ReadFrame.
			frames = append(frames, &dataCopy{
				streamID:  df.StreamID,
				data:      append([]byte(nil), df.Data()...),
				endStream: df.StreamEnded(),
			})
			continue
		}
		frames = append(frames, f)
	}
}

type dataCopy struct {
	http2.Frame
	streamID  uint32
	data      []byte
	endStream bool
}

func TestH2Conn(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		name, data := tempFile(t, 1024*1024)
		req, ctx := fileRequest(t, name)
		req = req.WithStreamID(5)
		req.Header.Set("Connection", "keep-alive")
		req.Header.Set("X-Trace", "abc")
		var buf bytes.Buffer
		_, err := Write(req, NewH2Conn(&buf), ctx, false, "", true).Result()
		require.NoError(t, err)

		frames := readFrames(t, &buf)
		require.Len(t, frames, 1+128)
		hf, ok := frames[0].(*http2.MetaHeadersFrame)
		require.True(t, ok)
		assert.Equal(t, uint32(5), hf.StreamID)
		assert.False(t, hf.StreamEnded())
		assert.Equal(t, "POST", hf.PseudoValue("method"))
		assert.Equal(t, "http", hf.PseudoValue("scheme"))
		assert.Equal(t, "127.0.0.1", hf.PseudoValue("authority"))
		assert.Equal(t, "/abc", hf.PseudoValue("path"))
		fields := map[string]string{}
		for _, f := range hf.RegularFields() {
			fields[f.Name] = f.Value
		}
		assert.Equal(t, "1048576", fields["content-length"])
		assert.Equal(t, "application/octet-stream", fields["content-type"])
		assert.Equal(t, "abc", fields["x-trace"])
		assert.NotContains(t, fields, "connection")

		var body []byte
		for i, f := range frames[1:] {
			d := f.(*dataCopy)
			assert.Equal(t, uint32(5), d.streamID)
			assert.Len(t, d.data, DefaultChunkSize)
			assert.Equal(t, i == 127, d.endStream)
			body = append(body, d.data...)
		}
		assert.Equal(t, data, body)
	})
	t.Run("stream ids", func(t *testing.T) {
		c := NewH2Conn(io.Discard)
		assert.Equal(t, uint32(1), c.NextStreamID())
		assert.Equal(t, uint32(3), c.NextStreamID())
		assert.Equal(t, uint32(5), c.NextStreamID())
	})
	t.Run("large header block", func(t *testing.T) {
		req, err := request.New("GET", "https://example.com/", nil)
		require.NoError(t, err)
		for i := 0; i < 8; i++ {
			req.Header.Add("X-Big", strings.Repeat(string(rune('a'+i)), 4000))
		}
		var buf bytes.Buffer
		_, err = Write(req, NewH2Conn(&buf), nil, true, "", true).Result()
		require.NoError(t, err)
		frames := readFrames(t, &buf)
		require.Len(t, frames, 1)
		hf := frames[0].(*http2.MetaHeadersFrame)
		assert.True(t, hf.StreamEnded())
		assert.Equal(t, "https", hf.PseudoValue("scheme"))
		n := 0
		for _, f := range hf.RegularFields() {
			if f.Name == "x-big" {
				n++
			}
		}
		assert.Equal(t, 8, n)
	})
}
