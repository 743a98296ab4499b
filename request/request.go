// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

// A BodyKind identifies how a request body is supplied.
type BodyKind int

const (
	// NoBody indicates the request has no body.
	NoBody BodyKind = iota
	// BytesBody indicates an in-memory body held in Request.Bytes.
	BytesBody
	// FileBody indicates a file-backed body named by Request.File. File
	// bodies are transmitted without copying them into memory whenever
	// the protocol allows it.
	FileBody
	// StreamBody indicates an exhaustible body read from Request.Stream.
	// A stream body cannot be replayed, so requests carrying one are
	// never retried.
	StreamBody
)

var bodyKindNames = []string{"NoBody", "BytesBody", "FileBody", "StreamBody"}

// String returns the name of the body kind.
func (k BodyKind) String() string {
	if k < 0 || int(k) >= len(bodyKindNames) {
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
	return bodyKindNames[k]
}

// A Request describes a logical HTTP request. A Request should be
// treated as immutable once it has been handed to a client: the same
// value is re-sent, unchanged, on every attempt of an execution.
//
// The field structure mirrors http.Request where possible, with the
// body replaced by a small descriptor: exactly one of Bytes, File, and
// Stream is meaningful, as reported by Kind.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access. Its Host names the server to
	// connect to.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent.
	Header http.Header

	// Bytes is the pre-buffered request body, if any.
	Bytes []byte

	// File is the path of a file whose contents form the request body.
	// The file is opened when the body is written, not before.
	File string

	// Stream is an exhaustible request body.
	Stream io.Reader

	// StreamID optionally pins the stream identifier used on a
	// multiplexed connection. Zero lets the connection assign one.
	StreamID uint32
}

// New returns a new Request given a method, URL, and optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, or io.Reader. Strings and byte slices become a BytesBody,
// while an io.Reader becomes a StreamBody and is read only when the
// request is sent. To send a file, use NewFile.
func New(method, url string, body interface{}) (*Request, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("httpcore/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	r := &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
	}
	switch x := body.(type) {
	case nil:
	case string:
		r.Bytes = []byte(x)
	case []byte:
		r.Bytes = x
	case io.Reader:
		r.Stream = x
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
	return r, nil
}

// NewFile returns a new Request whose body is the contents of the file
// at path.
func NewFile(method, url, path string) (*Request, error) {
	if path == "" {
		return nil, errors.New("httpcore/request: empty file path")
	}
	r, err := New(method, url, nil)
	if err != nil {
		return nil, err
	}
	r.File = path
	return r, nil
}

// Kind reports how the request body is supplied.
func (r *Request) Kind() BodyKind {
	switch {
	case r.File != "":
		return FileBody
	case r.Stream != nil:
		return StreamBody
	case len(r.Bytes) > 0:
		return BytesBody
	default:
		return NoBody
	}
}

// Replayable reports whether the request body can be sent more than
// once. Only stream bodies are not replayable.
func (r *Request) Replayable() bool {
	return r.Kind() != StreamBody
}

// WithStreamID returns a shallow copy of r with its StreamID changed
// to id.
func (r *Request) WithStreamID(id uint32) *Request {
	r2 := new(Request)
	*r2 = *r
	r2.StreamID = id
	return r2
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
func (r *Request) SetBasicAuth(username, password string) {
	r.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// String returns the method and URL of the request.
func (r *Request) String() string {
	if r.URL == nil {
		return r.Method
	}
	return r.Method + " " + r.URL.String()
}

// basicAuth is lifted verbatim from net/http/client.go.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
