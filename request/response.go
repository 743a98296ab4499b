// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Response is the completed result of an attempt.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Header contains the response header fields.
	Header http.Header

	// Trailer contains trailer fields received after the body, if any.
	Trailer http.Header

	// Body is the fully-buffered response body. It is never nil for a
	// response produced by a buffering handle, although it may have
	// zero length. It is nil for a response whose body was streamed to
	// the caller fragment by fragment.
	Body []byte
}
