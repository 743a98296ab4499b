// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package handle turns the inbound event stream of a connection into
completed responses.

A Handle receives the lifecycle events of one response. Two variants
are provided: Buffered, which accumulates the whole body and resolves a
single Response, and Streaming, which passes fragments to caller
callbacks as they arrive.

A Registry correlates request ids with handles for one connection, so a
transport reading interleaved frames from many streams can route each
event:

	id, err := conn.Handles().Put(h)
	...
	// later, on the connection's read goroutine
	conn.Handles().Data(id, fragment)
	conn.Handles().End(id)
*/
package handle
