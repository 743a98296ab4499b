// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package body writes requests to connections.

Two strategies are provided, chosen by Writer according to the kind of
connection. HTTP1 writes one request at a time and hands a file body to
the connection whole, so the kernel can send it with zero copies. HTTP2
interleaves with other streams on a multiplexed connection and so cuts
every body into DATA frames of a bounded size.

Both strategies support the expect-continue handshake: when the
request.ExpectContinueEnabled attribute is set, only the header block is
written, and the body follows once the connection layer sees a
100 Continue response and calls request.Context.Continue.

NewH1Conn and NewH2Conn adapt a plain io.Writer, such as a net.Conn, to
the connection interfaces the strategies write to.
*/
package body
