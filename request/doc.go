// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (describes a logical
HTTP request), Response (the completed result of an attempt), and
Context (the attribute store shared by every stage of an execution).

A Request is immutable once submitted, and is re-sent unchanged on
every attempt. Its body is described rather than held open: an
in-memory byte slice, a file path, or an exhaustible stream.

	r, err := request.NewFile("POST", "https://example.com/upload", "/tmp/big.bin")
	...
	f := client.Execute(ctx, r)

A Context is created per execution, not per attempt, so attributes such
as the retried count persist across retries. Attribute keys defined by
this package use the Key type and are namespaced with a leading "$".
*/
package request
