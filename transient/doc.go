// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from HTTP request execution as
// transient or non-transient. This is handy for writing retry policies,
// and for other purposes such as bucketing error metrics.
//
// Besides socket-level failures, Categorize recognizes the HTTP/2
// stream and connection errors which a server uses to tell a client
// that a request was not processed and can safely be sent again.
package transient
