// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package buffer provides the reference-counted buffers in which
// transports deliver response body fragments, the Composite used to
// accumulate fragments without copying them, and the Allocator that
// produces both.
package buffer
