// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"sync/atomic"
)

// A Buffer is a reference-counted byte slice. A Buffer starts with one
// reference; Retain adds one and Release drops one. When the count
// reaches zero the backing slice is returned to the allocator that
// produced it and the Buffer must no longer be used.
type Buffer struct {
	b    []byte
	refs int32
	free func([]byte)
}

// Wrap returns a Buffer over b which is not returned to any pool when
// released.
func Wrap(b []byte) *Buffer {
	return &Buffer{b: b, refs: 1}
}

// Bytes returns the buffer contents. The slice is only valid while the
// caller holds a reference.
func (b *Buffer) Bytes() []byte {
	return b.b
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return len(b.b)
}

// Refs returns the current reference count.
func (b *Buffer) Refs() int32 {
	return atomic.LoadInt32(&b.refs)
}

// Retain adds a reference to b and returns b.
func (b *Buffer) Retain() *Buffer {
	if atomic.AddInt32(&b.refs, 1) <= 1 {
		panic("httpcore/buffer: retain of released buffer")
	}
	return b
}

// Release drops a reference to b and reports whether it was the last
// one. Releasing more times than the buffer was retained panics.
func (b *Buffer) Release() bool {
	n := atomic.AddInt32(&b.refs, -1)
	if n < 0 {
		panic("httpcore/buffer: buffer released too many times")
	}
	if n > 0 {
		return false
	}
	if b.free != nil {
		b.free(b.b)
	}
	b.b = nil
	return true
}
